// Package session holds the state of one interactive analysis session: the
// source being edited, the outcome of the latest analysis cycle, and the
// visibility of every presentation surface, derived from the cycle's phase.
package session

import "slices"

//go:generate enumer -type=Phase -trimprefix=Phase -transform=snake -json -text -yaml
//go:generate go run github.com/smykla-skalski/codemate/tools/enumerfix phase_enumer.go

// Phase is the analysis state machine state.
type Phase int

const (
	// PhaseIdle is the state before the first analysis of the session.
	PhaseIdle Phase = iota

	// PhaseAnalyzing means a compile call is in flight.
	PhaseAnalyzing

	// PhaseCleanNoInput means the program compiled and its output is shown.
	PhaseCleanNoInput

	// PhaseCleanNeedsInput means the program compiled and waits for stdin before running.
	PhaseCleanNeedsInput

	// PhaseFailed means compilation failed. Explanation and fix may still be pending.
	PhaseFailed

	// PhaseRunning means a run call is in flight.
	PhaseRunning

	// PhaseDone is the idle state holding the result of the last cycle or run.
	PhaseDone
)

// validTransitions defines the analysis state machine.
//
//nolint:gochecknoglobals // state machine definition
var validTransitions = map[Phase][]Phase{
	PhaseIdle: {
		PhaseAnalyzing,
	},
	PhaseAnalyzing: {
		PhaseCleanNoInput,
		PhaseCleanNeedsInput,
		PhaseFailed,
		PhaseDone, // transport error or non-OK compile response
	},
	PhaseCleanNoInput: {
		PhaseRunning,
		PhaseAnalyzing,
	},
	PhaseCleanNeedsInput: {
		PhaseRunning,
		PhaseAnalyzing,
	},
	PhaseFailed: {
		PhaseAnalyzing,
	},
	PhaseRunning: {
		PhaseDone,
		PhaseAnalyzing, // the run result is then dropped as stale
	},
	PhaseDone: {
		PhaseRunning,
		PhaseAnalyzing,
	},
}

// IsValidTransition reports whether the machine may move from one phase to another.
func IsValidTransition(from, to Phase) bool {
	return slices.Contains(validTransitions[from], to)
}

// ValidNextPhases returns the phases reachable from a phase.
func ValidNextPhases(from Phase) []Phase {
	return slices.Clone(validTransitions[from])
}

// IsClean reports whether the phase follows a successful compile.
func (p Phase) IsClean() bool {
	return p == PhaseCleanNoInput || p == PhaseCleanNeedsInput
}

// IsSettled reports whether the phase ends a cycle's blocking work.
func (p Phase) IsSettled() bool {
	switch p {
	case PhaseCleanNoInput, PhaseCleanNeedsInput, PhaseFailed, PhaseDone:
		return true
	default:
		return false
	}
}

package session

import (
	"time"

	"github.com/smykla-skalski/codemate/internal/service"
)

// Visibility holds the presentation flags. It is derived from the phase, the
// cycle's results and the user's view toggles, never stored on its own.
type Visibility struct {
	SeverityMeter bool `json:"severity_meter"`
	CorrectedCode bool `json:"corrected_code"`
	Output        bool `json:"output"`
	InputArea     bool `json:"input_area"`
	Chat          bool `json:"chat"`
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Seq              uint64       `json:"seq"`
	Cycle            uint64       `json:"cycle"`
	Phase            Phase        `json:"phase"`
	Analyzing        bool         `json:"analyzing"`
	Running          bool         `json:"running"`
	Source           string       `json:"source"`
	AnalyzedSource   string       `json:"analyzed_source,omitempty"`
	Stdin            string       `json:"stdin"`
	StaticNeedsInput bool         `json:"static_needs_input"`
	Outcome          Outcome      `json:"outcome"`
	Explanation      string       `json:"explanation,omitempty"`
	FixedCode        string       `json:"fixed_code,omitempty"`
	Output           string       `json:"output,omitempty"`
	Visibility       Visibility   `json:"visibility"`
	Connectivity     Connectivity `json:"connectivity"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// CompilationSuccess reports whether the current cycle compiled.
func (s Snapshot) CompilationSuccess() bool {
	return s.Outcome.Succeeded()
}

// Classification returns the cycle's classification, or a zero value.
func (s Snapshot) Classification() service.Classification {
	if s.Outcome.Classification == nil {
		return service.Classification{}
	}

	return *s.Outcome.Classification
}

// Notice returns the status line for the cycle: the success or connectivity
// message. It is empty while analyzing and on a classified failure.
func (s Snapshot) Notice() string {
	return s.Outcome.Message
}

// snapshotLocked copies the state. Must be called with mu held.
func (s *Store) snapshotLocked() Snapshot {
	st := &s.st

	outcome := st.outcome
	outcome.Classification = cloneClassification(st.outcome)
	outcome.ProgramOutput = cloneString(st.outcome.ProgramOutput)

	return Snapshot{
		Seq:              s.seq,
		Cycle:            st.cycle,
		Phase:            st.phase,
		Analyzing:        st.analyzing,
		Running:          st.running,
		Source:           st.source,
		AnalyzedSource:   st.analyzedSource,
		Stdin:            st.stdin,
		StaticNeedsInput: st.staticNeedsInput,
		Outcome:          outcome,
		Explanation:      st.explanation,
		FixedCode:        st.fixedCode,
		Output:           st.output,
		Visibility:       visibility(st),
		Connectivity:     st.connectivity,
		UpdatedAt:        st.updatedAt,
	}
}

// visibility derives the presentation flags.
func visibility(st *state) Visibility {
	v := Visibility{
		Chat:          st.view.chatOpen,
		CorrectedCode: st.view.correctedRequested && st.fixedCode != "",
	}

	switch st.phase {
	case PhaseIdle, PhaseAnalyzing:
	case PhaseFailed:
		v.SeverityMeter = st.outcome.HasFindings() && !st.view.meterDismissed
	case PhaseCleanNoInput:
		v.Output = true
		v.InputArea = st.view.inputRequested
	case PhaseCleanNeedsInput:
		v.InputArea = true
	case PhaseRunning:
		v.Output = true
		v.InputArea = st.view.inputAtRun
	case PhaseDone:
		v.Output = st.output != ""
		v.InputArea = st.view.inputRequested && st.outcome.Succeeded()
	}

	return v
}

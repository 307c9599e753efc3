package session

import "github.com/smykla-skalski/codemate/internal/service"

//go:generate enumer -type=OutcomeKind -trimprefix=Outcome -transform=snake -json -text -yaml
//go:generate go run github.com/smykla-skalski/codemate/tools/enumerfix outcomekind_enumer.go

// OutcomeKind tags the result of one compile call.
type OutcomeKind int

const (
	// OutcomeNone means no compile call has settled in the current cycle.
	OutcomeNone OutcomeKind = iota

	// OutcomeSuccess means the program compiled.
	OutcomeSuccess

	// OutcomeFailure means the service classified compiler errors or warnings.
	OutcomeFailure

	// OutcomeTransportError means the service could not be reached or answered garbage.
	OutcomeTransportError

	// OutcomeRemoteFailure means the service rejected the compile request.
	OutcomeRemoteFailure
)

// Outcome is the settled result of a cycle's compile call. Exactly one is
// recorded per cycle; outcomes are never merged.
type Outcome struct {
	Kind           OutcomeKind             `json:"kind"`
	Classification *service.Classification `json:"classification,omitempty"`
	RawError       string                  `json:"raw_error,omitempty"`
	ProgramOutput  *string                 `json:"program_output,omitempty"`
	NeedsInput     bool                    `json:"needs_input,omitempty"`
	Message        string                  `json:"message,omitempty"`
}

// Succeeded reports whether the outcome allows running the program.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// HasFindings reports whether a classification with errors or warnings is present.
func (o Outcome) HasFindings() bool {
	return o.Classification != nil && o.Classification.HasFindings()
}

package service

// Compile statuses reported by the service.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Classification is the structured severity summary returned by compile.
// SeverityPercent is informational and is never recomputed on the client.
type Classification struct {
	ErrorType       string `json:"error_type"       yaml:"error_type"`
	ErrorCount      int    `json:"error_count"      yaml:"error_count"`
	WarningCount    int    `json:"warning_count"    yaml:"warning_count"`
	SeverityPercent int    `json:"severity_percent" yaml:"severity_percent"`
	SeverityLabel   string `json:"severity_label,omitempty" yaml:"severity_label,omitempty"`
	SeverityLevel   int    `json:"severity_level,omitempty" yaml:"severity_level,omitempty"`
}

// HasFindings reports whether the compiler emitted any error or warning.
func (c Classification) HasFindings() bool {
	return c.ErrorCount > 0 || c.WarningCount > 0
}

// DisplayType returns ErrorType, or "Unknown" when the service left it empty.
func (c Classification) DisplayType() string {
	if c.ErrorType == "" {
		return "Unknown"
	}

	return c.ErrorType
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Message string `json:"message"`
}

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Code string `json:"code"`
}

// CompileResponse is the body of a 2xx POST /compile.
type CompileResponse struct {
	Status         string          `json:"status"`
	RawError       string          `json:"raw_error,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	ProgramOutput  *string         `json:"program_output,omitempty"`
}

// Succeeded reports whether the program compiled.
func (r *CompileResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Output returns the program output, or "" when the service omitted it.
func (r *CompileResponse) Output() string {
	if r.ProgramOutput == nil {
		return ""
	}

	return *r.ProgramOutput
}

// GetClassification returns the classification, or a zero value when absent.
func (r *CompileResponse) GetClassification() Classification {
	if r.Classification == nil {
		return Classification{}
	}

	return *r.Classification
}

// RunRequest is the body of POST /run.
type RunRequest struct {
	Code  string `json:"code"`
	Stdin string `json:"stdin"`
}

// RunResponse is the body of a 2xx POST /run.
type RunResponse struct {
	Status string `json:"status"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether the program ran.
func (r *RunResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}

// ExplainRequest is the body of POST /explain_error.
type ExplainRequest struct {
	RawError       string         `json:"raw_error"`
	Classification Classification `json:"classification"`
}

// ExplainResponse is the body of a 2xx POST /explain_error.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// AutofixRequest is the body of POST /autofix.
type AutofixRequest struct {
	Code string `json:"code"`
}

// AutofixResponse is the body of a 2xx POST /autofix.
type AutofixResponse struct {
	FixedCode string `json:"fixed_code,omitempty"`
	Diff      string `json:"diff,omitempty"`
	Note      string `json:"note,omitempty"`
}

// HardwareUpdateRequest is the body of POST /hardware/update.
type HardwareUpdateRequest struct {
	Classification Classification `json:"classification"`
}

// HardwareStatus is the body of GET /hardware/status.
type HardwareStatus struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
	Voice   string `json:"voice"`
	TTS     bool   `json:"tts"`
}

// ChatResponse is the body of a 2xx POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// VoiceInputResponse is the body of POST /voice_input.
type VoiceInputResponse struct {
	Text string `json:"text"`
}

// SpeakRequest is the body of POST /tts/speak.
type SpeakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// errorBody is the shape of every non-2xx response the service produces.
type errorBody struct {
	Error  string `json:"error"`
	Stderr string `json:"stderr"`
}

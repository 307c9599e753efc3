package workflow

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/session"
)

// User-visible messages.
const (
	MsgEmptySource          = "Please paste or upload your C code first."
	MsgCompileFailed        = "Compilation failed. Please check your code."
	MsgCompiledNeedsInput   = `✅ Compilation successful! Your code compiled without errors. This program requires user input. Please provide input below and click "Run Program".`
	MsgCompiledWithOutput   = "✅ Compilation successful! Your code compiled without errors. The program output is displayed below."
	MsgNoProgramOutput      = "(Program executed successfully with no output)"
	MsgNoExplanation        = "No explanation available."
	MsgExplainFailed        = "Failed to get explanation."
	MsgExplainUnreachable   = "Error connecting to explanation service."
	MsgNoRunOutput          = "(No output)"
	MsgRunFailedPrefix      = "Execution failed:\n"
	MsgRunUnknownError      = "Unknown error"
	MsgRunUnreachable       = "Error running program. Check backend connection."
	MsgNoCorrectedCode      = "No corrected code available. Please analyze your code first."
	MsgRunUnavailable       = "Analyze your code successfully before running it."
	MsgUnsupportedFile      = "Only .c, .cpp, .h and .hpp files can be loaded."
	msgBackendUnreachableFn = "Error connecting to backend. Please make sure the backend server is running on %s"
)

var (
	// ErrEmptySource is returned when analysis is requested for blank source.
	ErrEmptySource = errors.New("source is empty")

	// ErrUnsupportedFile is returned when LoadFile is given a non-C file.
	ErrUnsupportedFile = errors.New("unsupported source file")
)

// BackendUnreachable is the compile connectivity message for baseURL.
func BackendUnreachable(baseURL string) string {
	return fmt.Sprintf(msgBackendUnreachableFn, baseURL)
}

// UserMessage returns the message shown for a controller error, or the error
// text when it has no dedicated message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySource):
		return MsgEmptySource
	case errors.Is(err, session.ErrNoCorrectedCode):
		return MsgNoCorrectedCode
	case errors.Is(err, session.ErrRunUnavailable):
		return MsgRunUnavailable
	case errors.Is(err, ErrUnsupportedFile):
		return MsgUnsupportedFile
	default:
		return err.Error()
	}
}

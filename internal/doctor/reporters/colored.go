package reporters

import (
	"fmt"
	"io"
	"os"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/doctor"
)

// ColoredReporter outputs a static colored table.
// Used for non-TTY output when colors are still enabled (e.g. piped to a pager
// that supports ANSI).
type ColoredReporter struct {
	theme color.Theme
	out   io.Writer
}

// NewColoredReporter creates a ColoredReporter writing to out, or stdout when
// out is nil.
func NewColoredReporter(theme color.Theme, out io.Writer) *ColoredReporter {
	if out == nil {
		out = os.Stdout
	}

	return &ColoredReporter{theme: theme, out: out}
}

// Report renders results as a colored table without interactive spinners.
func (r *ColoredReporter) Report(results []doctor.CheckResult, verbose bool) {
	writeTable(r.out, results, verbose, r.theme)
}

func writeTable(out io.Writer, results []doctor.CheckResult, verbose bool, theme color.Theme) {
	fmt.Fprintln(out, header)
	fmt.Fprintln(out)

	if tbl := RenderTable(results, verbose, theme); tbl != "" {
		fmt.Fprintln(out, tbl)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, RenderSummary(results, theme))
}

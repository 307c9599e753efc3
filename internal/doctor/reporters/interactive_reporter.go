package reporters

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/doctor"
)

// InteractiveReporter shows live spinners during check execution, then renders
// a colored table when all checks complete. Implements doctor.StreamingReporter.
type InteractiveReporter struct {
	theme color.Theme
	out   io.Writer
}

// NewInteractiveReporter creates an InteractiveReporter writing the final
// table to out, or stdout when out is nil. Spinners go to stderr.
func NewInteractiveReporter(theme color.Theme, out io.Writer) *InteractiveReporter {
	if out == nil {
		out = os.Stdout
	}

	return &InteractiveReporter{theme: theme, out: out}
}

// Report renders results as a static colored table. Called for re-runs after
// fixes (the runner calls Report directly, not RunAndReport, for post-fix output).
func (r *InteractiveReporter) Report(results []doctor.CheckResult, verbose bool) {
	writeTable(r.out, results, verbose, r.theme)
}

// RunAndReport launches a BubbleTea program that runs checks with live spinners,
// then displays a table of results. Returns the collected check results.
func (r *InteractiveReporter) RunAndReport(
	ctx context.Context,
	registry *doctor.Registry,
	verbose bool,
	categories []doctor.Category,
) []doctor.CheckResult {
	checkers := registry.CheckersForCategories(categories)
	if len(checkers) == 0 {
		fmt.Fprintln(r.out, "No checks to run.")

		return nil
	}

	model := newDoctorModel(ctx, checkers, verbose, r.theme)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	finalModel, err := p.Run()
	if err != nil {
		// Fallback: run checks without interactive UI, respecting category filter
		fmt.Fprintf(os.Stderr, "interactive UI failed: %v, falling back to static output\n", err)

		results := doctor.RunCheckers(ctx, checkers)
		r.Report(results, verbose)

		return results
	}

	m, ok := finalModel.(doctorModel)
	if !ok {
		return nil
	}

	results := m.results()
	r.Report(results, verbose)

	return results
}

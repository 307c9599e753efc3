package reporters

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/doctor"
)

var (
	ResultRow    = resultRow
	SortByKind   = sortByKind
	ShortenPath  = shortenPath
	MutedBorders = mutedBorders
)

// FitColumns exposes fitColumns as plain ints.
func FitColumns(width int, results []doctor.CheckResult, verbose bool) []int {
	return fitColumns(width, results, verbose)
}

// PadRow pads row to widths.
func PadRow(widths []int, row []string) []string {
	return columns(widths).pad(row)
}

//nolint:ireturn // test helper returning tea.Model interface
func NewModelForTest(
	checkers []doctor.HealthChecker,
	verbose bool,
	theme color.Theme,
) tea.Model {
	return newDoctorModel(context.Background(), checkers, verbose, theme)
}

// ModelResultsForTest extracts results from a doctorModel via tea.Model.
func ModelResultsForTest(m tea.Model) []doctor.CheckResult {
	dm, ok := m.(doctorModel)
	if !ok {
		return nil
	}

	return dm.results()
}

// SetHomeDir overrides the homeDir package variable for testing shortenPath.
func SetHomeDir(dir string) {
	homeDir = dir
}

// Package color provides color detection and theming for CLI output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Profile detects the current color profile based on environment variables and flags.
// Returns true if color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// IsTerminal returns true if the given file descriptor is a terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

// Theme holds lipgloss styles for terminal output.
type Theme struct {
	Pass      lipgloss.Style
	Fail      lipgloss.Style
	Warning   lipgloss.Style
	Skip      lipgloss.Style
	Info      lipgloss.Style
	Header    lipgloss.Style
	CheckName lipgloss.Style
	Muted     lipgloss.Style

	// Panel frames a section of the session screen; Focused marks the
	// section receiving keys.
	Panel   lipgloss.Style
	Focused lipgloss.Style
	Code    lipgloss.Style

	severity map[string]lipgloss.Style
}

// NewTheme creates a Theme. When color is false, styles carry no ANSI codes
// and panels keep plain borders.
func NewTheme(color bool) Theme {
	if !color {
		return Theme{
			Panel:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
			Focused: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1),
		}
	}

	return Theme{
		Pass:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Fail:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Skip:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // gray
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		CheckName: lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1),
		Code: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		severity: map[string]lipgloss.Style{
			"No Error": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			"Low":      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			"Medium":   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			"High":     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			"Critical": lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// Severity returns the style for a severity label. Unknown labels are unstyled.
func (t Theme) Severity(label string) lipgloss.Style {
	if s, ok := t.severity[label]; ok {
		return s
	}

	return lipgloss.NewStyle()
}

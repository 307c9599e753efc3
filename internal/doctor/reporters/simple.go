// Package reporters provides output formatting for doctor check results
package reporters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smykla-skalski/codemate/internal/doctor"
)

// header is printed above every report.
const header = "Checking codemate health..."

// categoryNames maps categories to display names
var categoryNames = map[doctor.Category]string{
	doctor.CategoryConfig:  "Configuration",
	doctor.CategoryService: "Compile Service",
	doctor.CategoryStorage: "Local Storage",
	doctor.CategoryMirror:  "Session Mirror",
}

// SimpleReporter provides simple checklist-style output
type SimpleReporter struct {
	out io.Writer
}

// NewSimpleReporter creates a SimpleReporter writing to out, or stdout when
// out is nil.
func NewSimpleReporter(out io.Writer) *SimpleReporter {
	if out == nil {
		out = os.Stdout
	}

	return &SimpleReporter{out: out}
}

// Report outputs the results in a simple checklist format
func (r *SimpleReporter) Report(results []doctor.CheckResult, verbose bool) {
	fmt.Fprintln(r.out, header)
	fmt.Fprintln(r.out)

	for _, g := range GroupResultsByCategory(results) {
		fmt.Fprintf(r.out, "%s:\n", getCategoryName(g.Category))

		for _, result := range g.Results {
			r.printResult(result, verbose)
		}

		fmt.Fprintln(r.out)
	}

	errorCount, warningCount, passedCount := countResults(results)

	fmt.Fprintf(r.out, "Summary: %d error(s), %d warning(s), %d passed\n",
		errorCount, warningCount, passedCount)
}

// getCategoryName returns the display name for a category
func getCategoryName(category doctor.Category) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}

	// Fallback: capitalize first letter manually for unknown categories
	s := string(category)
	if len(s) == 0 {
		return "Other"
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// printResult prints a single check result
func (r *SimpleReporter) printResult(result doctor.CheckResult, verbose bool) {
	fmt.Fprintf(r.out, "  %s %s", StatusIcon(result), result.Name)

	if result.Message != "" {
		fmt.Fprintf(r.out, " - %s", result.Message)
	}

	fmt.Fprintln(r.out)

	if verbose {
		for _, detail := range result.Details {
			fmt.Fprintf(r.out, "     %s\n", detail)
		}
	}

	if result.HasFix() && result.Status == doctor.StatusFail {
		fmt.Fprintln(r.out, "     → Run: codemate doctor --fix")
	}
}

// countResults counts errors, warnings, and passed checks
func countResults(results []doctor.CheckResult) (errors, warnings, passed int) {
	for _, result := range results {
		switch {
		case result.IsPassed():
			passed++
		case result.IsError():
			errors++
		case result.IsWarning():
			warnings++
		}
	}

	return errors, warnings, passed
}

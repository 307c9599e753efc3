package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/severity"
)

const (
	gaugeWidth   = 20
	defaultWrap  = 80
	diffContext  = 3
	minWrapWidth = 20
)

// Renderer turns session snapshots into terminal text.
type Renderer struct {
	theme    color.Theme
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping markdown at width. Without styled,
// markdown is rendered with the plain-text style.
func NewRenderer(theme color.Theme, width int, styled bool) *Renderer {
	if width < minWrapWidth {
		width = defaultWrap
	}

	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}

	// A nil renderer falls back to raw text
	md, _ := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))

	return &Renderer{theme: theme, markdown: md}
}

// Markdown renders s, falling back to the raw text.
func (r *Renderer) Markdown(s string) string {
	if r.markdown == nil || strings.TrimSpace(s) == "" {
		return s
	}

	out, err := r.markdown.Render(s)
	if err != nil {
		return s
	}

	return strings.Trim(out, "\n")
}

// Gauge renders the severity meter as a bar with counts.
func (r *Renderer) Gauge(cls service.Classification) string {
	percent := severity.Clamp(cls.SeverityPercent)
	label := severity.Label(cls)
	filled := percent * gaugeWidth / 100

	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled)

	return fmt.Sprintf("%s %3d%% %s\n%d errors · %d warnings · %s",
		r.theme.Severity(label).Render(bar),
		percent,
		r.theme.Severity(label).Render(label),
		cls.ErrorCount,
		cls.WarningCount,
		cls.DisplayType(),
	)
}

// Report renders the visible parts of a snapshot.
func (r *Renderer) Report(snap session.Snapshot) string {
	var sections []string

	add := func(title, body string) {
		if title == "" {
			sections = append(sections, body)

			return
		}

		sections = append(sections, r.theme.Header.Render(title)+"\n"+body)
	}

	if notice := snap.Notice(); notice != "" {
		style := r.theme.Pass
		if !snap.CompilationSuccess() {
			style = r.theme.Fail
		}

		add("", style.Render(notice))
	}

	if snap.Visibility.SeverityMeter {
		add("Severity", r.Gauge(snap.Classification()))
	}

	if snap.Outcome.RawError != "" && !snap.CompilationSuccess() {
		add("Compiler Output", r.theme.Muted.Render(CleanOutput(snap.Outcome.RawError)))
	}

	if snap.Explanation != "" {
		add("Explanation", r.Markdown(snap.Explanation))
	}

	if snap.Visibility.CorrectedCode {
		add("Corrected Code", r.Diff(snap.AnalyzedSource, snap.FixedCode))
	}

	if snap.Visibility.Output {
		add("Program Output", r.theme.Code.Render(CleanOutput(snap.Output)))
	}

	return strings.Join(sections, "\n\n")
}

// Diff renders a unified diff from the analyzed source to the fixed code,
// coloring added and removed lines.
func (r *Renderer) Diff(original, fixed string) string {
	diff := FixDiff(original, fixed)
	if diff == "" {
		return r.theme.Muted.Render("(no changes)")
	}

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = r.theme.CheckName.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = r.theme.Pass.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = r.theme.Fail.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = r.theme.Info.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// FixDiff returns the unified diff between two sources, or "" when equal.
func FixDiff(original, fixed string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(original)),
		B:        difflib.SplitLines(ensureNewline(fixed)),
		FromFile: "submitted",
		ToFile:   "corrected",
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}

	return diff
}

// CleanOutput strips escape sequences a program may print and trailing blanks.
func CleanOutput(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}

package reporters

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/doctor"
)

// kind orders results inside a category: errors first, skipped last.
type kind int

const (
	kindError kind = iota
	kindWarning
	kindInfo
	kindPass
	kindSkipped
	kindUnknown
)

// Icons are single width so table columns stay aligned.
var kindIcons = map[kind]string{
	kindError:   "✗",
	kindWarning: "!",
	kindInfo:    "i",
	kindPass:    "✓",
	kindSkipped: "-",
	kindUnknown: "?",
}

func kindOf(r doctor.CheckResult) kind {
	switch r.Status {
	case doctor.StatusPass:
		return kindPass
	case doctor.StatusSkipped:
		return kindSkipped
	case doctor.StatusFail:
		switch r.Severity {
		case doctor.SeverityError:
			return kindError
		case doctor.SeverityWarning:
			return kindWarning
		default:
			return kindInfo
		}
	default:
		return kindUnknown
	}
}

func (k kind) style(theme color.Theme) (lipgloss.Style, bool) {
	switch k {
	case kindError:
		return theme.Fail, true
	case kindWarning, kindInfo:
		return theme.Warning, true
	case kindPass:
		return theme.Pass, true
	case kindSkipped:
		return theme.Skip, true
	default:
		return lipgloss.Style{}, false
	}
}

// StatusIcon returns the plain icon for a check result.
func StatusIcon(result doctor.CheckResult) string {
	return kindIcons[kindOf(result)]
}

// StyledIcon returns StatusIcon colored by the theme.
func StyledIcon(result doctor.CheckResult, theme color.Theme) string {
	k := kindOf(result)

	if style, ok := k.style(theme); ok {
		return style.Render(kindIcons[k])
	}

	return kindIcons[k]
}

// Table geometry. Every column costs a border and two padding spaces, plus
// one closing border for the row.
const (
	cellOverhead  = 3
	minTableWidth = 40
	minMessageW   = 20
	minCheckW     = len("Check")
	messageShare  = 60
)

// columns holds content widths, without padding, for a rendered table.
type columns []int

// fitColumns sizes the table to width. It returns nil when the table should
// be left to size itself, either off a terminal or when width is too narrow.
func fitColumns(width int, results []doctor.CheckResult, verbose bool) columns {
	if width < minTableWidth {
		return nil
	}

	n := 3
	if verbose {
		n = 4
	}

	const iconW = 1

	avail := width - n*cellOverhead - 1 - iconW
	if avail < minMessageW+minCheckW {
		return nil
	}

	checkW := minCheckW
	for _, r := range results {
		checkW = max(checkW, len(r.Name))
	}

	checkW = min(checkW, avail-minMessageW)
	rest := avail - checkW

	if !verbose {
		return columns{iconW, checkW, rest}
	}

	msgW := rest * messageShare / 100

	return columns{iconW, checkW, msgW, rest - msgW}
}

func (c columns) cellWidths() tw.Mapper[int, int] {
	m := make(tw.Mapper[int, int], len(c))
	for i, w := range c {
		m[i] = w + 2
	}

	return m
}

// pad right-pads each cell to its column's visible width.
func (c columns) pad(row []string) []string {
	for i := range row {
		if i >= len(c) {
			break
		}

		if gap := c[i] - runewidth.StringWidth(ansi.Strip(row[i])); gap > 0 {
			row[i] += strings.Repeat(" ", gap)
		}
	}

	return row
}

// RenderTable renders results grouped by category. Category rows span the
// text columns and long cells wrap.
func RenderTable(results []doctor.CheckResult, verbose bool, theme color.Theme) string {
	groups := GroupResultsByCategory(results)
	if len(groups) == 0 {
		return ""
	}

	headers := []string{"", "Check", "Message"}
	if verbose {
		headers = append(headers, "Details")
	}

	cols := fitColumns(terminalWidth(), results, verbose)

	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols:  tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Merging().WithMode(tw.MergeHorizontal).Build().
			Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	}

	if cols != nil {
		opts = append(opts, tablewriter.WithColumnWidths(cols.cellWidths()))
	}

	t := tablewriter.NewTable(&buf, opts...)
	t.Header(headers)

	for _, g := range groups {
		title := theme.Header.Render(getCategoryName(g.Category))

		// identical cells merge into one spanning row
		titleRow := make([]string, len(headers))
		for i := 1; i < len(titleRow); i++ {
			titleRow[i] = title
		}

		_ = t.Append(titleRow)

		for _, r := range sortByKind(g.Results) {
			_ = t.Append(cols.pad(resultRow(r, verbose, theme)))
		}
	}

	_ = t.Render()

	return mutedBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

func resultRow(r doctor.CheckResult, verbose bool, theme color.Theme) []string {
	row := []string{
		StyledIcon(r, theme),
		theme.CheckName.Render(r.Name),
		shortenPath(r.Message),
	}

	if verbose {
		row = append(row, shortenPath(strings.Join(r.Details, "; ")))
	}

	return row
}

func sortByKind(results []doctor.CheckResult) []doctor.CheckResult {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b doctor.CheckResult) int {
		return int(kindOf(a)) - int(kindOf(b))
	})

	return sorted
}

var borderRunes = strings.Split("╭╮╰╯│─┬┴├┤┼", "")

func mutedBorders(s string, theme color.Theme) string {
	for _, ch := range borderRunes {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// RenderSummary returns the colored summary line.
func RenderSummary(results []doctor.CheckResult, theme color.Theme) string {
	errs, warnings, passed := countResults(results)

	skipped := 0

	for _, r := range results {
		if r.IsSkipped() {
			skipped++
		}
	}

	highlight := func(style lipgloss.Style, text string, on bool) string {
		if on {
			return style.Render(text)
		}

		return text
	}

	parts := []string{
		highlight(theme.Fail, fmt.Sprintf("%d error(s)", errs), errs > 0),
		highlight(theme.Warning, fmt.Sprintf("%d warning(s)", warnings), warnings > 0),
		theme.Pass.Render(fmt.Sprintf("%d passed", passed)),
	}

	if skipped > 0 {
		parts = append(parts, theme.Skip.Render(fmt.Sprintf("%d skipped", skipped)))
	}

	return "Summary: " + strings.Join(parts, ", ")
}

type categoryGroup struct {
	Category doctor.Category
	Results  []doctor.CheckResult
}

// GroupResultsByCategory groups results in doctor.Categories order. Unknown
// categories follow in first-seen order.
func GroupResultsByCategory(results []doctor.CheckResult) []categoryGroup {
	order := slices.Clone(doctor.Categories)
	byCat := make(map[doctor.Category][]doctor.CheckResult)

	for _, r := range results {
		if !slices.Contains(order, r.Category) {
			order = append(order, r.Category)
		}

		byCat[r.Category] = append(byCat[r.Category], r)
	}

	var groups []categoryGroup

	for _, cat := range order {
		if rs := byCat[cat]; len(rs) > 0 {
			groups = append(groups, categoryGroup{Category: cat, Results: rs})
		}
	}

	return groups
}

func terminalWidth() int {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 { //nolint:gosec // fd fits int
			return w
		}
	}

	return 0
}

var homeDir, _ = os.UserHomeDir()

// shortenPath replaces the home directory with ~.
func shortenPath(s string) string {
	if homeDir == "" {
		return s
	}

	return strings.ReplaceAll(s, homeDir, "~")
}

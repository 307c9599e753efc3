package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/history"
)

const errorTypeWidth = 24

var (
	historyLimitFlag  int
	historyFormatFlag string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analysis cycles",
	Long: `List the most recent analysis cycles recorded in the history database,
newest first. Source code is not stored, only its digest and size.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 0, "Number of cycles to show (default: history.limit)")
	historyCmd.Flags().StringVarP(&historyFormatFlag, "format", "o", formatText, "Output format (text, json, yaml)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(historyFormatFlag); err != nil {
		return err
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !cfg.GetHistory().IsEnabled() {
		fmt.Fprintln(out, "History is disabled.")

		return nil
	}

	limit := historyLimitFlag
	if limit <= 0 {
		limit = cfg.GetHistory().GetLimit()
	}

	entries, err := recentEntries(cmd, historyPath(cfg), limit)
	if err != nil {
		return err
	}

	if historyFormatFlag != formatText {
		return writeStructured(out, historyFormatFlag, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No analysis cycles recorded.")

		return nil
	}

	renderHistory(out, entries, time.Now())

	return nil
}

// recentEntries reads the newest entries without creating a missing database.
func recentEntries(cmd *cobra.Command, path string, limit int) ([]history.Entry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []history.Entry{}, nil
	}

	store, err := history.Open(cmd.Context(), path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history")
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read history")
	}

	return entries, nil
}

func renderHistory(out io.Writer, entries []history.Entry, now time.Time) {
	t := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)

	t.Header([]string{"When", "Outcome", "Error Type", "Errors", "Warnings", "Severity", "Input", "Fix", "Took"})

	for _, e := range entries {
		_ = t.Append([]string{
			humanize.RelTime(e.StartedAt, now, "ago", "from now"),
			e.Outcome,
			runewidth.Truncate(e.ErrorType, errorTypeWidth, "…"),
			strconv.Itoa(e.ErrorCount),
			strconv.Itoa(e.WarningCount),
			strconv.Itoa(e.SeverityPercent) + "%",
			yesNo(e.NeedsInput),
			yesNo(e.HasFix),
			durafmt.Parse(e.Duration().Round(time.Millisecond)).LimitFirstN(1).String(),
		})
	}

	_ = t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "-"
}

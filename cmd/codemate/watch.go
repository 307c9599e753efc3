package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/watcher"
	"github.com/smykla-skalski/codemate/internal/workflow"
)

var watchFormatFlag string

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-analyze a C file every time it is saved",
	Long: `Analyze FILE, then watch it and analyze it again after every save,
printing a fresh report each time. Runs until interrupted.

Useful next to an editor:
  codemate watch main.c`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFormatFlag, "format", "o", formatText, "Output format (text, json, yaml)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := validateFormat(watchFormatFlag); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	path := args[0]
	if err := a.ctrl.LoadFile(path); err != nil {
		return errors.New(workflow.UserMessage(err))
	}

	out := cmd.OutOrStdout()

	w, err := watcher.New(path, func(content string) {
		a.ctrl.SetSource(content)
		a.analyzeAndPrint(ctx, out, path, watchFormatFlag)
	},
		watcher.WithDebounce(a.cfg.GetWatch().GetDebounce()),
		watcher.WithLogger(a.log),
	)
	if err != nil {
		return errors.Wrap(err, "failed to watch file")
	}

	if _, err := w.Prime(); err != nil {
		return errors.Wrap(err, "failed to read file")
	}

	a.startMirror(ctx)
	a.analyzeAndPrint(ctx, out, path, watchFormatFlag)

	return errors.Wrap(w.Run(ctx), "watch failed")
}

// analyzeAndPrint runs one cycle and prints its report under a header line.
func (a *app) analyzeAndPrint(ctx context.Context, out io.Writer, path, format string) {
	if format == formatText {
		header := fmt.Sprintf("── %s · %s ", filepath.Base(path), time.Now().Format(time.TimeOnly))
		fmt.Fprintln(out, header+strings.Repeat("─", max(0, defaultWidth-len([]rune(header)))))
	}

	if err := a.ctrl.Analyze(ctx); err != nil {
		fmt.Fprintln(out, workflow.UserMessage(err))

		return
	}

	if err := writeReport(out, format, a.store.Snapshot()); err != nil {
		a.log.Error("printing report", "error", err)
	}
}

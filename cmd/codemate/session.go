package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/tui"
	"github.com/smykla-skalski/codemate/internal/watcher"
)

// errNotTerminal is returned when the interactive session has no terminal.
var errNotTerminal = errors.New("interactive session requires a terminal; use 'codemate analyze' instead")

func runSession(_ *cobra.Command, args []string) error {
	if !tui.IsTerminal() {
		return errNotTerminal
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, appOptions{restoreDraft: len(args) == 0})
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 1 {
		if err := a.ctrl.LoadFile(args[0]); err != nil {
			return errors.Wrap(err, "failed to load file")
		}

		if err := a.watchFile(ctx, args[0], func(content string) {
			a.ctrl.SetSource(content)
		}); err != nil {
			return err
		}
	}

	a.startMirror(ctx)

	conn := a.ctrl.Start(ctx)
	a.log.Info("connectivity probed", "reachable", conn.Reachable)

	theme := color.NewTheme(color.Profile(noColorFlag))

	err = tui.RunSession(ctx, a.ctrl, a.newPanel(), theme)

	a.saveDraft()

	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "session failed")
	}

	return nil
}

// watchFile starts a watcher on path in the background. The current content
// is treated as already seen.
func (a *app) watchFile(ctx context.Context, path string, onChange watcher.ChangeFunc) error {
	w, err := watcher.New(path, onChange,
		watcher.WithDebounce(a.cfg.GetWatch().GetDebounce()),
		watcher.WithLogger(a.log),
	)
	if err != nil {
		return errors.Wrap(err, "failed to watch file")
	}

	if _, err := w.Prime(); err != nil {
		return errors.Wrap(err, "failed to read file")
	}

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("watcher stopped", "path", path, "error", err)
		}
	}()

	return nil
}

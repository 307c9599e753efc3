package main

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/chat"
	"github.com/smykla-skalski/codemate/internal/history"
	"github.com/smykla-skalski/codemate/internal/metrics"
	"github.com/smykla-skalski/codemate/internal/mirror"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/workflow"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// app holds the collaborators shared by the session commands.
type app struct {
	cfg     *config.Config
	log     *logger.SlogAdapter
	metrics *metrics.Collector
	client  *service.HTTPClient
	store   *session.Store
	ctrl    *workflow.Controller
	history *history.Store
	mirror  *mirror.Server
}

// appOptions selects the optional parts of an app.
type appOptions struct {
	// flags are merged over the global CLI flags.
	flags map[string]any
	// restoreDraft loads the saved draft when session.persist_draft is on.
	restoreDraft bool
	// quiet disables speech regardless of voice.tts.
	quiet bool
}

// newApp loads configuration and wires the controller with its recorder,
// metrics and logger.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig(opts.flags)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	crashConfig = cfg

	svc := cfg.GetService()

	a.client, err = service.NewHTTPClient(
		svc.GetBaseURL(),
		service.WithTimeout(svc.GetTimeout()),
		service.WithLogger(log),
		service.WithObserver(a.metrics),
	)
	if err != nil {
		_ = log.Close()

		return nil, errors.Wrap(err, "failed to create service client")
	}

	a.store = session.NewStore(session.WithLogger(log))
	crashStore = a.store

	if opts.restoreDraft {
		a.restoreDraft()
	}

	ctrlOpts := []workflow.Option{
		workflow.WithLogger(log),
		workflow.WithObserver(a.metrics),
	}

	if rec := a.openHistory(ctx); rec != nil {
		ctrlOpts = append(ctrlOpts, workflow.WithRecorder(rec))
	}

	a.ctrl = workflow.New(a.client, a.store, workflow.Config{
		BaseURL:            svc.GetBaseURL(),
		Voice:              cfg.GetVoice().GetName(),
		TTS:                cfg.GetVoice().IsTTSEnabled() && !opts.quiet,
		MaxBackgroundTasks: svc.GetMaxBackgroundTasks(),
		TaskTimeout:        svc.GetTaskTimeout(),
	}, ctrlOpts...)

	log.Info("session created",
		"session", a.ctrl.SessionID(),
		"baseURL", svc.GetBaseURL(),
	)

	return a, nil
}

// openHistory opens the cycle log. Failures are logged and history is skipped
// for this process.
func (a *app) openHistory(ctx context.Context) *history.Store {
	if !a.cfg.GetHistory().IsEnabled() {
		return nil
	}

	path := historyPath(a.cfg)

	store, err := history.Open(ctx, path, history.WithLogger(a.log))
	if err != nil {
		a.log.Error("history unavailable", "path", path, "error", err)

		return nil
	}

	a.history = store

	return store
}

// newPanel creates the chat panel for the configured mode.
func (a *app) newPanel() *chat.Panel {
	return chat.NewPanel(a.client, chat.Config{
		BaseURL: a.client.BaseURL(),
		Voice:   a.cfg.GetVoice().GetName(),
		Mode:    a.cfg.GetChat().Mode,
	}, chat.WithLogger(a.log))
}

// startMirror serves the live mirror in the background when enabled.
func (a *app) startMirror(ctx context.Context) {
	m := a.cfg.GetMirror()
	if !m.IsEnabled() {
		return
	}

	a.mirror = mirror.New(a.store,
		mirror.WithLogger(a.log),
		mirror.WithMetrics(a.metrics.Handler()),
	)

	go func() {
		if err := a.mirror.Serve(ctx, m.GetAddress()); err != nil {
			a.log.Error("mirror stopped", "address", m.GetAddress(), "error", err)
		}
	}()
}

func (a *app) restoreDraft() {
	sess := a.cfg.GetSession()
	if !sess.IsPersistDraftEnabled() {
		return
	}

	d, err := session.LoadDraft(draftPath(a.cfg))
	if err != nil {
		a.log.Error("draft not restored", "error", err)

		return
	}

	if d != nil {
		a.store.Restore(*d)
	}
}

func (a *app) saveDraft() {
	if !a.cfg.GetSession().IsPersistDraftEnabled() {
		return
	}

	path := draftPath(a.cfg)

	if err := session.SaveDraft(path, a.store.Draft()); err != nil {
		a.log.Error("draft not saved", "path", path, "error", err)
	}
}

// close waits for background tasks and releases every resource.
func (a *app) close() {
	a.ctrl.Close()

	if a.mirror != nil {
		a.mirror.Close()
	}

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Error("closing history", "error", err)
		}
	}

	_ = a.log.Close()
}

func historyPath(cfg *config.Config) string {
	if p := cfg.GetHistory().Path; p != "" {
		return xdg.ExpandPathSilent(p)
	}

	return xdg.HistoryDB()
}

func draftPath(cfg *config.Config) string {
	if p := cfg.GetSession().StateFile; p != "" {
		return xdg.ExpandPathSilent(p)
	}

	return xdg.DraftFile()
}

// Package workflow sequences the remote calls of an analysis session: compile,
// then explain or run, with telemetry, autofix and speech dispatched in the
// background. Results are written to a session.Store.
package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/codemate/internal/detect"
	"github.com/smykla-skalski/codemate/internal/history"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/severity"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// Recorder persists finished cycles.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
	MarkFixed(ctx context.Context, id string) error
}

// Observer receives workflow metrics.
type Observer interface {
	CycleStarted()
	CycleFinished(outcome string, elapsed time.Duration)
	RunFinished(ok bool)
	TaskDropped(task string)
}

// Config holds the controller settings taken from configuration.
type Config struct {
	// BaseURL is quoted in the connectivity message.
	BaseURL string

	// Voice is the speech voice name.
	Voice string

	// TTS enables speech entry actions.
	TTS bool

	// MaxBackgroundTasks bounds concurrent fire-and-forget calls.
	MaxBackgroundTasks int

	// TaskTimeout bounds each fire-and-forget call.
	TaskTimeout time.Duration
}

// Controller drives the analysis state machine.
type Controller struct {
	client service.Client
	store  *session.Store
	cfg    Config
	runner *runner

	recorder  Recorder
	observer  Observer
	logger    logger.Logger
	now       func() time.Time
	sessionID string

	// recordMu orders a cycle's history insert against its has_fix update.
	recordMu sync.Mutex
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithRecorder enables the cycle history.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(c *Controller) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithSessionID sets the id stored with every history entry.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// New creates a controller writing to store.
func New(client service.Client, store *session.Store, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		client:    client,
		store:     store,
		cfg:       cfg,
		observer:  noopObserver{},
		logger:    logger.NewNoOpLogger(),
		now:       time.Now,
		sessionID: uuid.NewString(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.runner = newRunner(cfg.MaxBackgroundTasks, cfg.TaskTimeout, c.logger, c.observer.TaskDropped)

	return c
}

// Store returns the session store.
func (c *Controller) Store() *session.Store {
	return c.store
}

// SessionID returns the id of this session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Start runs the session-start entry action: the connectivity probe.
func (c *Controller) Start(ctx context.Context) session.Connectivity {
	conn := session.Connectivity{}

	resp, err := c.client.Health(ctx)
	if err != nil {
		conn.Message = BackendUnreachable(c.cfg.BaseURL)

		c.logger.Info("backend probe failed", "error", err.Error())
	} else {
		conn.Reachable = true
		conn.Message = resp.Message
	}

	c.store.SetConnectivity(conn)

	return c.store.Snapshot().Connectivity
}

// Analyze runs one analysis cycle of the current source and returns once its
// blocking calls settled. Autofix, telemetry and speech may still be pending;
// Wait blocks for them. It returns ErrEmptySource for blank source and
// session.ErrAnalysisInFlight while another cycle runs; neither touches state.
func (c *Controller) Analyze(ctx context.Context) error {
	source := c.store.Snapshot().Source
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}

	cycle, err := c.store.BeginCycle(source, detect.NeedsInput(source))
	if err != nil {
		return err
	}

	started := c.now()
	entryID := uuid.NewString()

	c.observer.CycleStarted()

	defer func() {
		c.finishCycle(ctx, cycle, entryID, source, started)
		c.store.EndCycle(cycle)
	}()

	resp, err := c.client.Compile(ctx, source)
	if err != nil {
		c.compileError(cycle, err)

		return nil
	}

	if resp.Succeeded() {
		c.compileSucceeded(cycle, resp)

		return nil
	}

	c.compileFailed(ctx, cycle, entryID, source, resp)

	return nil
}

func (c *Controller) compileError(cycle uint64, err error) {
	if remote, ok := service.AsRemote(err); ok {
		msg := remote.Message
		if msg == "" {
			msg = MsgCompileFailed
		}

		c.store.SetOutcome(cycle, session.Outcome{Kind: session.OutcomeRemoteFailure})
		c.store.SetExplanation(cycle, msg)
	} else {
		c.store.SetOutcome(cycle, session.Outcome{
			Kind:    session.OutcomeTransportError,
			Message: BackendUnreachable(c.cfg.BaseURL),
		})
	}

	c.transition(cycle, session.PhaseDone)

	c.logger.Info("compile call failed",
		"cycle", cycle,
		"error", err.Error(),
	)
}

func (c *Controller) compileSucceeded(cycle uint64, resp *service.CompileResponse) {
	cls := resp.GetClassification()
	output := resp.Output()
	static := c.store.Snapshot().StaticNeedsInput
	needsInput := static || detect.OutputRequestsInput(output)

	outcome := session.Outcome{
		Kind:           session.OutcomeSuccess,
		Classification: &cls,
		RawError:       resp.RawError,
		ProgramOutput:  resp.ProgramOutput,
		NeedsInput:     needsInput,
	}

	if needsInput {
		outcome.Message = MsgCompiledNeedsInput

		c.store.SetOutcome(cycle, outcome)

		if c.transition(cycle, session.PhaseCleanNeedsInput) {
			c.speak(MsgCompiledNeedsInput)
		}
	} else {
		outcome.Message = MsgCompiledWithOutput

		shown := strings.TrimSpace(output)
		if shown == "" {
			shown = MsgNoProgramOutput
		}

		c.store.SetOutcome(cycle, outcome)
		c.store.SetOutput(cycle, shown)
		c.transition(cycle, session.PhaseCleanNoInput)
	}

	c.sendTelemetry(cls)
}

func (c *Controller) compileFailed(
	ctx context.Context,
	cycle uint64,
	entryID, source string,
	resp *service.CompileResponse,
) {
	cls := resp.GetClassification()

	c.store.SetOutcome(cycle, session.Outcome{
		Kind:           session.OutcomeFailure,
		Classification: &cls,
		RawError:       resp.RawError,
	})

	if c.transition(cycle, session.PhaseFailed) && cls.HasFindings() {
		c.speak(severity.GaugeSpeech(cls))
	}

	c.sendTelemetry(cls)
	c.requestFix(cycle, entryID, source)

	c.store.SetExplanation(cycle, c.explain(ctx, resp.RawError, cls))
}

// explain is the blocking explanation call of the failure branch.
func (c *Controller) explain(ctx context.Context, rawError string, cls service.Classification) string {
	resp, err := c.client.ExplainError(ctx, rawError, cls)
	if err == nil {
		if resp.Explanation == "" {
			return MsgNoExplanation
		}

		return resp.Explanation
	}

	if remote, ok := service.AsRemote(err); ok {
		if remote.Message == "" {
			return MsgExplainFailed
		}

		return remote.Message
	}

	return MsgExplainUnreachable
}

// requestFix dispatches the autofix call. A fix is kept whenever it arrives
// while its cycle is current.
func (c *Controller) requestFix(cycle uint64, entryID, source string) {
	c.runner.Go(TaskAutofix, func(ctx context.Context) error {
		resp, err := c.client.Autofix(ctx, source)
		if err != nil {
			return err
		}

		if resp.FixedCode == "" {
			return nil
		}

		if !c.store.SetFixedCode(cycle, resp.FixedCode) {
			return nil
		}

		c.markFixed(ctx, entryID)

		return nil
	})
}

func (c *Controller) sendTelemetry(cls service.Classification) {
	c.runner.Go(TaskTelemetry, func(ctx context.Context) error {
		return c.client.UpdateHardware(ctx, cls)
	})
}

// speak enqueues one speech call unless speech is disabled.
func (c *Controller) speak(text string) {
	if !c.cfg.TTS {
		return
	}

	c.runner.Go(TaskSpeech, func(ctx context.Context) error {
		return c.client.Speak(ctx, text, c.cfg.Voice)
	})
}

// transition applies a phase change and reports whether it took effect.
func (c *Controller) transition(cycle uint64, to session.Phase) bool {
	if err := c.store.Transition(cycle, to); err != nil {
		if !errors.Is(err, session.ErrStaleCycle) {
			c.logger.Error("phase transition rejected",
				"cycle", cycle,
				"to", to.String(),
				"error", err.Error(),
			)
		}

		return false
	}

	return true
}

// Wait blocks until every background task finished.
func (c *Controller) Wait() {
	c.runner.Wait()
}

// Close drains pending background tasks. Telemetry, a late fix and speech
// dispatched by the last cycle still reach the service.
func (c *Controller) Close() {
	c.runner.Close()
}

type noopObserver struct{}

func (noopObserver) CycleStarted()                       {}
func (noopObserver) CycleFinished(string, time.Duration) {}
func (noopObserver) RunFinished(bool)                    {}
func (noopObserver) TaskDropped(string)                  {}

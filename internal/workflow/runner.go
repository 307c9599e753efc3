package workflow

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/codemate/pkg/logger"
)

// Background task names, used in logs and metrics.
const (
	TaskTelemetry = "telemetry"
	TaskAutofix   = "autofix"
	TaskSpeech    = "speech"
)

// runner executes fire-and-forget tasks on a bounded pool. Tasks run on a
// context detached from the user action that spawned them, so a fix can land
// after the analysis call returned. Errors are logged and counted, never
// returned.
type runner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	pool    *semaphore.Weighted
	wg      sync.WaitGroup
	timeout time.Duration
	logger  logger.Logger
	dropped func(task string)
}

func newRunner(maxTasks int, timeout time.Duration, log logger.Logger, dropped func(string)) *runner {
	if maxTasks < 1 {
		maxTasks = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &runner{
		ctx:     ctx,
		cancel:  cancel,
		pool:    semaphore.NewWeighted(int64(maxTasks)),
		timeout: timeout,
		logger:  log,
		dropped: dropped,
	}
}

// Go dispatches fn without waiting for it.
func (r *runner) Go(task string, fn func(ctx context.Context) error) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		if err := r.pool.Acquire(r.ctx, 1); err != nil {
			// Runner closed
			return
		}
		defer r.pool.Release(1)

		ctx := r.ctx

		if r.timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		if err := fn(ctx); err != nil {
			r.logger.Debug("background task failed",
				"task", task,
				"error", err.Error(),
			)

			r.dropped(task)
		}
	}()
}

// Wait blocks until every dispatched task finished.
func (r *runner) Wait() {
	r.wg.Wait()
}

// Close lets queued and running tasks finish, then releases the runner
// context. Each task is bounded by the task timeout, so Close returns within
// a bounded time when one is set.
func (r *runner) Close() {
	r.wg.Wait()
	r.cancel()
}

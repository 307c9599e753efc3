package workflow

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/history"
)

// finishCycle reports a settled cycle to metrics and history. It runs while
// the cycle still holds the in-flight guard.
func (c *Controller) finishCycle(
	ctx context.Context,
	cycle uint64,
	entryID, source string,
	started time.Time,
) {
	c.recordMu.Lock()
	defer c.recordMu.Unlock()

	snap := c.store.Snapshot()
	if snap.Cycle != cycle {
		return
	}

	finished := c.now()
	outcome := snap.Outcome.Kind.String()

	c.observer.CycleFinished(outcome, finished.Sub(started))

	c.logger.Debug("analysis cycle settled",
		"cycle", cycle,
		"phase", snap.Phase.String(),
		"outcome", outcome,
		"elapsed", finished.Sub(started),
	)

	if c.recorder == nil {
		return
	}

	cls := snap.Classification()
	entry := history.Entry{
		ID:              entryID,
		SessionID:       c.sessionID,
		Cycle:           cycle,
		StartedAt:       started,
		FinishedAt:      finished,
		Outcome:         outcome,
		ErrorType:       cls.ErrorType,
		ErrorCount:      cls.ErrorCount,
		WarningCount:    cls.WarningCount,
		SeverityPercent: cls.SeverityPercent,
		NeedsInput:      snap.Outcome.NeedsInput,
		HasFix:          snap.FixedCode != "",
		SourceDigest:    history.Digest(source),
		SourceBytes:     len(source),
	}

	if err := c.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		c.logger.Error("failed to record cycle",
			"cycle", cycle,
			"error", err.Error(),
		)
	}
}

// markFixed flags the history entry of a cycle whose fix arrived. A fix that
// arrives before the entry is written is picked up by finishCycle instead.
func (c *Controller) markFixed(ctx context.Context, entryID string) {
	if c.recorder == nil {
		return
	}

	c.recordMu.Lock()
	defer c.recordMu.Unlock()

	err := c.recorder.MarkFixed(ctx, entryID)
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		c.logger.Error("failed to mark cycle fixed",
			"entry", entryID,
			"error", err.Error(),
		)
	}
}

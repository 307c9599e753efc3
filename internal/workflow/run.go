package workflow

import (
	"context"

	"github.com/smykla-skalski/codemate/internal/service"
)

// Run executes the analyzed program with the current input buffer. It returns
// session.ErrRunUnavailable before a successful compile and
// session.ErrRunInFlight while another run is pending. Service failures are
// shown as program output, not returned.
func (c *Controller) Run(ctx context.Context) error {
	ticket, err := c.store.BeginRun()
	if err != nil {
		return err
	}

	resp, err := c.client.Run(ctx, ticket.Source, ticket.Stdin)
	output, ok := runOutput(resp, err)

	if c.store.FinishRun(ticket.Cycle, output) {
		c.observer.RunFinished(ok)
	}

	c.logger.Debug("run finished",
		"cycle", ticket.Cycle,
		"ok", ok,
		"stdin_bytes", len(ticket.Stdin),
	)

	return nil
}

// runOutput formats a run result for display.
func runOutput(resp *service.RunResponse, err error) (string, bool) {
	if err != nil {
		remote, ok := service.AsRemote(err)
		if !ok {
			return MsgRunUnreachable, false
		}

		return MsgRunFailedPrefix + firstNonEmpty(remote.Message, MsgRunUnknownError), false
	}

	if !resp.Succeeded() {
		return MsgRunFailedPrefix + firstNonEmpty(resp.Error, resp.Stderr, MsgRunUnknownError), false
	}

	return firstNonEmpty(resp.Stdout, MsgNoRunOutput), true
}

// ViewOutput is the "View Output" action: it runs the program when the input
// area is shown, does nothing when output is shown, and otherwise reveals the
// input area.
func (c *Controller) ViewOutput(ctx context.Context) error {
	v := c.store.Snapshot().Visibility

	switch {
	case v.InputArea:
		return c.Run(ctx)
	case v.Output:
		return nil
	default:
		return c.store.RevealInputArea()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

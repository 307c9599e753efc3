package main

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
)

// errUnreachable is returned when the health probe fails.
var errUnreachable = errors.New("analysis service unreachable")

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the analysis service and severity display",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, appOptions{quiet: true})
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	started := time.Now()

	conn := a.ctrl.Start(ctx)
	if !conn.Reachable {
		fmt.Fprintln(out, conn.Message)

		return errUnreachable
	}

	elapsed := durafmt.Parse(time.Since(started).Round(time.Millisecond)).LimitFirstN(1)

	fmt.Fprintf(out, "%s: %s (%s)\n", a.client.BaseURL(), conn.Message, elapsed)

	status, err := a.client.HardwareStatus(ctx)

	switch {
	case err != nil:
		fmt.Fprintf(out, "severity display: unknown (%v)\n", err)
	case status.Connected && status.Port != "":
		fmt.Fprintf(out, "severity display: connected on %s\n", status.Port)
	case status.Connected:
		fmt.Fprintln(out, "severity display: connected")
	default:
		fmt.Fprintln(out, "severity display: not connected")
	}

	return nil
}

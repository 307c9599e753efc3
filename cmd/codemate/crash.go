package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/crashdump"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

const durationDisplayUnits = 2

var (
	// crashConfig and crashStore are captured for the panic handler.
	crashConfig *config.Config
	crashStore  *session.Store

	crashMaxAgeFlag time.Duration
	crashKeepFlag   int
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Manage crash dumps",
	Long: `Manage crash dumps written when codemate panics.

Dumps hold the stack trace, runtime details, the sanitized configuration and
a summary of the session. The program source and its input are never
included, only their digest and size.`,
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash dumps",
	Args:  cobra.NoArgs,
	RunE:  runCrashList,
}

var crashViewCmd = &cobra.Command{
	Use:   "view ID",
	Short: "View crash dump details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrashView,
}

var crashCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old crash dumps",
	Long: `Remove crash dumps beyond the newest --keep, and any older than --max-age.

Examples:
  codemate crash clean                # Keep the newest 10
  codemate crash clean --max-age 168h # Also drop dumps older than a week`,
	Args: cobra.NoArgs,
	RunE: runCrashClean,
}

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.AddCommand(crashListCmd, crashViewCmd, crashCleanCmd)

	crashCleanCmd.Flags().DurationVar(&crashMaxAgeFlag, "max-age", 0, "Remove dumps older than this (0 keeps all ages)")
	crashCleanCmd.Flags().IntVar(&crashKeepFlag, "keep", crashdump.DefaultMaxDumps, "Number of newest dumps to keep")
}

func crashStorage() (*crashdump.Storage, error) {
	storage, err := crashdump.NewStorage(xdg.CrashDumpDir())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open crash dump storage")
	}

	return storage, nil
}

func runCrashList(cmd *cobra.Command, _ []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	summaries, err := storage.List()
	if err != nil {
		return errors.Wrap(err, "failed to list crash dumps")
	}

	out := cmd.OutOrStdout()

	if len(summaries) == 0 {
		fmt.Fprintln(out, "No crash dumps found.")
		fmt.Fprintf(out, "Directory: %s\n", storage.Dir())

		return nil
	}

	fmt.Fprintf(out, "Directory: %s\n", storage.Dir())
	fmt.Fprintf(out, "Total: %d\n\n", len(summaries))

	for i, s := range summaries {
		size := "unknown"
		if s.Size >= 0 {
			size = humanize.Bytes(uint64(s.Size))
		}

		fmt.Fprintf(out, "%d. %s\n", i+1, s.ID)
		fmt.Fprintf(out, "   Time: %s (%s)\n", s.Timestamp.Format(time.DateTime), humanize.Time(s.Timestamp))
		fmt.Fprintf(out, "   Panic: %s\n", s.PanicValue)
		fmt.Fprintf(out, "   Size: %s\n\n", size)
	}

	return nil
}

func runCrashView(cmd *cobra.Command, args []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	info, err := storage.Get(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to load crash dump")
	}

	printCrash(cmd.OutOrStdout(), info)

	return nil
}

func printCrash(out io.Writer, info *crashdump.CrashInfo) {
	fmt.Fprintf(out, "ID: %s\n", info.ID)
	fmt.Fprintf(out, "Timestamp: %s\n", info.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Panic: %s\n\n", info.PanicValue)

	fmt.Fprintln(out, "Runtime")
	fmt.Fprintf(out, "  Go: %s %s/%s\n", info.Runtime.GoVersion, info.Runtime.GOOS, info.Runtime.GOARCH)
	fmt.Fprintf(out, "  Goroutines: %d\n", info.Runtime.NumGoroutine)
	fmt.Fprintf(out, "  Version: %s\n\n", info.Metadata.Version)

	if s := info.Session; s != nil {
		fmt.Fprintln(out, "Session")
		fmt.Fprintf(out, "  Cycle: %d (%s, %s)\n", s.Cycle, s.Phase, s.Outcome)
		fmt.Fprintf(out, "  Source: %s, sha256 %s\n", humanize.Bytes(uint64(s.SourceSize)), s.SourceDigest)
		fmt.Fprintf(out, "  Service reachable: %t\n\n", s.Reachable)
	}

	if len(info.Config) > 0 {
		if data, err := json.MarshalIndent(info.Config, "  ", "  "); err == nil {
			fmt.Fprintf(out, "Configuration\n  %s\n\n", data)
		}
	}

	fmt.Fprintln(out, "Stack Trace")

	for line := range strings.SplitSeq(info.StackTrace, "\n") {
		if line != "" {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

func runCrashClean(cmd *cobra.Command, _ []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	removed, err := storage.Prune(max(crashKeepFlag, 0), crashMaxAgeFlag)
	if err != nil {
		return errors.Wrap(err, "failed to prune crash dumps")
	}

	age := "unlimited"
	if crashMaxAgeFlag > 0 {
		age = durafmt.Parse(crashMaxAgeFlag).LimitFirstN(durationDisplayUnits).String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Retention: %d dumps, %s age\n", crashKeepFlag, age)
	fmt.Fprintf(out, "Removed: %d dump(s)\n", removed)

	return nil
}

// handlePanic writes a crash dump for a recovered panic and reports where it
// went. The stack is printed when the dump cannot be written.
func handlePanic(recovered any) {
	var snap *session.Snapshot

	if crashStore != nil {
		s := crashStore.Snapshot()
		snap = &s
	}

	info := crashdump.NewCollector(version).Collect(recovered, snap, crashConfig)

	fmt.Fprintf(os.Stderr, "panic: %v\n", recovered)

	writer, err := crashdump.NewWriter(xdg.CrashDumpDir(), crashdump.DefaultMaxDumps)
	if err == nil {
		var path string

		if path, err = writer.Write(info); err == nil {
			fmt.Fprintf(os.Stderr, "crash dump saved to: %s\n", path)

			return
		}
	}

	fmt.Fprintf(os.Stderr, "failed to write crash dump: %v\n\n%s", err, info.StackTrace)
}

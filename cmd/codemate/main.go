// Package main provides the CLI entry point for codemate.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeFailure indicates a command error or failed health checks.
	ExitCodeFailure = 1

	// ExitCodeCrash indicates an unexpected panic/crash occurred.
	ExitCodeCrash = 3
)

var (
	debugMode     bool
	traceMode     bool
	noColorFlag   bool
	baseURLFlag   string
	timeoutFlag   string
	voiceFlag     string
	noTTSFlag     bool
	mirrorFlag    string
	noHistoryFlag bool
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			handlePanic(r)

			exitCode = ExitCodeCrash
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeFailure
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "codemate [FILE]",
	Short: "Compile, explain and fix C programs from the terminal",
	Long: `codemate sends C programs to the CodeMate analysis service, shows the
compiler's verdict with a severity gauge, explains errors in plain language,
offers corrected code and runs the program with your input.

Without a subcommand an interactive session is started. When FILE is given it
is loaded into the editor and reloaded whenever it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              runSession,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging, including every request")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	flags.StringVar(
		&baseURLFlag,
		"base-url",
		"",
		"Analysis service URL (default: "+config.DefaultBaseURL+")",
	)
	flags.StringVar(&timeoutFlag, "timeout", "", "Timeout for blocking service calls (e.g. 30s)")
	flags.StringVar(&voiceFlag, "voice", "", "Speech voice name")
	flags.BoolVar(&noTTSFlag, "no-tts", false, "Do not read results aloud")
	flags.StringVar(
		&mirrorFlag,
		"mirror",
		"",
		"Serve a live mirror of the session on this address (e.g. 127.0.0.1:8089)",
	)
	flags.BoolVar(&noHistoryFlag, "no-history", false, "Do not record analysis cycles")
}

// loadConfig loads the layered configuration with CLI flags on top.
func loadConfig(extra map[string]any) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	flags := buildFlagsMap()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := loader.Load(flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	return cfg, nil
}

// buildFlagsMap converts CLI flags to a map for the config provider.
func buildFlagsMap() map[string]any {
	flags := make(map[string]any)

	if baseURLFlag != "" {
		flags["base-url"] = baseURLFlag
	}

	if timeoutFlag != "" {
		flags["timeout"] = timeoutFlag
	}

	if voiceFlag != "" {
		flags["voice"] = voiceFlag
	}

	if noTTSFlag {
		flags["no-tts"] = true
	}

	if mirrorFlag != "" {
		flags["mirror"] = mirrorFlag
	}

	if noHistoryFlag {
		flags["no-history"] = true
	}

	return flags
}

// newLogger opens the log file. --debug and --trace override log.level.
func newLogger(cfg *config.Config) (*logger.SlogAdapter, error) {
	level, err := logger.ParseLevel(cfg.GetLog().Level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	if debugMode || traceMode {
		level = logger.LevelFromFlags(debugMode, traceMode)
	}

	path := cfg.GetLog().File
	if path == "" {
		path = xdg.LogFile()
	}

	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	log, err := logger.NewFileLogger(path, level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	return log, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

package main

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalcolor "github.com/smykla-skalski/codemate/internal/color"
	internalconfig "github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/doctor"
	configchecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/config"
	mirrorchecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/mirror"
	servicechecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/service"
	storagechecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/storage"
	"github.com/smykla-skalski/codemate/internal/doctor/fixers"
	"github.com/smykla-skalski/codemate/internal/doctor/reporters"
	"github.com/smykla-skalski/codemate/internal/prompt"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// doctorTimeout caps each service probe so an unreachable host fails fast.
const doctorTimeout = 5 * time.Second

var (
	verboseFlag  bool
	fixFlag      bool
	categoryFlag []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose codemate setup and configuration",
	Long: `Diagnose codemate setup and configuration issues.

Checks:
- Configuration file validity
- Analysis service reachability and the severity display
- State directories and the history database
- Session mirror address

Examples:
  codemate doctor                      # Run all checks
  codemate doctor --verbose            # Run with detailed output
  codemate doctor --fix                # Automatically fix issues
  codemate doctor --category service   # Check specific categories`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(
		&verboseFlag,
		"verbose",
		"v",
		false,
		"Enable verbose output with detailed context",
	)

	doctorCmd.Flags().BoolVar(
		&fixFlag,
		"fix",
		false,
		"Automatically fix issues without prompting",
	)

	doctorCmd.Flags().StringSliceVar(
		&categoryFlag,
		"category",
		[]string{},
		"Filter checks by category ("+categoryNames()+")",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	categories, err := parseCategories(categoryFlag)
	if err != nil {
		return err
	}

	// The log file is not opened here: doctor inspects the state directory
	// and must not create it.
	var log logger.Logger = logger.NewNoOpLogger()
	if debugMode || traceMode {
		log = logger.NewWriterLogger(os.Stderr, logger.LevelFromFlags(debugMode, traceMode))
	}

	log.Info("starting doctor command",
		"verbose", verboseFlag,
		"fix", fixFlag,
		"categories", categoryFlag,
	)

	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	// Invalid settings are reported by the config check; the rest of the
	// checks fall back to defaults.
	cfg, err := loader.LoadWithoutValidation(buildFlagsMap())
	if err != nil {
		cfg = internalconfig.DefaultConfig(xdg.DefaultResolver())
	}

	registry, err := buildDoctorRegistry(loader, cfg, log)
	if err != nil {
		return err
	}

	prompter := prompt.NewStdPrompter()
	registerFixers(registry, prompter, log)

	runner := doctor.NewRunner(registry, selectReporter(), prompter, log,
		doctor.WithOutput(cmd.OutOrStdout()))

	opts := doctor.RunOptions{
		Verbose:     verboseFlag,
		AutoFix:     fixFlag,
		Interactive: !fixFlag && isInteractive(),
		Categories:  categories,
	}

	if err := runner.Run(cmd.Context(), opts); err != nil {
		if errors.Is(err, doctor.ErrChecksFailed) {
			return err
		}

		return errors.Wrap(err, "doctor command failed")
	}

	return nil
}

// buildDoctorRegistry creates and populates the health check registry.
func buildDoctorRegistry(
	loader *internalconfig.KoanfLoader,
	cfg *config.Config,
	log logger.Logger,
) (*doctor.Registry, error) {
	registry := doctor.NewRegistry()

	registry.RegisterChecker(configchecker.NewChecker(loader))

	baseURL := cfg.GetService().GetBaseURL()

	client, err := service.NewHTTPClient(baseURL,
		service.WithTimeout(min(cfg.GetService().GetTimeout(), doctorTimeout)),
		service.WithLogger(log),
	)
	if err != nil {
		// A malformed URL is reported by the config check
		baseURL = config.DefaultBaseURL

		client, err = service.NewHTTPClient(baseURL, service.WithTimeout(doctorTimeout))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create service client")
		}
	}

	registry.RegisterChecker(servicechecker.NewHealthChecker(client, baseURL))
	registry.RegisterChecker(servicechecker.NewHardwareChecker(client, baseURL))

	registry.RegisterChecker(storagechecker.NewDirChecker(
		storagechecker.Dir{Name: "config", Path: xdg.ConfigDir()},
		storagechecker.Dir{Name: "data", Path: xdg.DataDir()},
		storagechecker.Dir{Name: "state", Path: xdg.StateDir()},
	))
	registry.RegisterChecker(storagechecker.NewHistoryChecker(
		historyPath(cfg),
		cfg.GetHistory().IsEnabled(),
	))

	registry.RegisterChecker(mirrorchecker.NewChecker(
		cfg.GetMirror().GetAddress(),
		cfg.GetMirror().IsEnabled(),
	))

	return registry, nil
}

// registerFixers registers all available fixers.
func registerFixers(registry *doctor.Registry, prompter prompt.Prompter, log logger.Logger) {
	registry.RegisterFixer(fixers.NewDirFixer(prompter, log, xdg.ConfigDir(), xdg.DataDir(), xdg.StateDir()))
	registry.RegisterFixer(fixers.NewConfigFixer(prompter, internalconfig.NewWriter(), xdg.DefaultResolver()))
}

// parseCategories converts category names to Category values.
func parseCategories(names []string) ([]doctor.Category, error) {
	categories := make([]doctor.Category, 0, len(names))

	for _, name := range names {
		cat, err := doctor.ParseCategory(name)
		if err != nil {
			return nil, err
		}

		categories = append(categories, cat)
	}

	return categories, nil
}

func categoryNames() string {
	names := make([]string, 0, len(doctor.Categories))
	for _, c := range doctor.Categories {
		names = append(names, string(c))
	}

	return strings.Join(names, ", ")
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// selectReporter picks the right reporter based on TTY and color settings.
//
//	TTY + colors     -> InteractiveReporter (spinners + colored table)
//	TTY + no colors  -> InteractiveReporter (spinners + plain table)
//	non-TTY + colors -> ColoredReporter (static colored table, no spinners)
//	non-TTY + no color -> SimpleReporter (plain text)
//
//nolint:ireturn // factory function selecting reporter implementation by environment
func selectReporter() doctor.Reporter {
	colorEnabled := internalcolor.Profile(noColorFlag)
	tty := internalcolor.IsTerminal(os.Stdout)
	theme := internalcolor.NewTheme(colorEnabled)

	if tty {
		return reporters.NewInteractiveReporter(theme, os.Stdout)
	}

	if colorEnabled {
		return reporters.NewColoredReporter(theme, os.Stdout)
	}

	return reporters.NewSimpleReporter(os.Stdout)
}

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/tui"
)

var (
	globalFlag bool
	forceFlag  bool
	noTUIFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codemate configuration",
	Long: `Initialize codemate configuration file.

By default, creates a project-local configuration file (.codemate.toml).
Use --global or -g to create the global configuration file
($XDG_CONFIG_HOME/codemate/config.toml).

The initialization process will prompt you to configure:
- The analysis service URL
- The speech voice and whether results are read aloud
- The default chat mode
- Whether analysis history and drafts are kept

Use --force to overwrite an existing configuration file.
Use --no-tui to use simple prompts instead of the interactive form.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(
		&globalFlag,
		"global",
		"g",
		false,
		"Initialize global configuration",
	)

	initCmd.Flags().BoolVarP(
		&forceFlag,
		"force",
		"f",
		false,
		"Overwrite existing configuration file",
	)

	initCmd.Flags().BoolVar(
		&noTUIFlag,
		"no-tui",
		false,
		"Use simple prompts instead of interactive TUI",
	)
}

func runInit(cmd *cobra.Command, _ []string) error {
	writer := config.NewWriter()

	if err := checkExistingConfig(writer); err != nil {
		return err
	}

	ui := tui.NewWithFallback(noTUIFlag)

	cfg, err := ui.RunInitForm(tui.InitFormOptions{Global: globalFlag})
	if err != nil {
		return errors.Wrap(err, "configuration form failed")
	}

	var path string

	if globalFlag {
		path, err = writer.WriteGlobal(cfg, forceFlag)
	} else {
		path, err = writer.WriteProject(cfg, forceFlag)
	}

	if err != nil {
		return errors.Wrap(err, "failed to write configuration")
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n✅ Configuration written to: %s\n", path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration initialized successfully!")

	return nil
}

// checkExistingConfig fails before the form when the target exists and
// --force was not given.
func checkExistingConfig(writer *config.Writer) error {
	path := writer.ProjectConfigPath()
	if globalFlag {
		path = writer.GlobalConfigPath()
	}

	if forceFlag {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // a missing file is what init expects
	}

	return errors.Wrapf(config.ErrConfigExists, "%s\nUse --force to overwrite", path)
}

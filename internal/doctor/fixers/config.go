package fixers

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/doctor"
	configchecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/config"
	"github.com/smykla-skalski/codemate/internal/prompt"
	"github.com/smykla-skalski/codemate/internal/xdg"
)

// ConfigFixer creates the global configuration file with default values.
type ConfigFixer struct {
	prompter prompt.Prompter
	writer   *config.Writer
	paths    xdg.PathResolver
}

// NewConfigFixer creates a new ConfigFixer.
func NewConfigFixer(prompter prompt.Prompter, writer *config.Writer, paths xdg.PathResolver) *ConfigFixer {
	return &ConfigFixer{
		prompter: prompter,
		writer:   writer,
		paths:    paths,
	}
}

// ID returns the fixer identifier.
func (*ConfigFixer) ID() string {
	return configchecker.FixCreateConfig
}

// Description returns a human-readable description.
func (*ConfigFixer) Description() string {
	return "Create the global config file with default values"
}

// CanFix checks if this fixer can fix the given result.
func (*ConfigFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == configchecker.FixCreateConfig && result.Status == doctor.StatusFail
}

// Fix writes the default config. An existing file is left alone.
func (f *ConfigFixer) Fix(_ context.Context, interactive bool) error {
	path := f.writer.GlobalConfigPath()

	if interactive {
		confirmed, err := f.prompter.Confirm(fmt.Sprintf("Create global config at %s?", path), true)
		if err != nil {
			return errors.Wrap(err, "failed to get confirmation")
		}

		if !confirmed {
			return nil
		}
	}

	if _, err := f.writer.WriteGlobal(config.DefaultConfig(f.paths), false); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return nil
		}

		return errors.Wrap(err, "failed to write global config")
	}

	return nil
}

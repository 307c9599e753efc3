// Package configchecker provides checkers for configuration file validation.
package configchecker

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/doctor"
)

const checkName = "Config valid"

// FixCreateConfig is the fix ID attached when no config file exists.
const FixCreateConfig = "create_config"

// Checker loads the merged configuration and validates it.
type Checker struct {
	loader    *config.KoanfLoader
	validator *config.Validator
}

// NewChecker creates a config checker using loader.
func NewChecker(loader *config.KoanfLoader) *Checker {
	return &Checker{
		loader:    loader,
		validator: config.NewValidator(),
	}
}

// Name returns the name of the check
func (*Checker) Name() string {
	return checkName
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check loads every config source and reports load and validation failures.
func (c *Checker) Check(_ context.Context) doctor.CheckResult {
	cfg, err := c.loader.LoadWithoutValidation(nil)
	if err != nil {
		if errors.Is(err, config.ErrInvalidPermissions) {
			return doctor.FailError(checkName, "Insecure file permissions").
				WithDetails(
					err.Error(),
					"Config files must not be world-writable",
					"Fix with: chmod 600 <config-file>",
				)
		}

		return doctor.FailError(checkName, "Failed to load").
			WithDetails(err.Error())
	}

	if err := c.validator.Validate(cfg); err != nil {
		return doctor.FailError(checkName, "Invalid settings").
			WithDetails(strings.Split(err.Error(), "\n")...)
	}

	var sources []string

	if c.loader.HasGlobalConfig() {
		sources = append(sources, c.loader.GlobalConfigPath())
	}

	if project := c.loader.FindProjectConfigPath(); project != "" {
		sources = append(sources, project)
	}

	if len(sources) == 0 {
		return doctor.FailWarning(checkName, "No config file, using defaults").
			WithDetails(
				"Expected at: "+c.loader.GlobalConfigPath(),
				"Create with: codemate init",
			).
			WithFixID(FixCreateConfig)
	}

	return doctor.Pass(checkName, fmt.Sprintf("Loaded %s", strings.Join(sources, ", "))).
		WithDetails("Service: " + cfg.GetService().GetBaseURL())
}

package config

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/pkg/config"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidURL is returned when the service base URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid base URL")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid option value")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// All failures are reported together; errors.Is matches ErrInvalidConfig and each cause.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	validationErrors = append(validationErrors, v.validateService(cfg.Service)...)
	validationErrors = append(validationErrors, v.validateVoice(cfg.Voice)...)
	validationErrors = append(validationErrors, v.validateStorage(cfg)...)

	if cfg.Log != nil {
		if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "log.level"))
		}
	}

	if len(validationErrors) > 0 {
		return errors.Mark(
			errors.Wrapf(
				combineErrors(validationErrors),
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			ErrInvalidConfig,
		)
	}

	return nil
}

func (*Validator) validateService(cfg *config.ServiceConfig) []error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)

		switch {
		case err != nil:
			errs = append(errs, errors.Wrapf(ErrInvalidURL, "service.base_url: %v", err))
		case !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
			errs = append(errs, errors.Wrapf(
				ErrInvalidURL,
				"service.base_url: %q must be an absolute http(s) URL",
				cfg.BaseURL,
			))
		}
	}

	if cfg.MaxBackgroundTasks != nil && *cfg.MaxBackgroundTasks < 1 {
		errs = append(errs, errors.Wrapf(
			ErrInvalidOption,
			"service.max_background_tasks: %d must be at least 1",
			*cfg.MaxBackgroundTasks,
		))
	}

	if cfg.Timeout < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidTimeout, "service.timeout"))
	}

	if cfg.TaskTimeout < 0 {
		errs = append(errs, errors.Wrap(ErrInvalidTimeout, "service.task_timeout"))
	}

	return errs
}

func (*Validator) validateVoice(cfg *config.VoiceConfig) []error {
	if cfg == nil {
		return nil
	}

	if cfg.Name != "" && strings.TrimSpace(cfg.Name) == "" {
		return []error{errors.Wrap(ErrEmptyValue, "voice.name")}
	}

	return nil
}

func (*Validator) validateStorage(cfg *config.Config) []error {
	var errs []error

	if cfg.History != nil && cfg.History.IsEnabled() && cfg.History.Path == "" {
		errs = append(errs, errors.Wrap(ErrEmptyValue, "history.path"))
	}

	if cfg.History != nil && cfg.History.Limit < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "history.limit: %d", cfg.History.Limit))
	}

	if cfg.Mirror != nil && cfg.Mirror.IsEnabled() && cfg.Mirror.Address == "" {
		errs = append(errs, errors.Wrap(ErrEmptyValue, "mirror.address"))
	}

	return errs
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}

package config

import "time"

// Default values for the remote analysis service.
const (
	// DefaultBaseURL is where the backend listens when started locally.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultRequestTimeout bounds a single blocking call.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultTaskTimeout bounds a single fire-and-forget call.
	DefaultTaskTimeout = 90 * time.Second

	// DefaultMaxBackgroundTasks caps concurrently running fire-and-forget calls.
	DefaultMaxBackgroundTasks = 4
)

// ServiceConfig contains connection settings for the remote analysis service.
type ServiceConfig struct {
	// BaseURL is the absolute URL of the backend.
	// Default: "http://localhost:5000"
	BaseURL string `json:"base_url,omitempty" koanf:"base_url" toml:"base_url,omitempty"`

	// Timeout bounds blocking calls (compile, explain, run, chat).
	// Default: "60s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`

	// TaskTimeout bounds fire-and-forget calls (telemetry, autofix, speech).
	// Default: "90s"
	TaskTimeout Duration `json:"task_timeout,omitempty" koanf:"task_timeout" toml:"task_timeout,omitempty"`

	// MaxBackgroundTasks caps concurrently running fire-and-forget calls.
	// Default: 4
	MaxBackgroundTasks *int `json:"max_background_tasks,omitempty" koanf:"max_background_tasks" toml:"max_background_tasks,omitempty"`
}

// GetBaseURL returns the base URL or DefaultBaseURL.
func (s *ServiceConfig) GetBaseURL() string {
	if s == nil || s.BaseURL == "" {
		return DefaultBaseURL
	}

	return s.BaseURL
}

// GetTimeout returns the blocking call timeout or DefaultRequestTimeout.
func (s *ServiceConfig) GetTimeout() time.Duration {
	if s == nil || s.Timeout == 0 {
		return DefaultRequestTimeout
	}

	return s.Timeout.ToDuration()
}

// GetTaskTimeout returns the fire-and-forget timeout or DefaultTaskTimeout.
func (s *ServiceConfig) GetTaskTimeout() time.Duration {
	if s == nil || s.TaskTimeout == 0 {
		return DefaultTaskTimeout
	}

	return s.TaskTimeout.ToDuration()
}

// GetMaxBackgroundTasks returns the background task limit or DefaultMaxBackgroundTasks.
func (s *ServiceConfig) GetMaxBackgroundTasks() int {
	if s == nil || s.MaxBackgroundTasks == nil {
		return DefaultMaxBackgroundTasks
	}

	return *s.MaxBackgroundTasks
}

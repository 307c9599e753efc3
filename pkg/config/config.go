// Package config provides configuration schema types for codemate.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for codemate.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Service configures the remote analysis service.
	Service *ServiceConfig `json:"service,omitempty" koanf:"service" toml:"service,omitempty"`

	// Voice configures speech synthesis.
	Voice *VoiceConfig `json:"voice,omitempty" koanf:"voice" toml:"voice,omitempty"`

	// Chat configures the assistant panel.
	Chat *ChatConfig `json:"chat,omitempty" koanf:"chat" toml:"chat,omitempty"`

	// Session configures draft persistence.
	Session *SessionConfig `json:"session,omitempty" koanf:"session" toml:"session,omitempty"`

	// History configures the analysis cycle log.
	History *HistoryConfig `json:"history,omitempty" koanf:"history" toml:"history,omitempty"`

	// Mirror configures the read-only live session mirror.
	Mirror *MirrorConfig `json:"mirror,omitempty" koanf:"mirror" toml:"mirror,omitempty"`

	// Watch configures source file watching.
	Watch *WatchConfig `json:"watch,omitempty" koanf:"watch" toml:"watch,omitempty"`

	// Log configures the log file.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`
}

// GetService returns the service config, creating it if it doesn't exist.
func (c *Config) GetService() *ServiceConfig {
	if c.Service == nil {
		c.Service = &ServiceConfig{}
	}

	return c.Service
}

// GetVoice returns the voice config, creating it if it doesn't exist.
func (c *Config) GetVoice() *VoiceConfig {
	if c.Voice == nil {
		c.Voice = &VoiceConfig{}
	}

	return c.Voice
}

// GetChat returns the chat config, creating it if it doesn't exist.
func (c *Config) GetChat() *ChatConfig {
	if c.Chat == nil {
		c.Chat = &ChatConfig{}
	}

	return c.Chat
}

// GetSession returns the session config, creating it if it doesn't exist.
func (c *Config) GetSession() *SessionConfig {
	if c.Session == nil {
		c.Session = &SessionConfig{}
	}

	return c.Session
}

// GetHistory returns the history config, creating it if it doesn't exist.
func (c *Config) GetHistory() *HistoryConfig {
	if c.History == nil {
		c.History = &HistoryConfig{}
	}

	return c.History
}

// GetMirror returns the mirror config, creating it if it doesn't exist.
func (c *Config) GetMirror() *MirrorConfig {
	if c.Mirror == nil {
		c.Mirror = &MirrorConfig{}
	}

	return c.Mirror
}

// GetWatch returns the watch config, creating it if it doesn't exist.
func (c *Config) GetWatch() *WatchConfig {
	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}

	return c.Watch
}

// GetLog returns the log config, creating it if it doesn't exist.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

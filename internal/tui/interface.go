// Package tui provides the terminal user interfaces: the interactive analysis
// session and the configuration wizard.
package tui

import (
	pkgConfig "github.com/smykla-skalski/codemate/pkg/config"
)

// UI runs the configuration wizard. There is an interactive implementation
// (huh) and a line-prompt fallback.
type UI interface {
	// RunInitForm asks for the settings and returns them as a config.
	RunInitForm(opts InitFormOptions) (*pkgConfig.Config, error)

	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool
}

// InitFormOptions contains options for the init form.
type InitFormOptions struct {
	// Global indicates whether this is a global or project config.
	Global bool

	// Defaults seeds the form. Nil means built-in defaults.
	Defaults *pkgConfig.Config
}

// InitFormResult contains the answers from the init form.
type InitFormResult struct {
	BaseURL     string
	Voice       string
	TTS         bool
	ChatMode    string
	History     bool
	PersistDraft bool
}

// Voices offered by the speech service.
var Voices = []string{"female", "male"}

func newInitFormResult(opts InitFormOptions) InitFormResult {
	cfg := opts.Defaults
	if cfg == nil {
		cfg = &pkgConfig.Config{}
	}

	mode := cfg.GetChat().Mode
	if mode == pkgConfig.ChatModeUnset {
		mode = pkgConfig.ChatModeStudent
	}

	return InitFormResult{
		BaseURL:     cfg.GetService().GetBaseURL(),
		Voice:       cfg.GetVoice().GetName(),
		TTS:         cfg.GetVoice().IsTTSEnabled(),
		ChatMode:    mode.String(),
		History:     cfg.GetHistory().IsEnabled(),
		PersistDraft: cfg.GetSession().IsPersistDraftEnabled(),
	}
}

// buildConfigFromResult converts the form answers to a config.
func buildConfigFromResult(result *InitFormResult) (*pkgConfig.Config, error) {
	mode, err := pkgConfig.ParseChatMode(result.ChatMode)
	if err != nil {
		return nil, err
	}

	tts := result.TTS
	history := result.History
	persist := result.PersistDraft

	return &pkgConfig.Config{
		Version: pkgConfig.CurrentConfigVersion,
		Service: &pkgConfig.ServiceConfig{BaseURL: result.BaseURL},
		Voice:   &pkgConfig.VoiceConfig{Name: result.Voice, TTS: &tts},
		Chat:    &pkgConfig.ChatConfig{Mode: mode},
		History: &pkgConfig.HistoryConfig{Enabled: &history},
		Session: &pkgConfig.SessionConfig{PersistDraft: &persist},
	}, nil
}

package config

import "time"

// Default values for session-scoped settings.
const (
	// DefaultVoice is the speech synthesis voice name.
	DefaultVoice = "female"

	// DefaultWatchDebounce coalesces bursts of file writes.
	DefaultWatchDebounce = 300 * time.Millisecond

	// DefaultMirrorAddress is the listen address of the live mirror.
	DefaultMirrorAddress = "127.0.0.1:8089"

	// DefaultHistoryLimit is how many cycles `history` lists.
	DefaultHistoryLimit = 20
)

// VoiceConfig contains speech synthesis settings.
type VoiceConfig struct {
	// Name is the voice passed to tts/speak and chat.
	// Default: "female"
	Name string `json:"name,omitempty" koanf:"name" toml:"name,omitempty"`

	// TTS enables spoken feedback on entering the input and failure states.
	// Default: true
	TTS *bool `json:"tts,omitempty" koanf:"tts" toml:"tts,omitempty"`
}

// GetName returns the voice name or DefaultVoice.
func (v *VoiceConfig) GetName() string {
	if v == nil || v.Name == "" {
		return DefaultVoice
	}

	return v.Name
}

// IsTTSEnabled returns true if spoken feedback is enabled.
// Returns true if TTS is nil (default behavior).
func (v *VoiceConfig) IsTTSEnabled() bool {
	if v == nil || v.TTS == nil {
		return true
	}

	return *v.TTS
}

// ChatConfig contains assistant panel settings.
type ChatConfig struct {
	// Mode preselects the chat mode. Empty means the user picks one.
	Mode ChatMode `json:"mode,omitempty" koanf:"mode" toml:"mode,omitempty"`
}

// SessionConfig contains draft persistence settings.
type SessionConfig struct {
	// PersistDraft saves the source text and stdin buffer between runs.
	// Default: true
	PersistDraft *bool `json:"persist_draft,omitempty" koanf:"persist_draft" toml:"persist_draft,omitempty"`

	// StateFile is the path of the draft file.
	// Default: "$XDG_STATE_HOME/codemate/draft.json"
	StateFile string `json:"state_file,omitempty" koanf:"state_file" toml:"state_file,omitempty"`
}

// IsPersistDraftEnabled returns true if draft persistence is enabled.
// Returns true if PersistDraft is nil (default behavior).
func (s *SessionConfig) IsPersistDraftEnabled() bool {
	if s == nil || s.PersistDraft == nil {
		return true
	}

	return *s.PersistDraft
}

// HistoryConfig contains settings for the cycle log.
type HistoryConfig struct {
	// Enabled controls whether finished cycles are recorded.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Path is the SQLite database file.
	// Default: "$XDG_DATA_HOME/codemate/history.db"
	Path string `json:"path,omitempty" koanf:"path" toml:"path,omitempty"`

	// Limit is how many rows `history` shows by default.
	// Default: 20
	Limit int `json:"limit,omitempty" koanf:"limit" toml:"limit,omitempty"`
}

// IsEnabled returns true if history recording is enabled.
func (h *HistoryConfig) IsEnabled() bool {
	if h == nil || h.Enabled == nil {
		return true
	}

	return *h.Enabled
}

// GetLimit returns the listing limit or DefaultHistoryLimit.
func (h *HistoryConfig) GetLimit() int {
	if h == nil || h.Limit <= 0 {
		return DefaultHistoryLimit
	}

	return h.Limit
}

// MirrorConfig contains settings for the live session mirror.
type MirrorConfig struct {
	// Enabled starts the mirror server alongside the session.
	// Default: false
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Address is the listen address.
	// Default: "127.0.0.1:8089"
	Address string `json:"address,omitempty" koanf:"address" toml:"address,omitempty"`
}

// IsEnabled returns true if the mirror is enabled.
func (m *MirrorConfig) IsEnabled() bool {
	if m == nil || m.Enabled == nil {
		return false
	}

	return *m.Enabled
}

// GetAddress returns the listen address or DefaultMirrorAddress.
func (m *MirrorConfig) GetAddress() string {
	if m == nil || m.Address == "" {
		return DefaultMirrorAddress
	}

	return m.Address
}

// WatchConfig contains source file watching settings.
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a reload.
	// Default: "300ms"
	Debounce Duration `json:"debounce,omitempty" koanf:"debounce" toml:"debounce,omitempty"`
}

// GetDebounce returns the debounce period or DefaultWatchDebounce.
func (w *WatchConfig) GetDebounce() time.Duration {
	if w == nil || w.Debounce == 0 {
		return DefaultWatchDebounce
	}

	return w.Debounce.ToDuration()
}

// LogConfig contains log file settings.
type LogConfig struct {
	// Level is one of debug, info, error.
	// Default: "error"
	Level string `json:"level,omitempty" koanf:"level" toml:"level,omitempty"`

	// File is the log file path.
	// Default: "$XDG_STATE_HOME/codemate/codemate.log"
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

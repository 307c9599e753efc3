package config

import (
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

// DefaultConfig returns the configuration used when no file, env var or flag overrides it.
func DefaultConfig(paths xdg.PathResolver) *config.Config {
	return &config.Config{
		Version: config.CurrentConfigVersion,
		Service: &config.ServiceConfig{
			BaseURL:            config.DefaultBaseURL,
			Timeout:            config.Duration(config.DefaultRequestTimeout),
			TaskTimeout:        config.Duration(config.DefaultTaskTimeout),
			MaxBackgroundTasks: ptr(config.DefaultMaxBackgroundTasks),
		},
		Voice: &config.VoiceConfig{
			Name: config.DefaultVoice,
			TTS:  ptr(true),
		},
		Chat: &config.ChatConfig{},
		Session: &config.SessionConfig{
			PersistDraft: ptr(true),
			StateFile:    paths.DraftFile(),
		},
		History: &config.HistoryConfig{
			Enabled: ptr(true),
			Path:    paths.HistoryDB(),
			Limit:   config.DefaultHistoryLimit,
		},
		Mirror: &config.MirrorConfig{
			Enabled: ptr(false),
			Address: config.DefaultMirrorAddress,
		},
		Watch: &config.WatchConfig{
			Debounce: config.Duration(config.DefaultWatchDebounce),
		},
		Log: &config.LogConfig{
			Level: "error",
			File:  paths.LogFile(),
		},
	}
}

// defaultsToMap flattens DefaultConfig into the nested map koanf's confmap provider expects.
func defaultsToMap(paths xdg.PathResolver) map[string]any {
	d := DefaultConfig(paths)

	return map[string]any{
		"version": d.Version,
		"service": map[string]any{
			"base_url":             d.Service.BaseURL,
			"timeout":              d.Service.Timeout.String(),
			"task_timeout":         d.Service.TaskTimeout.String(),
			"max_background_tasks": *d.Service.MaxBackgroundTasks,
		},
		"voice": map[string]any{
			"name": d.Voice.Name,
			"tts":  *d.Voice.TTS,
		},
		"session": map[string]any{
			"persist_draft": *d.Session.PersistDraft,
			"state_file":    d.Session.StateFile,
		},
		"history": map[string]any{
			"enabled": *d.History.Enabled,
			"path":    d.History.Path,
			"limit":   d.History.Limit,
		},
		"mirror": map[string]any{
			"enabled": *d.Mirror.Enabled,
			"address": d.Mirror.Address,
		},
		"watch": map[string]any{
			"debounce": d.Watch.Debounce.String(),
		},
		"log": map[string]any{
			"level": d.Log.Level,
			"file":  d.Log.File,
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/pkg/config"
)

func ptr[T any](v T) *T {
	return &v
}

var _ = Describe("Getters", func() {
	Describe("ServiceConfig", func() {
		It("returns defaults for a nil config", func() {
			var cfg *config.ServiceConfig
			Expect(cfg.GetBaseURL()).To(Equal(config.DefaultBaseURL))
			Expect(cfg.GetTimeout()).To(Equal(config.DefaultRequestTimeout))
			Expect(cfg.GetTaskTimeout()).To(Equal(config.DefaultTaskTimeout))
			Expect(cfg.GetMaxBackgroundTasks()).To(Equal(config.DefaultMaxBackgroundTasks))
		})

		It("returns configured values", func() {
			cfg := &config.ServiceConfig{
				BaseURL:            "http://backend:9000",
				Timeout:            config.Duration(5 * time.Second),
				MaxBackgroundTasks: ptr(1),
			}
			Expect(cfg.GetBaseURL()).To(Equal("http://backend:9000"))
			Expect(cfg.GetTimeout()).To(Equal(5 * time.Second))
			Expect(cfg.GetMaxBackgroundTasks()).To(Equal(1))
		})
	})

	Describe("VoiceConfig", func() {
		It("enables speech by default", func() {
			var cfg *config.VoiceConfig
			Expect(cfg.IsTTSEnabled()).To(BeTrue())
			Expect(cfg.GetName()).To(Equal(config.DefaultVoice))
		})

		It("honours an explicit opt-out", func() {
			cfg := &config.VoiceConfig{TTS: ptr(false), Name: "male"}
			Expect(cfg.IsTTSEnabled()).To(BeFalse())
			Expect(cfg.GetName()).To(Equal("male"))
		})
	})

	Describe("SessionConfig", func() {
		It("persists drafts by default", func() {
			Expect((&config.SessionConfig{}).IsPersistDraftEnabled()).To(BeTrue())
		})

		It("returns false when disabled", func() {
			cfg := &config.SessionConfig{PersistDraft: ptr(false)}
			Expect(cfg.IsPersistDraftEnabled()).To(BeFalse())
		})
	})

	Describe("HistoryConfig", func() {
		It("records by default with the default limit", func() {
			var cfg *config.HistoryConfig
			Expect(cfg.IsEnabled()).To(BeTrue())
			Expect(cfg.GetLimit()).To(Equal(config.DefaultHistoryLimit))
		})
	})

	Describe("MirrorConfig", func() {
		It("is disabled by default", func() {
			var cfg *config.MirrorConfig
			Expect(cfg.IsEnabled()).To(BeFalse())
			Expect(cfg.GetAddress()).To(Equal(config.DefaultMirrorAddress))
		})
	})

	Describe("WatchConfig", func() {
		It("uses the default debounce", func() {
			Expect((&config.WatchConfig{}).GetDebounce()).To(Equal(config.DefaultWatchDebounce))
		})
	})

	Describe("Config", func() {
		It("lazily creates sections", func() {
			cfg := &config.Config{}
			cfg.GetService().BaseURL = "http://x"
			Expect(cfg.Service).NotTo(BeNil())
			Expect(cfg.GetService().GetBaseURL()).To(Equal("http://x"))
		})
	})
})

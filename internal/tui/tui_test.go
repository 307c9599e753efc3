package tui_test

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/internal/prompt"
	"github.com/smykla-skalski/codemate/internal/tui"
	pkgConfig "github.com/smykla-skalski/codemate/pkg/config"
)

var _ = Describe("TUI", func() {
	Describe("IsTerminal", func() {
		It("returns a boolean", func() {
			// IsTerminal checks if stdin/stdout are connected to a terminal.
			// In CI/test environments, this will typically return false.
			result := tui.IsTerminal()
			Expect(result).To(BeAssignableToTypeOf(true))
		})
	})

	Describe("New", func() {
		It("returns a UI implementation", func() {
			ui := tui.New()
			Expect(ui).NotTo(BeNil())
		})

		It("returns a UI that implements the interface", func() {
			ui := tui.New()
			// Verify it has the IsInteractive method
			_ = ui.IsInteractive()
		})

		Context("in non-TTY environment (CI)", func() {
			It("returns FallbackUI", func() {
				// In CI/test environments stdin/stdout are not TTYs,
				// so New() should return FallbackUI
				ui := tui.New()
				Expect(ui.IsInteractive()).To(BeFalse())
			})
		})
	})

	Describe("NewWithFallback", func() {
		Context("when noTUI is true", func() {
			It("returns FallbackUI regardless of terminal state", func() {
				ui := tui.NewWithFallback(true)
				Expect(ui).NotTo(BeNil())
				Expect(ui.IsInteractive()).To(BeFalse())
			})
		})

		Context("when noTUI is false", func() {
			It("returns a UI implementation", func() {
				ui := tui.NewWithFallback(false)
				Expect(ui).NotTo(BeNil())
			})

			It("delegates to New()", func() {
				// In CI/test environments, this should behave the same as New()
				uiWithFallback := tui.NewWithFallback(false)
				uiFromNew := tui.New()
				Expect(uiWithFallback.IsInteractive()).To(Equal(uiFromNew.IsInteractive()))
			})
		})
	})

	Describe("NewHuhUI", func() {
		It("returns a HuhUI instance", func() {
			ui := tui.NewHuhUI()
			Expect(ui).NotTo(BeNil())
		})

		It("is interactive", func() {
			ui := tui.NewHuhUI()
			Expect(ui.IsInteractive()).To(BeTrue())
		})
	})

	Describe("NewFallbackUI", func() {
		It("returns a FallbackUI instance", func() {
			ui := tui.NewFallbackUI()
			Expect(ui).NotTo(BeNil())
		})

		It("is not interactive", func() {
			ui := tui.NewFallbackUI()
			Expect(ui.IsInteractive()).To(BeFalse())
		})
	})

	Describe("FallbackUI.RunInitForm", func() {
		run := func(answers string, opts tui.InitFormOptions) (*pkgConfig.Config, string, error) {
			out := &bytes.Buffer{}
			ui := tui.NewFallbackUIWithPrompter(prompt.NewPrompter(strings.NewReader(answers), out), out)

			cfg, err := ui.RunInitForm(opts)

			return cfg, out.String(), err
		}

		It("accepts the defaults", func() {
			cfg, out, err := run("\n\n\n\n\n\n", tui.InitFormOptions{Global: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("CodeMate Global Configuration Setup"))

			Expect(cfg.Version).To(Equal(pkgConfig.CurrentConfigVersion))
			Expect(cfg.GetService().GetBaseURL()).To(Equal(pkgConfig.DefaultBaseURL))
			Expect(cfg.GetVoice().GetName()).To(Equal("female"))
			Expect(cfg.GetVoice().IsTTSEnabled()).To(BeTrue())
			Expect(cfg.GetChat().Mode).To(Equal(pkgConfig.ChatModeStudent))
			Expect(cfg.GetHistory().IsEnabled()).To(BeTrue())
			Expect(cfg.GetSession().IsPersistDraftEnabled()).To(BeTrue())
		})

		It("applies the answers", func() {
			cfg, out, err := run("http://10.0.0.2:5000\nmale\nn\npro\nn\nn\n", tui.InitFormOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("CodeMate Project Configuration Setup"))

			Expect(cfg.GetService().GetBaseURL()).To(Equal("http://10.0.0.2:5000"))
			Expect(cfg.GetVoice().GetName()).To(Equal("male"))
			Expect(cfg.GetVoice().IsTTSEnabled()).To(BeFalse())
			Expect(cfg.GetChat().Mode).To(Equal(pkgConfig.ChatModePro))
			Expect(cfg.GetHistory().IsEnabled()).To(BeFalse())
			Expect(cfg.GetSession().IsPersistDraftEnabled()).To(BeFalse())
		})

		It("seeds the prompts from existing settings", func() {
			tts := false
			defaults := &pkgConfig.Config{
				Service: &pkgConfig.ServiceConfig{BaseURL: "http://backend:5000"},
				Voice:   &pkgConfig.VoiceConfig{Name: "male", TTS: &tts},
			}

			cfg, out, err := run("\n\n\n\n\n\n", tui.InitFormOptions{Defaults: defaults})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Service URL [http://backend:5000]"))
			Expect(cfg.GetVoice().GetName()).To(Equal("male"))
			Expect(cfg.GetVoice().IsTTSEnabled()).To(BeFalse())
		})

		It("rejects a relative service URL", func() {
			_, _, err := run("localhost\n", tui.InitFormOptions{})
			Expect(err).To(MatchError(ContainSubstring("not an absolute URL")))
		})

		It("rejects an unknown voice", func() {
			_, _, err := run("\nrobot\n", tui.InitFormOptions{})
			Expect(errors.Is(err, prompt.ErrInvalidInput)).To(BeTrue())
		})
	})
})

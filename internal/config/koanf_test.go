package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		paths   xdg.PathResolver
		loader  *internalconfig.KoanfLoader
	)

	writeFile := func(path, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		paths = xdg.ResolverFor(homeDir)
		loader = internalconfig.NewKoanfLoaderWithDirs(paths, workDir)
	})

	It("returns defaults when nothing is configured", func() {
		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetService().GetBaseURL()).To(Equal(config.DefaultBaseURL))
		Expect(cfg.GetService().GetTimeout()).To(Equal(config.DefaultRequestTimeout))
		Expect(cfg.GetVoice().IsTTSEnabled()).To(BeTrue())
		Expect(cfg.GetChat().Mode).To(Equal(config.ChatModeUnset))
		Expect(cfg.GetHistory().Path).To(Equal(paths.HistoryDB()))
		Expect(cfg.GetSession().StateFile).To(Equal(paths.DraftFile()))
		Expect(cfg.GetMirror().IsEnabled()).To(BeFalse())
	})

	It("layers global, project, env and flags in order", func() {
		writeFile(paths.GlobalConfigFile(), `
[service]
base_url = "http://global:5000"
timeout = "10s"

[voice]
name = "male"
`)
		writeFile(filepath.Join(workDir, ".codemate.toml"), `
[service]
base_url = "http://project:5000"

[chat]
mode = "pro"
`)
		GinkgoT().Setenv("CODEMATE_SERVICE__TIMEOUT", "20s")

		cfg, err := loader.Load(map[string]any{"voice": "robot"})
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetService().GetBaseURL()).To(Equal("http://project:5000"))
		Expect(cfg.GetService().GetTimeout()).To(Equal(20 * time.Second))
		Expect(cfg.GetVoice().GetName()).To(Equal("robot"))
		Expect(cfg.GetChat().Mode).To(Equal(config.ChatModePro))
	})

	It("reads the alternative project location", func() {
		writeFile(filepath.Join(workDir, ".codemate", "config.toml"), `
[mirror]
enabled = true
address = "0.0.0.0:9000"
`)

		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetMirror().IsEnabled()).To(BeTrue())
		Expect(cfg.GetMirror().GetAddress()).To(Equal("0.0.0.0:9000"))
		Expect(loader.HasProjectConfig()).To(BeTrue())
		Expect(loader.HasGlobalConfig()).To(BeFalse())
	})

	It("maps boolean flags", func() {
		cfg, err := loader.Load(map[string]any{
			"no-tts":     true,
			"no-history": true,
			"mirror":     "127.0.0.1:7000",
			"mode":       "student",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetVoice().IsTTSEnabled()).To(BeFalse())
		Expect(cfg.GetHistory().IsEnabled()).To(BeFalse())
		Expect(cfg.GetMirror().GetAddress()).To(Equal("127.0.0.1:7000"))
		Expect(cfg.GetChat().Mode).To(Equal(config.ChatModeStudent))
	})

	It("rejects world-writable config files", func() {
		path := filepath.Join(workDir, ".codemate.toml")
		writeFile(path, "[voice]\nname = \"x\"\n")
		Expect(os.Chmod(path, 0o666)).To(Succeed())

		_, err := loader.Load(nil)
		Expect(errors.Is(err, internalconfig.ErrInvalidPermissions)).To(BeTrue())
	})

	It("fails on an unknown chat mode", func() {
		writeFile(filepath.Join(workDir, ".codemate.toml"), "[chat]\nmode = \"expert\"\n")

		_, err := loader.Load(nil)
		Expect(err).To(HaveOccurred())
	})

	It("fails validation on a relative base URL", func() {
		_, err := loader.Load(map[string]any{"base-url": "localhost:5000"})
		Expect(errors.Is(err, internalconfig.ErrInvalidConfig)).To(BeTrue())
		Expect(errors.Is(err, internalconfig.ErrInvalidURL)).To(BeTrue())
	})

	It("skips validation when asked", func() {
		cfg, err := loader.LoadWithoutValidation(map[string]any{"base-url": "nope"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetService().BaseURL).To(Equal("nope"))
	})
})

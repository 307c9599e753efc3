package config_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/codemate/internal/config"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		homeDir string
		workDir string
		paths   xdg.PathResolver
		writer  *internalconfig.Writer
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		paths = xdg.ResolverFor(homeDir)
		writer = internalconfig.NewWriterWithDirs(paths, workDir)
	})

	It("writes a project file the loader reads back", func() {
		cfg := &config.Config{
			Version: config.CurrentConfigVersion,
			Service: &config.ServiceConfig{BaseURL: "http://backend:5000"},
			Chat:    &config.ChatConfig{Mode: config.ChatModePro},
		}

		path, err := writer.WriteProject(cfg, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(workDir, ".codemate.toml")))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("#:schema "))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(internalconfig.ConfigFileMode)))

		loaded, err := internalconfig.NewKoanfLoaderWithDirs(paths, workDir).Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.GetService().GetBaseURL()).To(Equal("http://backend:5000"))
		Expect(loaded.GetChat().Mode).To(Equal(config.ChatModePro))
	})

	It("creates the global config directory", func() {
		path, err := writer.WriteGlobal(&config.Config{Version: 1}, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(paths.GlobalConfigFile()))
		Expect(path).To(BeAnExistingFile())
	})

	It("refuses to overwrite without force", func() {
		_, err := writer.WriteProject(&config.Config{Version: 1}, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = writer.WriteProject(&config.Config{Version: 1}, false)
		Expect(errors.Is(err, internalconfig.ErrConfigExists)).To(BeTrue())

		_, err = writer.WriteProject(&config.Config{Version: 1}, true)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a nil config", func() {
		Expect(writer.WriteFile(filepath.Join(workDir, "x.toml"), nil)).
			To(MatchError(ContainSubstring("config is nil")))
	})
})

package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/codemate/internal/schema"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when writing over an existing file without force.
var ErrConfigExists = errors.New("configuration file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	paths   xdg.PathResolver
	workDir string
}

// NewWriter creates a Writer using XDG paths and the working directory.
func NewWriter() *Writer {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return NewWriterWithDirs(xdg.DefaultResolver(), wd)
}

// NewWriterWithDirs creates a Writer with custom locations (for testing).
func NewWriterWithDirs(paths xdg.PathResolver, workDir string) *Writer {
	return &Writer{paths: paths, workDir: workDir}
}

// GlobalConfigPath returns the path of the global configuration file.
func (w *Writer) GlobalConfigPath() string {
	return w.paths.GlobalConfigFile()
}

// ProjectConfigPath returns the path of the primary project configuration file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.workDir, ProjectConfigFile)
}

// WriteGlobal writes cfg to the global config file.
func (w *Writer) WriteGlobal(cfg *config.Config, force bool) (string, error) {
	path := w.GlobalConfigPath()

	return path, w.write(path, cfg, force)
}

// WriteProject writes cfg to the project config file.
func (w *Writer) WriteProject(cfg *config.Config, force bool) (string, error) {
	path := w.ProjectConfigPath()

	return path, w.write(path, cfg, force)
}

func (w *Writer) write(path string, cfg *config.Config, force bool) error {
	if !force && fileExists(path) {
		return errors.Wrapf(ErrConfigExists, "%s", path)
	}

	return w.WriteFile(path, cfg)
}

// WriteFile marshals cfg to TOML, prefixed with the schema directive, and writes it to path.
func (*Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	buf.WriteString(schema.SchemaDirective())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

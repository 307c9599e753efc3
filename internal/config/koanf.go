// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/config"
)

var (
	// ErrInvalidPermissions is returned when a config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CODEMATE_"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = ".codemate.toml"

	// ProjectConfigDir holds the alternative project configuration file.
	ProjectConfigDir = ".codemate"

	// ProjectConfigFileAlt is the file name inside ProjectConfigDir.
	ProjectConfigFileAlt = "config.toml"
)

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (CODEMATE_*, "__" separates nesting)
// 3. Project Config (.codemate.toml or .codemate/config.toml)
// 4. Global Config ($XDG_CONFIG_HOME/codemate/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k       *koanf.Koanf
	paths   xdg.PathResolver
	workDir string
}

// NewKoanfLoader creates a new KoanfLoader using XDG paths and the working directory.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithDirs(xdg.DefaultResolver(), workDir), nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom locations (for testing).
func NewKoanfLoaderWithDirs(paths xdg.PathResolver, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:       koanf.New("."),
		paths:   paths,
		workDir: workDir,
	}
}

// Load loads and validates configuration from all sources.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// `codemate doctor` uses it to report problems instead of failing on them.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(l.paths), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.FindProjectConfigPath(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	decoderConfig := CustomDecoderConfig()
	decoderConfig.Result = &cfg

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.GetSession().StateFile = xdg.ExpandPathSilent(cfg.GetSession().StateFile)
	cfg.GetHistory().Path = xdg.ExpandPathSilent(cfg.GetHistory().Path)
	cfg.GetLog().File = xdg.ExpandPathSilent(cfg.GetLog().File)

	return &cfg, nil
}

func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps CODEMATE_SERVICE__BASE_URL to service.base_url.
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "__", ".")

	return key, value
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.paths.GlobalConfigFile()
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFileAlt),
	}
}

// FindProjectConfigPath returns the first existing project config file, or "".
func (l *KoanfLoader) FindProjectConfigPath() string {
	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// HasProjectConfig checks if a project configuration file exists.
func (l *KoanfLoader) HasProjectConfig() bool {
	return l.FindProjectConfigPath() != ""
}

// flagsToConfig converts CLI flags to a configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "base-url":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "service")["base_url"] = s
			}

		case "timeout":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "service")["timeout"] = s
			}

		case "voice":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "voice")["name"] = s
			}

		case "no-tts":
			if b, ok := value.(bool); ok && b {
				ensureMapKey(result, "voice")["tts"] = false
			}

		case "mode":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "chat")["mode"] = s
			}

		case "mirror":
			if s, ok := value.(string); ok && s != "" {
				mirror := ensureMapKey(result, "mirror")
				mirror["enabled"] = true
				mirror["address"] = s
			}

		case "no-history":
			if b, ok := value.(bool); ok && b {
				ensureMapKey(result, "history")["enabled"] = false
			}

		case "log-level":
			if s, ok := value.(string); ok && s != "" {
				ensureMapKey(result, "log")["level"] = s
			}
		}
	}

	return result
}

func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	m, _ := cfg[key].(map[string]any)

	return m
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

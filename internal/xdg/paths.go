// Package xdg resolves the on-disk locations codemate uses, following the
// XDG Base Directory conventions. The project-local config file
// (.codemate.toml) is handled by internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "codemate"

// ErrInvalidTilde is returned for paths like "~user/x".
var ErrInvalidTilde = errors.New("paths starting with ~ must be either ~ or ~/subdir")

func baseDir(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}

	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	return baseDir("XDG_DATA_HOME", ".local", "share")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	return baseDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigDir returns ConfigHome()/codemate.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// DataDir returns DataHome()/codemate.
func DataDir() string {
	return filepath.Join(DataHome(), appName)
}

// StateDir returns StateHome()/codemate.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns $CODEMATE_LOG_FILE or StateDir()/codemate.log.
func LogFile() string {
	if v := os.Getenv("CODEMATE_LOG_FILE"); v != "" {
		return v
	}

	return filepath.Join(StateDir(), "codemate.log")
}

// DraftFile returns StateDir()/draft.json.
func DraftFile() string {
	return filepath.Join(StateDir(), "draft.json")
}

// CrashDumpDir returns StateDir()/crash_dumps.
func CrashDumpDir() string {
	return filepath.Join(StateDir(), "crash_dumps")
}

// HistoryDB returns DataDir()/history.db.
func HistoryDB() string {
	return filepath.Join(DataDir(), "history.db")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Wrapf(ErrInvalidTilde, "got %q", path)
	}
}

// ExpandPathSilent is ExpandPath that returns the input unchanged on error.
func ExpandPathSilent(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}

// EnsureDir creates path with 0700 permissions, tightening an existing directory if needed.
func EnsureDir(path string) error {
	const dirMode = 0o700

	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat directory %s", path)
	}

	if info.Mode().Perm() != dirMode {
		if err := os.Chmod(path, dirMode); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}

	return nil
}

package xdg

import "path/filepath"

// PathResolver resolves the files codemate keeps outside the project.
// Loaders take a resolver so tests can point them at a temporary home.
type PathResolver interface {
	GlobalConfigFile() string
	DraftFile() string
	HistoryDB() string
	LogFile() string
}

// DefaultResolver returns a PathResolver using real XDG paths.
func DefaultResolver() PathResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (defaultResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (defaultResolver) DraftFile() string        { return DraftFile() }
func (defaultResolver) HistoryDB() string        { return HistoryDB() }
func (defaultResolver) LogFile() string          { return LogFile() }

// ResolverFor returns a PathResolver rooted at homeDir that ignores XDG env vars.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver{homeDir: homeDir}
}

type homeResolver struct {
	homeDir string
}

func (r homeResolver) GlobalConfigFile() string {
	return filepath.Join(r.homeDir, ".config", appName, "config.toml")
}

func (r homeResolver) DraftFile() string {
	return filepath.Join(r.homeDir, ".local", "state", appName, "draft.json")
}

func (r homeResolver) HistoryDB() string {
	return filepath.Join(r.homeDir, ".local", "share", appName, "history.db")
}

func (r homeResolver) LogFile() string {
	return filepath.Join(r.homeDir, ".local", "state", appName, "codemate.log")
}

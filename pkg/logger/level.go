package logger

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=Level -trimprefix=Level -transform=upper -json -text -yaml -sql
//go:generate go run github.com/smykla-skalski/codemate/tools/enumerfix level_enumer.go

// Level represents the log level.
type Level int

const (
	// LevelDebug logs everything, including per-request traces.
	LevelDebug Level = iota

	// LevelInfo logs phase transitions and lifecycle events.
	LevelInfo

	// LevelError logs failures only.
	LevelError
)

// ErrUnknownLevel is returned by ParseLevel for unrecognized names.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel parses a case-insensitive level name. TRACE is an alias for
// DEBUG and an empty string yields LevelError.
func ParseLevel(s string) (Level, error) {
	name := strings.TrimSpace(s)

	switch strings.ToUpper(name) {
	case "":
		return LevelError, nil
	case "TRACE":
		return LevelDebug, nil
	}

	level, err := LevelString(name)
	if err != nil {
		return LevelError, errors.Wrapf(ErrUnknownLevel, "%q", s)
	}

	return level, nil
}

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromFlags determines the log level from debug and trace flags.
func LevelFromFlags(debug, trace bool) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelError
	}
}

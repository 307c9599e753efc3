package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidChatMode is returned when an unknown chat mode is provided.
	ErrInvalidChatMode = errors.New("invalid chat mode")

	// ErrNegativeDuration is returned when a negative duration is provided.
	ErrNegativeDuration = errors.New("duration must be non-negative")
)

// ChatMode selects the assistant persona used for chat replies.
type ChatMode int

const (
	// ChatModeUnset means no mode has been chosen yet.
	ChatModeUnset ChatMode = iota

	// ChatModeStudent gives beginner-oriented answers.
	ChatModeStudent

	// ChatModePro gives terse expert answers.
	ChatModePro
)

var chatModeNames = map[ChatMode]string{
	ChatModeUnset:   "",
	ChatModeStudent: "student",
	ChatModePro:     "pro",
}

// String returns the wire name of the mode.
func (m ChatMode) String() string {
	return chatModeNames[m]
}

// ParseChatMode parses "student" or "pro", case-insensitively.
func ParseChatMode(s string) (ChatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return ChatModeStudent, nil
	case "pro":
		return ChatModePro, nil
	default:
		return ChatModeUnset, errors.Wrapf(
			ErrInvalidChatMode,
			"%q, must be %q or %q",
			s,
			ChatModeStudent.String(),
			ChatModePro.String(),
		)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ChatMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ChatMode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = ChatModeUnset

		return nil
	}

	mode, err := ParseChatMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// Duration wraps time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

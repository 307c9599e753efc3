// Package logger provides structured logging for the codemate session.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

const (
	// LogFilePermissions defines the file permissions for log files (owner read/write only).
	LogFilePermissions = 0o600

	// LogDirPermissions defines the permissions for the log directory.
	LogDirPermissions = 0o700
)

// SlogAdapter implements Logger on top of a slog.Logger.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewFileLogger opens (or creates) the log file at path and returns a logger writing to it.
func NewFileLogger(path string, level Level) (*SlogAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), LogDirPermissions); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	handler, err := NewFileHandler(path, level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return newSlogAdapter(handler), nil
}

// NewWriterLogger returns a logger writing to w.
func NewWriterLogger(w io.Writer, level Level) *SlogAdapter {
	return newSlogAdapter(NewWriterHandler(w, level))
}

func newSlogAdapter(h *CustomHandler) *SlogAdapter {
	return &SlogAdapter{
		logger:  slog.New(h),
		handler: h,
	}
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{
		logger:  l.logger.With(keysAndValues...),
		handler: l.handler,
	}
}

// Close closes the underlying log file, if any.
func (l *SlogAdapter) Close() error {
	return l.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const initialBufferCapacity = 256

// CustomHandler renders records as "time LEVEL msg key=value" lines.
type CustomHandler struct {
	writer io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewFileHandler creates a handler appending to the file at path.
func NewFileHandler(path string, level Level) (*CustomHandler, error) {
	//nolint:gosec // path comes from config or the XDG state directory
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return NewWriterHandler(file, level), nil
}

// NewWriterHandler creates a handler writing to w.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		writer: w,
		mu:     &sync.Mutex{},
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	buf = append(buf, r.Time.Local().Format("2006-01-02T15:04:05-07:00")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		buf = h.appendAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

func (h *CustomHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')

	if len(h.groups) > 0 {
		buf = append(buf, strings.Join(h.groups, ".")...)
		buf = append(buf, '.')
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.Resolve().String()
	if needsQuoting(val) {
		buf = append(buf, quoteValue(val)...)
	} else {
		buf = append(buf, val...)
	}

	return buf
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsAny(s, " \t\r\n\"=")
}

func quoteValue(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)

	return "\"" + r.Replace(s) + "\""
}

// WithAttrs returns a new handler with the given attributes added.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)

	return &CustomHandler{
		writer: h.writer,
		mu:     h.mu,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new handler with the given group name added.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	newGroups := make([]string, 0, len(h.groups)+1)
	newGroups = append(newGroups, h.groups...)
	newGroups = append(newGroups, name)

	return &CustomHandler{
		writer: h.writer,
		mu:     h.mu,
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// Close closes the underlying writer if it implements io.Closer.
func (h *CustomHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

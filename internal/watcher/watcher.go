// Package watcher reloads a source file when it changes on disk.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/smykla-skalski/codemate/internal/detect"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// DefaultDebounce is the quiet period after the last event before a reload.
const DefaultDebounce = 300 * time.Millisecond

// ErrUnsupportedFile is returned for paths that are not C sources.
var ErrUnsupportedFile = errors.New("not a C source file")

// ChangeFunc receives the new file content.
type ChangeFunc func(content string)

// Watcher reports content changes of a single file. The parent directory is
// watched so editors that save by rename are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange ChangeFunc
	logger   logger.Logger
	last     string
}

// Option configures the Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.logger = log
		}
	}
}

// New creates a watcher for path.
func New(path string, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	if !detect.IsSourceFile(path) {
		return nil, errors.Wrapf(ErrUnsupportedFile, "%s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Prime reads the current content and records it as seen, so an unchanged
// save does not trigger a reload.
func (w *Watcher) Prime() (string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", w.path)
	}

	w.last = string(data)

	return w.last, nil
}

// Run blocks until ctx is done, calling onChange after each debounced change
// whose content differs from the last one delivered.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(w.path))
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Error("file watcher error", "path", w.path, "error", err.Error())
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Mid-rename; the following Create reloads it
		w.logger.Debug("watched file unreadable", "path", w.path, "error", err.Error())

		return
	}

	content := string(data)
	if content == w.last {
		return
	}

	w.last = content

	w.logger.Debug("watched file changed", "path", w.path, "bytes", len(content))

	w.onChange(content)
}

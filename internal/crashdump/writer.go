package crashdump

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/xdg"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	// DefaultMaxDumps is how many dumps are kept after a write.
	DefaultMaxDumps = 10

	tempSuffix = ".tmp"
)

var (
	// ErrWriteFailed is returned when writing a crash dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrInvalidDumpDir is returned when the dump directory is invalid.
	ErrInvalidDumpDir = errors.New("invalid dump directory")
)

// Writer stores dumps in a directory and keeps only the newest maxDumps.
type Writer struct {
	storage  *Storage
	maxDumps int
}

// NewWriter creates a writer for dumpDir. A maxDumps of zero or less keeps
// DefaultMaxDumps.
func NewWriter(dumpDir string, maxDumps int) (*Writer, error) {
	storage, err := NewStorage(dumpDir)
	if err != nil {
		return nil, err
	}

	if maxDumps <= 0 {
		maxDumps = DefaultMaxDumps
	}

	return &Writer{storage: storage, maxDumps: maxDumps}, nil
}

// Write stores info atomically and returns the file path.
func (w *Writer) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := xdg.EnsureDir(w.storage.dir); err != nil {
		return "", errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	filePath := filepath.Join(w.storage.dir, info.ID+FileExtension)
	tempPath := filePath + tempSuffix

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	if err := os.WriteFile(tempPath, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	// Retention is best effort, the new dump is already on disk
	_, _ = w.storage.Prune(w.maxDumps, 0)

	return filePath, nil
}

// Dir returns the dump directory.
func (w *Writer) Dir() string {
	return w.storage.dir
}

package crashdump

import (
	"cmp"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/xdg"
)

// ErrDumpNotFound is returned when a crash dump is not found.
var ErrDumpNotFound = errors.New("crash dump not found")

const maxSummaryPanicLen = 80

// Storage reads and prunes dumps in a directory.
type Storage struct {
	dir string
}

// NewStorage creates a storage rooted at dumpDir, expanding a leading ~.
func NewStorage(dumpDir string) (*Storage, error) {
	if dumpDir == "" {
		return nil, errors.Wrap(ErrInvalidDumpDir, "dump directory cannot be empty")
	}

	dir, err := xdg.ExpandPath(dumpDir)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	return &Storage{dir: dir}, nil
}

// List returns dump summaries, newest first. A missing directory is empty.
func (s *Storage) List() ([]DumpSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DumpSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	summaries := make([]DumpSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		summary, err := s.loadSummary(entry.Name())
		if err != nil {
			// corrupted
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DumpSummary) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	return summaries, nil
}

func (s *Storage) loadSummary(filename string) (DumpSummary, error) {
	filePath := filepath.Join(s.dir, filename)

	info, err := s.Get(strings.TrimSuffix(filename, FileExtension))
	if err != nil {
		return DumpSummary{}, err
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return DumpSummary{}, errors.Wrap(err, "failed to stat file")
	}

	panicValue := info.PanicValue
	if len(panicValue) > maxSummaryPanicLen {
		panicValue = panicValue[:maxSummaryPanicLen] + "..."
	}

	return DumpSummary{
		ID:         info.ID,
		Timestamp:  info.Timestamp,
		PanicValue: panicValue,
		FilePath:   filePath,
		Size:       fileInfo.Size(),
	}, nil
}

// Get loads the dump with the given ID.
func (s *Storage) Get(id string) (*CrashInfo, error) {
	filePath := filepath.Join(s.dir, id+FileExtension)

	// #nosec G304 - filePath is built from the dump directory and an ID
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
		}

		return nil, errors.Wrap(err, "failed to read dump file")
	}

	var info CrashInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dump file")
	}

	return &info, nil
}

// Delete removes the dump with the given ID.
func (s *Storage) Delete(id string) error {
	if err := os.Remove(filepath.Join(s.dir, id+FileExtension)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
		}

		return errors.Wrap(err, "failed to delete dump file")
	}

	return nil
}

// Prune removes dumps older than maxAge (when positive) and then all but the
// newest maxDumps. It returns the number of dumps removed.
func (s *Storage) Prune(maxDumps int, maxAge time.Duration) (int, error) {
	summaries, err := s.List()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	kept := summaries[:0]

	for _, summary := range summaries {
		if maxAge > 0 && now.Sub(summary.Timestamp) > maxAge {
			if s.Delete(summary.ID) == nil {
				removed++

				continue
			}
		}

		kept = append(kept, summary)
	}

	for i := maxDumps; i < len(kept); i++ {
		if s.Delete(kept[i].ID) == nil {
			removed++
		}
	}

	return removed, nil
}

// Dir returns the dump directory.
func (s *Storage) Dir() string {
	return s.dir
}

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// draftFilePermissions is the permission mode for the draft file.
	draftFilePermissions = 0o600

	// draftDirPermissions is the permission mode for the draft directory.
	draftDirPermissions = 0o700
)

// Draft is the part of a session kept across restarts.
type Draft struct {
	Source  string    `json:"source"`
	Stdin   string    `json:"stdin,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Draft returns the editor text and input buffer.
func (s *Store) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Draft{
		Source:  s.st.source,
		Stdin:   s.st.stdin,
		SavedAt: s.now(),
	}
}

// Restore replaces the editor text and input buffer with a saved draft.
func (s *Store) Restore(d Draft) {
	s.update(func(st *state) bool {
		st.source = d.Source
		st.stdin = d.Stdin

		return true
	})
}

// LoadDraft reads a draft from path. A missing or unreadable file yields
// (nil, nil) so a session always starts.
func LoadDraft(path string) (*Draft, error) {
	// Path comes from trusted configuration, not user input.
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil //nolint:nilnil // no draft saved yet
		}

		return nil, errors.Wrap(err, "reading draft file")
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, nil //nolint:nilnil,nilerr // a corrupt draft is discarded
	}

	return &d, nil
}

// SaveDraft writes d to path atomically.
func SaveDraft(path string, d Draft) error {
	if err := os.MkdirAll(filepath.Dir(path), draftDirPermissions); err != nil {
		return errors.Wrap(err, "creating draft directory")
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling draft")
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, draftFilePermissions); err != nil {
		return errors.Wrap(err, "writing temp draft file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrap(err, "renaming draft file")
	}

	return nil
}

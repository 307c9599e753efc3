// Package storagechecker provides checkers for codemate's state directories
// and the history database.
package storagechecker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/smykla-skalski/codemate/internal/doctor"
	"github.com/smykla-skalski/codemate/internal/history"
)

const (
	dirPerm     = 0o700
	dirsName    = "State directories"
	historyName = "History database"
)

// FixCreateDirs is the fix ID attached when directories are missing or open.
const FixCreateDirs = "create_dirs"

// Dir names a directory codemate writes to.
type Dir struct {
	Name string
	Path string
}

// DirChecker verifies the directories exist with 0700 permissions.
type DirChecker struct {
	dirs []Dir
}

// NewDirChecker creates a checker for dirs.
func NewDirChecker(dirs ...Dir) *DirChecker {
	return &DirChecker{dirs: dirs}
}

// Name returns the name of the check.
func (*DirChecker) Name() string {
	return dirsName
}

// Category returns the category of the check.
func (*DirChecker) Category() doctor.Category {
	return doctor.CategoryStorage
}

// Check reports missing directories and loose permissions.
func (c *DirChecker) Check(_ context.Context) doctor.CheckResult {
	var missing, badPerms []string

	for _, d := range c.dirs {
		info, err := os.Stat(d.Path)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, d.Name+": "+d.Path)

				continue
			}

			return doctor.FailError(dirsName, fmt.Sprintf("Failed to stat %s: %v", d.Path, err))
		}

		if !info.IsDir() {
			return doctor.FailError(dirsName, d.Path+" exists but is not a directory")
		}

		if perm := info.Mode().Perm(); perm != dirPerm {
			badPerms = append(badPerms,
				fmt.Sprintf("%s: %04o (expected %04o)", d.Path, perm, dirPerm))
		}
	}

	if len(missing) == 0 && len(badPerms) == 0 {
		return doctor.Pass(dirsName, "All directories present with secure permissions")
	}

	var details []string

	if len(missing) > 0 {
		details = append(details, "Missing directories:")
		details = append(details, missing...)
	}

	if len(badPerms) > 0 {
		details = append(details, "Permission issues:")
		details = append(details, badPerms...)
	}

	msg := "Some directories missing"
	if len(missing) == 0 {
		msg = "Directory permissions not secure"
	}

	return doctor.FailWarning(dirsName, msg).
		WithDetails(details...).
		WithFixID(FixCreateDirs)
}

// HistoryChecker opens the history database and counts its rows.
type HistoryChecker struct {
	path    string
	enabled bool
}

// NewHistoryChecker creates a checker for the database at path.
func NewHistoryChecker(path string, enabled bool) *HistoryChecker {
	return &HistoryChecker{path: path, enabled: enabled}
}

// Name returns the name of the check.
func (*HistoryChecker) Name() string {
	return historyName
}

// Category returns the category of the check.
func (*HistoryChecker) Category() doctor.Category {
	return doctor.CategoryStorage
}

// Check opens the database without creating it when absent.
func (c *HistoryChecker) Check(ctx context.Context) doctor.CheckResult {
	if !c.enabled {
		return doctor.Skip(historyName, "History disabled")
	}

	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return doctor.Pass(historyName, "Not created yet").
			WithDetails("Will be created at " + c.path)
	}

	if err != nil {
		return doctor.FailError(historyName, fmt.Sprintf("Failed to stat %s: %v", c.path, err))
	}

	store, err := history.Open(ctx, c.path)
	if err != nil {
		return doctor.FailError(historyName, "Cannot open database").
			WithDetails(err.Error(), "Move "+filepath.Base(c.path)+" aside to start fresh")
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return doctor.FailError(historyName, "Cannot read database").WithDetails(err.Error())
	}

	return doctor.Pass(historyName, fmt.Sprintf("%s cycles recorded (%s)",
		humanize.Comma(int64(count)), humanize.Bytes(uint64(info.Size())))). //nolint:gosec // size is non-negative
		WithDetails(c.path)
}

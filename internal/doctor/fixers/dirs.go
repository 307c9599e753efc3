// Package fixers provides auto-fix implementations for health check issues.
package fixers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/doctor"
	storagechecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/storage"
	"github.com/smykla-skalski/codemate/internal/prompt"
	"github.com/smykla-skalski/codemate/internal/xdg"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// DirFixer creates state directories and tightens their permissions.
type DirFixer struct {
	prompter prompt.Prompter
	log      logger.Logger
	dirs     []string
}

// NewDirFixer creates a DirFixer for dirs.
func NewDirFixer(prompter prompt.Prompter, log logger.Logger, dirs ...string) *DirFixer {
	return &DirFixer{
		prompter: prompter,
		log:      log,
		dirs:     dirs,
	}
}

// ID returns the fixer identifier.
func (*DirFixer) ID() string {
	return storagechecker.FixCreateDirs
}

// Description returns a human-readable description.
func (*DirFixer) Description() string {
	return "Create state directories with 0700 permissions"
}

// CanFix checks if this fixer can fix the given result.
func (*DirFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == storagechecker.FixCreateDirs && result.Status == doctor.StatusFail
}

// Fix creates the directories.
func (f *DirFixer) Fix(_ context.Context, interactive bool) error {
	if interactive {
		msg := fmt.Sprintf("Create directories (%s)?", strings.Join(f.dirs, ", "))

		confirmed, err := f.prompter.Confirm(msg, true)
		if err != nil {
			return errors.Wrap(err, "failed to get confirmation")
		}

		if !confirmed {
			return nil
		}
	}

	for _, dir := range f.dirs {
		if err := xdg.EnsureDir(dir); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}

		f.log.Info("directory ready", "path", dir)
	}

	return nil
}

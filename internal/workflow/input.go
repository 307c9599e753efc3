package workflow

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/detect"
)

//go:generate enumer -type=Focus -trimprefix=Focus -transform=lower -json -text -yaml
//go:generate go run github.com/smykla-skalski/codemate/tools/enumerfix focus_enumer.go

// Focus is the surface that currently receives keyboard input.
type Focus int

const (
	// FocusUnknown means focus could not be determined.
	FocusUnknown Focus = iota

	// FocusEditor is the source code editor.
	FocusEditor

	// FocusInput is the program input area.
	FocusInput

	// FocusChat is the chat message box.
	FocusChat
)

// SetSource replaces the editor text.
func (c *Controller) SetSource(text string) {
	c.store.SetSource(text)
}

// SetProgramInput replaces the stdin buffer for the next run.
func (c *Controller) SetProgramInput(text string) {
	c.store.SetStdin(text)
}

// Paste replaces the source with pasted text when the editor has focus. It
// reports whether the paste was applied. Blank text and any other focus,
// including an unknown one, are ignored.
func (c *Controller) Paste(text string, focus Focus) bool {
	if focus != FocusEditor || strings.TrimSpace(text) == "" {
		c.logger.Debug("paste ignored", "focus", focus.String())

		return false
	}

	c.store.SetSource(text)

	return true
}

// LoadFile replaces the source with the contents of a C or C++ file.
func (c *Controller) LoadFile(path string) error {
	if !detect.IsSourceFile(path) {
		return errors.Wrapf(ErrUnsupportedFile, "%s", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	c.store.SetSource(string(data))

	c.logger.Debug("source loaded", "path", path, "bytes", len(data))

	return nil
}

// ShowCorrectedCode reveals the corrected code, failing while none arrived.
func (c *Controller) ShowCorrectedCode() error {
	return c.store.ShowCorrectedCode()
}

// HideCorrectedCode hides the corrected code.
func (c *Controller) HideCorrectedCode() {
	c.store.HideCorrectedCode()
}

// DismissSeverityMeter closes the severity meter for the current cycle.
func (c *Controller) DismissSeverityMeter() {
	c.store.DismissSeverityMeter()
}

// HideInputArea closes an input area the user opened.
func (c *Controller) HideInputArea() {
	c.store.HideInputArea()
}

// ToggleChat opens or closes the chat panel and returns the new state.
func (c *Controller) ToggleChat() bool {
	open := !c.store.Snapshot().Visibility.Chat
	c.store.SetChatOpen(open)

	return open
}

package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smykla-skalski/codemate/internal/prompt"
	pkgConfig "github.com/smykla-skalski/codemate/pkg/config"
)

// FallbackUI implements UI using simple line prompts.
// This is used when the terminal is not interactive (CI, piped input, etc.).
type FallbackUI struct {
	prompter prompt.Prompter
	out      io.Writer
}

// NewFallbackUI creates a FallbackUI on stdin and stdout.
func NewFallbackUI() *FallbackUI {
	return NewFallbackUIWithPrompter(prompt.NewStdPrompter(), os.Stdout)
}

// NewFallbackUIWithPrompter creates a FallbackUI with a custom prompter.
func NewFallbackUIWithPrompter(p prompt.Prompter, out io.Writer) *FallbackUI {
	return &FallbackUI{
		prompter: p,
		out:      out,
	}
}

// IsInteractive returns false as FallbackUI is for non-interactive terminals.
func (*FallbackUI) IsInteractive() bool {
	return false
}

// RunInitForm asks for each setting in turn.
func (f *FallbackUI) RunInitForm(opts InitFormOptions) (*pkgConfig.Config, error) {
	result := newInitFormResult(opts)

	f.header(opts.Global)

	var err error

	f.section("Analysis Service")

	if result.BaseURL, err = f.prompter.Input("Service URL", result.BaseURL); err != nil {
		return nil, err
	}

	if err = validateBaseURL(result.BaseURL); err != nil {
		return nil, err
	}

	f.section("Voice")

	if result.Voice, err = f.prompter.Select("Voice", Voices, result.Voice); err != nil {
		return nil, err
	}

	if result.TTS, err = f.prompter.Confirm("Read results aloud", result.TTS); err != nil {
		return nil, err
	}

	f.section("Assistant")

	modes := []string{pkgConfig.ChatModeStudent.String(), pkgConfig.ChatModePro.String()}
	if result.ChatMode, err = f.prompter.Select("Chat mode", modes, result.ChatMode); err != nil {
		return nil, err
	}

	if result.History, err = f.prompter.Confirm("Record analysis history", result.History); err != nil {
		return nil, err
	}

	if result.PersistDraft, err = f.prompter.Confirm("Keep drafts between sessions", result.PersistDraft); err != nil {
		return nil, err
	}

	return buildConfigFromResult(&result)
}

func (f *FallbackUI) header(global bool) {
	scope := "Project"
	if global {
		scope = "Global"
	}

	fmt.Fprintf(f.out, "CodeMate %s Configuration Setup\n", scope)
}

func (f *FallbackUI) section(title string) {
	fmt.Fprintf(f.out, "\n%s\n%s\n", title, strings.Repeat("━", len(title)))
}

package tui

import (
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	pkgConfig "github.com/smykla-skalski/codemate/pkg/config"
)

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct{}

// NewHuhUI creates a new HuhUI instance.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

// IsInteractive returns true as HuhUI is for interactive terminals.
func (*HuhUI) IsInteractive() bool {
	return true
}

// RunInitForm runs the configuration form.
func (*HuhUI) RunInitForm(opts InitFormOptions) (*pkgConfig.Config, error) {
	result := newInitFormResult(opts)

	if err := buildInitForm(opts, &result).Run(); err != nil {
		return nil, err
	}

	return buildConfigFromResult(&result)
}

func buildInitForm(opts InitFormOptions, result *InitFormResult) *huh.Form {
	title := "Project Configuration"
	if opts.Global {
		title = "Global Configuration"
	}

	service := huh.NewGroup(
		huh.NewInput().
			Title("Analysis Service URL").
			Description("Where the compile and explain backend listens.").
			Placeholder(pkgConfig.DefaultBaseURL).
			Validate(validateBaseURL).
			Value(&result.BaseURL),
	).Title(title)

	voiceOptions := make([]huh.Option[string], 0, len(Voices))
	for _, v := range Voices {
		voiceOptions = append(voiceOptions, huh.NewOption(v, v))
	}

	voice := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Voice").
			Options(voiceOptions...).
			Value(&result.Voice),
		huh.NewConfirm().
			Title("Spoken Feedback").
			Description("Read the severity gauge and input prompts aloud.").
			Affirmative("Yes").
			Negative("No").
			Value(&result.TTS),
	)

	assistant := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Chat Mode").
			Options(
				huh.NewOption("Student", pkgConfig.ChatModeStudent.String()),
				huh.NewOption("Pro", pkgConfig.ChatModePro.String()),
			).
			Value(&result.ChatMode),
		huh.NewConfirm().
			Title("Record History").
			Description("Log every analysis to a local database.").
			Value(&result.History),
		huh.NewConfirm().
			Title("Keep Drafts").
			Description("Restore the last source and input on start.").
			Value(&result.PersistDraft),
	)

	return huh.NewForm(service, voice, assistant).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithKeyMap(huh.NewDefaultKeyMap())
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Newf("%q is not an absolute URL", s)
	}

	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/tui"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnknownFormat = errors.New("unknown output format")

const defaultWidth = 80

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return errors.Wrapf(errUnknownFormat, "%q (want text, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(v), "encoding json")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}

		return errors.Wrap(enc.Close(), "encoding yaml")
	default:
		return errors.Wrapf(errUnknownFormat, "%q", format)
	}
}

// report is the structured form of an analysis result.
type report struct {
	Phase          string                  `json:"phase"                    yaml:"phase"`
	Outcome        string                  `json:"outcome"                  yaml:"outcome"`
	Message        string                  `json:"message,omitempty"        yaml:"message,omitempty"`
	Classification *service.Classification `json:"classification,omitempty" yaml:"classification,omitempty"`
	NeedsInput     bool                    `json:"needs_input"              yaml:"needs_input"`
	CompilerOutput string                  `json:"compiler_output,omitempty" yaml:"compiler_output,omitempty"`
	Explanation    string                  `json:"explanation,omitempty"    yaml:"explanation,omitempty"`
	FixedCode      string                  `json:"fixed_code,omitempty"     yaml:"fixed_code,omitempty"`
	Output         string                  `json:"output,omitempty"         yaml:"output,omitempty"`
}

func newReport(snap session.Snapshot) report {
	r := report{
		Phase:          snap.Phase.String(),
		Outcome:        snap.Outcome.Kind.String(),
		Message:        snap.Notice(),
		Classification: snap.Outcome.Classification,
		NeedsInput:     snap.Outcome.NeedsInput,
		Explanation:    snap.Explanation,
		FixedCode:      snap.FixedCode,
	}

	if !snap.CompilationSuccess() {
		r.CompilerOutput = snap.Outcome.RawError
	}

	if snap.Visibility.Output {
		r.Output = snap.Output
	}

	return r
}

// writeReport prints a snapshot in the requested format. Text output includes
// the corrected code diff whenever a fix arrived.
func writeReport(w io.Writer, format string, snap session.Snapshot) error {
	if format != formatText {
		return writeStructured(w, format, newReport(snap))
	}

	tty := isTTY(w)
	r := tui.NewRenderer(color.NewTheme(color.Profile(noColorFlag) && tty), defaultWidth, tty)

	out := r.Report(snap)

	if snap.FixedCode != "" && !snap.Visibility.CorrectedCode {
		out += "\n\n" + r.Diff(snap.AnalyzedSource, snap.FixedCode)
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(out, "\n"))

	return errors.Wrap(err, "writing report")
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && color.IsTerminal(f)
}

// Package prompt provides line-based interactive prompts for terminals
// where the full-screen form cannot run.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyInput is returned when the user provides empty input and no default is set.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput is returned when the user provides invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// Prompter asks the user for values one line at a time.
type Prompter interface {
	// Input prompts for a single line of text input.
	Input(prompt string, defaultValue string) (string, error)

	// Confirm prompts for a yes/no confirmation.
	Confirm(prompt string, defaultValue bool) (bool, error)

	// Select prompts for one of options.
	Select(prompt string, options []string, defaultValue string) (string, error)
}

// StdPrompter reads answers from a reader and writes prompts to a writer.
type StdPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdPrompter creates a prompter on stdin and stdout.
func NewStdPrompter() *StdPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter creates a prompter with a custom reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *StdPrompter {
	return &StdPrompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Input prompts for a single line of text input.
func (p *StdPrompter) Input(prompt string, defaultValue string) (string, error) {
	label := prompt
	if defaultValue != "" {
		label = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}

	input, err := p.ask(label)
	if err != nil {
		return "", err
	}

	if input == "" {
		if defaultValue == "" {
			return "", ErrEmptyInput
		}

		return defaultValue, nil
	}

	return input, nil
}

// Confirm prompts for a yes/no confirmation.
func (p *StdPrompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	input, err := p.ask(fmt.Sprintf("%s [%s]", prompt, defaultStr))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "expected y/n, got %q", input)
	}
}

// Select prompts for one of options, matched case-insensitively.
func (p *StdPrompter) Select(prompt string, options []string, defaultValue string) (string, error) {
	input, err := p.ask(fmt.Sprintf("%s (%s) [%s]", prompt, strings.Join(options, "/"), defaultValue))
	if err != nil {
		return "", err
	}

	if input == "" {
		return defaultValue, nil
	}

	idx := slices.IndexFunc(options, func(o string) bool {
		return strings.EqualFold(o, input)
	})
	if idx < 0 {
		return "", errors.Wrapf(ErrInvalidInput, "expected one of %s, got %q", strings.Join(options, ", "), input)
	}

	return options[idx], nil
}

func (p *StdPrompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.writer, "%s: ", label); err != nil {
		return "", errors.Wrap(err, "failed to write prompt")
	}

	input, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", errors.Wrap(err, "failed to read input")
	}

	return strings.TrimSpace(input), nil
}

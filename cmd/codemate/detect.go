package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/detect"
	"github.com/smykla-skalski/codemate/internal/workflow"
)

var detectFormatFlag string

var detectCmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Report whether a C program reads standard input",
	Long: `Scan a C file for calls that read standard input (scanf, fgets, getchar, ...).

Programs that need input are not run automatically after a successful compile;
the session asks for their input first. This command runs the same check
locally without contacting the service.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&detectFormatFlag, "format", "o", formatText, "Output format (text, json, yaml)")
}

type detectResult struct {
	File       string   `json:"file"        yaml:"file"`
	NeedsInput bool     `json:"needs_input" yaml:"needs_input"`
	Calls      []string `json:"calls"       yaml:"calls"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	if err := validateFormat(detectFormatFlag); err != nil {
		return err
	}

	path := args[0]
	if !detect.IsSourceFile(path) {
		return errors.Wrapf(workflow.ErrUnsupportedFile, "%s", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	source := string(data)
	result := detectResult{
		File:       path,
		NeedsInput: detect.NeedsInput(source),
		Calls:      detect.Calls(source),
	}

	out := cmd.OutOrStdout()

	if detectFormatFlag != formatText {
		return writeStructured(out, detectFormatFlag, result)
	}

	if !result.NeedsInput {
		fmt.Fprintf(out, "%s: no input needed\n", path)

		return nil
	}

	fmt.Fprintf(out, "%s: needs input (%s)\n", path, strings.Join(result.Calls, ", "))

	return nil
}

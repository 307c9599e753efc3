package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/workflow"
)

var (
	inputFlag     string
	stdinFileFlag string
	runFlag       bool
	waitFixFlag   bool
	formatFlag    string
)

// errAnalysisFailed is returned after printing a report whose compile did not succeed.
var errAnalysisFailed = errors.New("analysis did not compile cleanly")

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Compile a C file and explain what went wrong",
	Long: `Compile a C file on the analysis service and print the result.

On failure the severity gauge, the compiler output and an explanation are
printed. A corrected version is requested in the background; --wait-fix waits
for it and prints it as a diff. On success the program output is shown, or,
when the program reads input, it can be run with --run and --input.

Examples:
  codemate analyze hello.c
  codemate analyze sum.c --run --input "1 2"
  codemate analyze broken.c --wait-fix
  codemate analyze broken.c --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&inputFlag, "input", "", "Program input used with --run")
	analyzeCmd.Flags().StringVar(&stdinFileFlag, "stdin-file", "", "Read program input from a file")
	analyzeCmd.Flags().BoolVar(&runFlag, "run", false, "Run the program after a successful compile")
	analyzeCmd.Flags().BoolVar(&waitFixFlag, "wait-fix", false, "Wait for the corrected code before printing")
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "o", formatText, "Output format (text, json, yaml)")

	analyzeCmd.MarkFlagsMutuallyExclusive("input", "stdin-file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateFormat(formatFlag); err != nil {
		return err
	}

	stdin, err := programInput()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ctrl.LoadFile(args[0]); err != nil {
		return errors.New(workflow.UserMessage(err))
	}

	if err := a.ctrl.Analyze(ctx); err != nil {
		return errors.New(workflow.UserMessage(err))
	}

	if runFlag && a.store.Snapshot().CompilationSuccess() {
		a.ctrl.SetProgramInput(stdin)

		if err := a.ctrl.Run(ctx); err != nil {
			return errors.New(workflow.UserMessage(err))
		}
	}

	if waitFixFlag {
		a.ctrl.Wait()
	}

	snap := a.store.Snapshot()

	if err := writeReport(cmd.OutOrStdout(), formatFlag, snap); err != nil {
		return err
	}

	if !snap.CompilationSuccess() {
		return errAnalysisFailed
	}

	return nil
}

// programInput returns the --input text or the --stdin-file contents.
func programInput() (string, error) {
	if stdinFileFlag == "" {
		return inputFlag, nil
	}

	data, err := os.ReadFile(stdinFileFlag)
	if err != nil {
		return "", errors.Wrap(err, "failed to read program input")
	}

	return string(data), nil
}

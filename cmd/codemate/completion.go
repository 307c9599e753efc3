package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/detect"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for codemate.

File arguments of analyze, detect and watch complete to C and C++ sources
and headers only.

Bash:
  $ source <(codemate completion bash)

Zsh:
  $ codemate completion zsh > "${fpath[1]}/_codemate"

Fish:
  $ codemate completion fish > ~/.config/fish/completions/codemate.fish

PowerShell:
  PS> codemate completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)

	for _, cmd := range []*cobra.Command{rootCmd, analyzeCmd, detectCmd, watchCmd} {
		cmd.ValidArgsFunction = completeSourceFiles
	}
}

var completionGenerators = map[string]func(io.Writer) error{
	"bash":       rootCmd.GenBashCompletion,
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

func runCompletion(cmd *cobra.Command, args []string) error {
	gen, ok := completionGenerators[args[0]]
	if !ok {
		return errors.Newf("unsupported shell %q", args[0])
	}

	return errors.Wrap(gen(cmd.OutOrStdout()), "failed to generate completion script")
}

// completeSourceFiles offers directories and accepted source files under the
// typed prefix. Only the first argument completes.
func completeSourceFiles(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	dir, prefix := filepath.Split(toComplete)

	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}

	var out []string

	directive := cobra.ShellCompDirectiveNoFileComp

	for _, e := range entries {
		name := e.Name()

		hidden := strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".")
		if hidden || !strings.HasPrefix(name, prefix) {
			continue
		}

		switch {
		case e.IsDir():
			out = append(out, dir+name+string(filepath.Separator))
			directive |= cobra.ShellCompDirectiveNoSpace
		case detect.IsSourceFile(name):
			out = append(out, dir+name)
		}
	}

	return out, directive
}

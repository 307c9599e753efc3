package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/codemate/internal/chat"
	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/tui"
	"github.com/smykla-skalski/codemate/pkg/config"
)

var (
	chatModeFlag   string
	voiceInputFlag bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE]",
	Short: "Ask the C programming assistant",
	Long: `Ask the C programming assistant a question.

With MESSAGE a single question is sent and the reply printed. With
--voice-input the question is recorded by the service host's microphone.
Otherwise questions are read line by line from standard input until EOF.

Modes:
  student  beginner-oriented answers (default)
  pro      terse expert answers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatModeFlag, "mode", "m", "", "Chat mode (student, pro)")
	chatCmd.Flags().BoolVar(&voiceInputFlag, "voice-input", false, "Record the question by voice")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	flags := map[string]any{}
	if chatModeFlag != "" {
		flags["mode"] = chatModeFlag
	}

	a, err := newApp(ctx, appOptions{flags: flags, quiet: true})
	if err != nil {
		return err
	}
	defer a.close()

	panel := a.newPanel()
	if panel.Mode() == config.ChatModeUnset {
		panel.SelectMode(config.ChatModeStudent)
	}

	out := cmd.OutOrStdout()
	tty := isTTY(out)
	r := tui.NewRenderer(color.NewTheme(color.Profile(noColorFlag) && tty), defaultWidth, tty)

	show := func(m chat.Message) {
		fmt.Fprintln(out, strings.TrimRight(r.Markdown(m.Text), "\n"))
	}

	switch {
	case voiceInputFlag:
		reply, err := panel.VoiceInput(ctx)
		if err != nil {
			return errors.Wrap(err, "voice input")
		}

		show(reply)
	case len(args) == 1:
		reply, err := panel.Send(ctx, args[0])
		if err != nil {
			return errors.Wrap(err, "chat")
		}

		show(reply)
	default:
		return chatLoop(ctx, panel, cmd.InOrStdin(), out, show)
	}

	return nil
}

// chatLoop sends each non-blank input line and prints the reply.
func chatLoop(
	ctx context.Context,
	panel *chat.Panel,
	in io.Reader,
	out io.Writer,
	show func(chat.Message),
) error {
	fmt.Fprintln(out, chat.Greeting)

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(out)

			return errors.Wrap(scanner.Err(), "reading question")
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := panel.Send(ctx, line)
		if err != nil {
			return errors.Wrap(err, "chat")
		}

		show(reply)

		if ctx.Err() != nil {
			return nil
		}
	}
}

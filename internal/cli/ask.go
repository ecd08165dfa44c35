// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/chat"
)

func newAskCommand(app *App) *cobra.Command {
	var newChat bool
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Send one message to the active session and print the reply",
		Long: `Send one message in the active session (or a new one) and print the reply.
With no arguments the message is read from standard input.`,
		Example: `  chatstudio ask "What is a goroutine?"
  chatstudio ask --new "Summarize RFC 2119"
  git diff | chatstudio ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				if app.Interactive() {
					return fmt.Errorf("nothing to ask; pass a question or pipe one on stdin")
				}
				data, err := io.ReadAll(app.In)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}
			if newChat {
				app.Repo.NewChat()
			}
			return runAsk(cmd, app, text)
		},
	}
	cmd.Flags().BoolVarP(&newChat, "new", "n", false, "start a new session for this message")
	return cmd
}

func runAsk(cmd *cobra.Command, app *App, text string) error {
	ctrl := app.NewController(app.toastNotifier(), nil)
	defer ctrl.Close()

	result, err := ctrl.Send(cmd.Context(), text)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case chat.OutcomeIgnored:
		return fmt.Errorf("nothing to ask; the message is empty")
	case chat.OutcomeFailed:
		fmt.Fprintln(app.Out, result.Reply.Content)
		return fmt.Errorf("%s request failed", app.Repo.Selection().Provider().DisplayName())
	default:
		fmt.Fprintln(app.Out, renderMarkdown(result.Reply.Content))
		return nil
	}
}

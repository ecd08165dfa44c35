// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/chat"
	"github.com/jeranaias/chatstudio/internal/config"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// linerInput provides line editing and persistent history on a terminal.
type linerInput struct {
	line        *liner.State
	historyFile string
}

func newLinerInput(historyFile string) *linerInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	in := &linerInput{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return in
}

// ReadLine implements lineReader.
func (l *linerInput) ReadLine(prompt string) (string, error) {
	input, err := l.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		l.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with 0600 permissions and restores the terminal.
func (l *linerInput) Close() error {
	if l.historyFile != "" {
		if f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			l.line.WriteHistory(f)
			f.Close()
		}
	}
	return l.line.Close()
}

// scannerInput reads lines from a non-terminal reader. Prompts are not
// echoed.
type scannerInput struct {
	sc *bufio.Scanner
}

func newScannerInput(r io.Reader) *scannerInput {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &scannerInput{sc: sc}
}

// ReadLine implements lineReader.
func (s *scannerInput) ReadLine(string) (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

// Close implements lineReader.
func (s *scannerInput) Close() error { return nil }

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat in the active session",
		Long: `Start an interactive chat. Each line is sent to the selected provider and
recorded in the active session; the first message of a new chat creates a
session titled after it.

Interactive commands:
  /new               Start a new chat
  /sessions          List saved sessions
  /switch <id>       Make a session active (ID or unique prefix)
  /provider [name]   Show or select the provider (local, cloud)
  /export [format]   Export all history (json, yaml, md)
  /delete            Delete the active session
  /help              Show this help
  /quit              Exit (also Ctrl+D)

Ctrl+C while waiting for a reply cancels the request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), app)
		},
	}
}

// runChat runs the REPL until /quit or end of input.
func runChat(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var input lineReader
	if f, ok := app.In.(*os.File); ok && f == os.Stdin && app.Interactive() {
		historyFile, err := config.HistoryFile()
		if err != nil {
			historyFile = ""
		}
		input = newLinerInput(historyFile)
	} else {
		input = newScannerInput(app.In)
	}
	app.input = input
	defer func() {
		app.input = nil
		input.Close()
	}()

	ctrl := app.NewController(app.toastNotifier(), app.loadingIndicator())
	defer ctrl.Close()

	printWelcome(app)

	for {
		line, err := input.ReadLine(RenderConditional(PromptStyle, "chat> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(app.Out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleSlashCommand(app, line)
			if err != nil {
				fmt.Fprintf(app.Err, "%s %v\n", RenderConditional(ErrorStyle, "[Error]"), err)
			}
			if quit {
				return nil
			}
			continue
		}

		if _, err := sendAndPrint(ctx, app, ctrl, line); err != nil {
			fmt.Fprintf(app.Err, "%s %v\n", RenderConditional(ErrorStyle, "[Error]"), err)
		}
	}
}

// sendAndPrint sends text through ctrl and prints the reply or diagnostic.
// An interrupt while waiting cancels the request.
func sendAndPrint(ctx context.Context, app *App, ctrl *chat.Controller, text string) (*chat.Result, error) {
	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	result, err := ctrl.Send(sendCtx, text)
	if err != nil {
		return nil, err
	}
	if result.Outcome == chat.OutcomeIgnored {
		return result, nil
	}
	fmt.Fprintln(app.Out)
	printMessage(app.Out, result.Reply)
	return result, nil
}

// loadingIndicator shows a waiting hint on interactive terminals.
func (a *App) loadingIndicator() func(bool) {
	if !a.Interactive() {
		return nil
	}
	return func(loading bool) {
		if loading {
			fmt.Fprint(a.Err, DimStyle.Render("Thinking... (Ctrl+C to cancel)"))
		} else {
			fmt.Fprint(a.Err, "\r\033[K")
		}
	}
}

func printWelcome(app *App) {
	if !app.Interactive() {
		return
	}
	p := app.Repo.Selection().Provider()
	fmt.Fprintln(app.Out, RenderConditional(TitleStyle, "chatstudio"))
	if s, ok := app.Repo.GetActive(); ok {
		fmt.Fprintf(app.Out, "Continuing %q with %s. ", s.Title, p.DisplayName())
	} else {
		fmt.Fprintf(app.Out, "New chat with %s. ", p.DisplayName())
	}
	fmt.Fprintln(app.Out, DimStyle.Render("Type /help for commands."))
	fmt.Fprintln(app.Out)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs one REPL command and reports whether the REPL
// should exit.
func handleSlashCommand(app *App, line string) (bool, error) {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h", "/?":
		printChatHelp(app)

	case "/new", "/n":
		app.Repo.NewChat()
		fmt.Fprintln(app.Out, "Started a new chat. Your next message creates a session.")

	case "/sessions", "/ls":
		printSessionTable(app, app.Repo.List())

	case "/switch", "/s":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /switch <session-id>")
		}
		return false, switchSession(app, args[0])

	case "/provider", "/p":
		if len(args) == 0 {
			printProvider(app)
			return false, nil
		}
		return false, selectProvider(app, args[0])

	case "/export":
		format := "json"
		if len(args) > 0 {
			format = args[0]
		}
		return false, exportHistory(app, format, ".")

	case "/delete", "/d":
		id := app.Repo.Selection().CurrentSessionID()
		if len(args) > 0 {
			id = args[0]
		}
		if id == "" {
			return false, fmt.Errorf("no active session to delete")
		}
		return false, deleteSession(app, id, false)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

func printChatHelp(app *App) {
	cmds := [][2]string{
		{"/new", "Start a new chat"},
		{"/sessions", "List saved sessions"},
		{"/switch <id>", "Make a session active"},
		{"/provider [p]", "Show or select provider (local, cloud)"},
		{"/export [fmt]", "Export all history (json, yaml, md)"},
		{"/delete [id]", "Delete the active (or given) session"},
		{"/help", "Show this help"},
		{"/quit", "Exit"},
	}
	fmt.Fprintln(app.Out, RenderConditional(TitleStyle, "Commands"))
	for _, c := range cmds {
		fmt.Fprintf(app.Out, "  %-16s %s\n", c[0], c[1])
	}
}

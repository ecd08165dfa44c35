// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/session"
	"github.com/jeranaias/chatstudio/internal/storage"
	"github.com/jeranaias/chatstudio/internal/util"
)

// shortIDLen is how much of a session ID list views show. Any unique
// prefix is accepted back.
const shortIDLen = 8

func newSessionsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "List, inspect and manage saved sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSessionTable(app, app.Repo.List())
			return nil
		},
	}

	var (
		yes      bool
		jsonMode bool
	)

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSessions(app, "sessions list", app.Repo.List(), jsonMode)
		},
	}
	list.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a session's transcript (default: the active session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s   model.Session
				err error
			)
			if len(args) == 1 {
				s, err = app.Repo.Resolve(args[0])
			} else {
				var ok bool
				if s, ok = app.Repo.GetActive(); !ok {
					err = errors.New("no active session; pass a session ID")
				}
			}
			if err != nil {
				return err
			}
			if jsonMode {
				return NewJSONResponse("sessions show", s, app.now()).Write(app.Out)
			}
			printTranscript(app, s)
			return nil
		},
	}
	show.Flags().BoolVar(&jsonMode, "json", false, "output the stored session as JSON")

	switchCmd := &cobra.Command{
		Use:   "switch [id]",
		Short: "Make a session active; without an ID, pick one interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return switchSession(app, args[0])
			}
			if !app.Interactive() {
				return &TTYRequiredError{Operation: "pick a session", Hint: "pass a session ID"}
			}
			s, err := pickSession(app.Repo.List())
			if err != nil {
				return err
			}
			if s == nil {
				app.showCancellationMessage()
				return nil
			}
			return switchSession(app, s.ID)
		},
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new chat; the next message creates a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Repo.NewChat()
			fmt.Fprintln(app.Out, "Started a new chat. Your next message creates a session.")
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteSession(app, args[0], yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	deleteAll := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteAllSessions(app, yes)
		},
	}
	deleteAll.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Find sessions whose title or messages contain the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			matches := app.Repo.Search(query)
			if len(matches) == 0 && !jsonMode {
				fmt.Fprintf(app.Out, "No sessions match %q.\n", query)
				return nil
			}
			return listSessions(app, "sessions search", matches, jsonMode)
		},
	}
	search.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the session list whenever another process changes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchSessions(cmd.Context(), app)
		},
	}

	cmd.AddCommand(list, show, switchCmd, newCmd, deleteCmd, deleteAll, search, watch)
	return cmd
}

// =============================================================================
// OPERATIONS
// =============================================================================

func switchSession(app *App, idOrPrefix string) error {
	s, err := app.Repo.Resolve(idOrPrefix)
	if err != nil {
		return err
	}
	if err := app.Repo.SetActive(s.ID); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Switched to %s %s\n",
		RenderConditional(HighlightStyle, strconv.Quote(s.Title)),
		DimStyle.Render("("+shortID(s.ID)+")"))
	return nil
}

func deleteSession(app *App, idOrPrefix string, yes bool) error {
	s, err := app.Repo.Resolve(idOrPrefix)
	if err != nil {
		return err
	}

	confirmed, err := app.requireConfirmation(yes, "delete this session", [][2]string{
		{"Title", s.Title},
		{"ID", s.ID},
		{"Messages", strconv.Itoa(len(s.Messages))},
	})
	if err != nil {
		return err
	}
	if !confirmed {
		app.showCancellationMessage()
		return nil
	}

	if !app.Repo.Remove(s.ID) {
		return session.ErrSessionNotFound
	}
	fmt.Fprintf(app.Out, "Deleted %q.\n", s.Title)
	return nil
}

func deleteAllSessions(app *App, yes bool) error {
	n := app.Repo.Len()
	if n == 0 {
		fmt.Fprintln(app.Out, "No saved sessions.")
		return nil
	}

	confirmed, err := app.requireConfirmation(yes, "permanently delete all conversation history", [][2]string{
		{"Sessions", strconv.Itoa(n)},
	})
	if err != nil {
		return err
	}
	if !confirmed {
		app.showCancellationMessage()
		return nil
	}

	app.Repo.RemoveAll()
	fmt.Fprintf(app.Out, "Deleted %d session(s).\n", n)
	return nil
}

// watchSessions prints the list, then reprints it after every change to
// the session collection until ctx ends. Only the file backend can be
// watched.
func watchSessions(ctx context.Context, app *App) error {
	fb, ok := app.Store.Backend().(*storage.FileBackend)
	if !ok {
		return fmt.Errorf("watch needs the file storage backend (current: %s)", app.Store.Backend().Name())
	}
	if ctx == nil {
		ctx = context.Background()
	}

	printSessionTable(app, app.Repo.List())
	fmt.Fprintln(app.Out, DimStyle.Render("Watching "+fb.Dir()+" (Ctrl+C to stop)"))

	return fb.Watch(ctx, storage.DefaultWatchDebounce, func(key string) {
		if key != session.KeySessions && key != session.KeyCurrentSession {
			return
		}
		app.Repo.Reload()
		app.Repo.Selection().Reload()
		fmt.Fprintln(app.Out)
		printSessionTable(app, app.Repo.List())
	})
}

// =============================================================================
// OUTPUT
// =============================================================================

func listSessions(app *App, command string, sessions []model.Session, jsonMode bool) error {
	if jsonMode {
		activeID := app.Repo.Selection().CurrentSessionID()
		return NewJSONResponse(command, summarizeSessions(sessions, activeID, app.now()), app.now()).Write(app.Out)
	}
	printSessionTable(app, sessions)
	return nil
}

func relativeTime(s model.Session, now time.Time) string {
	return util.RelativeTime(s.LastUpdatedTime(), now)
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// printSessionTable prints sessions as a width-aware table. The active
// session is marked with '*'.
func printSessionTable(app *App, sessions []model.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(app.Out, "No saved sessions found.")
		fmt.Fprintln(app.Out, DimStyle.Render("Start one with: chatstudio chat"))
		return
	}

	activeID := app.Repo.Selection().CurrentSessionID()
	now := app.now()

	titleWidth := GetTerminalWidth() - 2 - shortIDLen - 1 - 8 - 1 - 5 - 1 - 22
	if titleWidth < 16 {
		titleWidth = 16
	}
	if titleWidth > 48 {
		titleWidth = 48
	}

	header := fmt.Sprintf("  %s %s %s %5s %s",
		util.FitWidth("ID", shortIDLen), util.FitWidth("Title", titleWidth),
		util.FitWidth("Provider", 8), "Msgs", "Updated")
	fmt.Fprintln(app.Out, RenderConditional(TitleStyle, header))

	for _, s := range sessions {
		marker := "  "
		if s.ID == activeID {
			marker = "* "
		}
		row := fmt.Sprintf("%s%s %s %s %5d %s",
			marker,
			util.FitWidth(shortID(s.ID), shortIDLen),
			util.FitWidth(s.Title, titleWidth),
			util.FitWidth(string(s.Provider()), 8),
			len(s.Messages),
			relativeTime(s, now))
		if s.ID == activeID {
			row = RenderConditional(HighlightStyle, row)
		}
		fmt.Fprintln(app.Out, row)
	}
	fmt.Fprintln(app.Out)
	fmt.Fprintf(app.Out, "Total: %d session(s)\n", len(sessions))
}

// printTranscript prints a session header followed by every message.
func printTranscript(app *App, s model.Session) {
	fmt.Fprintln(app.Out, RenderConditional(TitleStyle, s.Title))
	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("ID:"), s.ID)
	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Provider:"), s.Provider().DisplayName())
	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Updated:"), util.RelativeTime(s.LastUpdatedTime(), app.now()))
	fmt.Fprintln(app.Out, RenderSeparator())
	fmt.Fprintln(app.Out)
	for _, m := range s.Messages {
		printMessage(app.Out, m)
	}
}

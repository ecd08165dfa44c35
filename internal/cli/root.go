// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand builds the chatstudio command tree over app. Without a
// subcommand it starts the interactive chat.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "chatstudio",
		Short: "Multi-session chat client for local and cloud LLM servers",
		Long: `chatstudio keeps a local history of chat sessions and sends each turn to
either a local OpenAI-compatible inference server or a hosted provider.

Quick Start:
  chatstudio                       # interactive chat in the active session
  chatstudio ask "hello"           # one question, reply on stdout
  chatstudio sessions list         # saved sessions, newest first
  chatstudio provider cloud        # switch to the hosted provider
  chatstudio export --format md    # write the whole history to a file`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), app)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default ~/.chatstudio/config.toml)")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVarP(&app.provider, "provider", "p", "", "provider for this run only (local or cloud); use 'chatstudio provider' to save a choice")

	root.AddCommand(
		newChatCommand(app),
		newAskCommand(app),
		newSessionsCommand(app),
		newProviderCommand(app),
		newExportCommand(app),
		newConfigCommand(app),
		newDoctorCommand(app),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app := NewApp()
	defer app.Close()

	if err := NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", RenderConditional(ErrorStyle, "Error:"), err)
		return 1
	}
	return 0
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chatstudio %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", BuildDate)
		},
	}
}

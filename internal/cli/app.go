// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jeranaias/chatstudio/internal/chat"
	"github.com/jeranaias/chatstudio/internal/config"
	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/session"
	"github.com/jeranaias/chatstudio/internal/storage"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App holds everything a command needs. Fields left nil are filled from
// the configuration when the first command runs; tests set them directly.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Store  *storage.Store
	Repo   *session.Repository

	// Completer overrides the HTTP dispatcher (tests).
	Completer chat.Completer

	// Clock overrides time.Now.
	Clock func() time.Time

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Interactive reports whether prompts can be shown. Default: stdin and
	// stdout are terminals.
	Interactive func() bool

	// input is the REPL's line editor while a chat is running.
	input lineReader

	configPath string
	logLevel   string
	provider   string

	cleanup []func() error
}

// NewApp returns an App bound to the process's standard streams.
func NewApp() *App {
	return &App{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// init loads configuration, logging and storage for any field still nil.
func (a *App) init() error {
	if a.In == nil {
		a.In = os.Stdin
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Clock == nil {
		a.Clock = time.Now
	}
	if a.Interactive == nil {
		a.Interactive = func() bool { return IsTTY() && IsStdoutTTY() }
	}

	if a.Config == nil {
		var (
			cfg *config.Config
			err error
		)
		if a.configPath != "" {
			cfg, err = config.LoadFromPath(a.configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.logLevel != "" {
		a.Config.Log.Level = a.logLevel
	}

	if a.Logger == nil {
		level, err := config.ParseLogLevel(a.Config.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger, closeLog := config.SetupLogger(level, a.Config.Log.File)
		a.Logger = logger
		a.cleanup = append(a.cleanup, closeLog)
		slog.SetDefault(logger)
	}

	if a.Store == nil {
		dir, err := a.Config.DataDir()
		if err != nil {
			a.Logger.Error("could not resolve data directory", "error", err)
		}
		a.Store = storage.Open(storage.Options{
			Kind:   a.Config.Storage.Backend,
			Dir:    dir,
			Logger: a.Logger,
		})
		a.cleanup = append(a.cleanup, a.Store.Close)
	}

	if a.Repo == nil {
		sel := session.LoadSelection(a.Store, a.Config.Provider())
		a.Repo = session.NewRepository(a.Store, sel)
	}

	if a.provider != "" {
		p, err := model.ParseProvider(a.provider)
		if err != nil {
			return err
		}
		a.Repo.Selection().UseProvider(p)
	}
	return nil
}

// Close releases the log file and storage backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	return errors.Join(errs...)
}

// NewController builds a chat controller over the app's repository.
func (a *App) NewController(notifier chat.Notifier, onLoading func(bool)) *chat.Controller {
	return chat.New(chat.Config{
		Repository:   a.Repo,
		Completer:    a.Completer,
		Settings:     a.Config.ProviderSettings(),
		SystemPrompt: a.Config.SystemPrompt,
		Notifier:     notifier,
		OnLoading:    onLoading,
		Clock:        a.Clock,
		Logger:       a.Logger,
	})
}

// toastNotifier prints failure notifications as a one-line banner on the
// error stream.
func (a *App) toastNotifier() chat.Notifier {
	return chat.NotifierFunc(func(n chat.Notification) {
		fmt.Fprintf(a.Err, "%s %s\n",
			RenderConditional(ErrorStyle, "["+n.Title+"]"),
			DimStyle.Render("details recorded in the conversation"))
	})
}

func (a *App) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock()
}

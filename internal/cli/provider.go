// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/model"
)

func newProviderCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "provider [local|cloud]",
		Short: "Show or select the provider new messages are sent to",
		Long: `Without an argument, show the selected provider and both providers'
settings. With one, select it; the choice is remembered across runs.

The names "lmstudio" (local) and "nvidia" (cloud) are also accepted.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"local", "cloud"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printProvider(app)
				return nil
			}
			return selectProvider(app, args[0])
		},
	}
}

func selectProvider(app *App, name string) error {
	p, err := model.ParseProvider(name)
	if err != nil {
		return err
	}
	app.Repo.Selection().SetProvider(p)
	fmt.Fprintf(app.Out, "Provider set to %s.\n", RenderConditional(HighlightStyle, p.DisplayName()))
	return nil
}

func printProvider(app *App) {
	selected := app.Repo.Selection().Provider()
	cfg := app.Config.Redacted()

	for _, p := range model.Providers {
		marker := "  "
		name := p.DisplayName() + " (" + string(p) + ")"
		if p == selected {
			marker = "* "
			name = RenderConditional(HighlightStyle, name)
		}
		fmt.Fprintf(app.Out, "%s%s\n", marker, name)

		switch p {
		case model.ProviderLocal:
			fmt.Fprintf(app.Out, "    %s%s\n", RenderLabel("Endpoint:"), cfg.Local.Endpoint)
			fmt.Fprintf(app.Out, "    %s%s\n", RenderLabel("Model:"), cfg.Local.Model)
		case model.ProviderCloud:
			key := cfg.Cloud.APIKey
			if key == "" {
				key = RenderConditional(WarningStyle, "not set (CHATSTUDIO_CLOUD_API_KEY)")
			}
			fmt.Fprintf(app.Out, "    %s%s\n", RenderLabel("Base URL:"), cfg.Cloud.BaseURL)
			fmt.Fprintf(app.Out, "    %s%s\n", RenderLabel("Model:"), cfg.Cloud.Model)
			fmt.Fprintf(app.Out, "    %s%s\n", RenderLabel("API key:"), key)
		}
	}
}

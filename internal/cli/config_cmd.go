// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(app.Out).Encode(app.Config.Redacted())
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := app.resolvedConfigPath()
			if err != nil {
				return err
			}
			dataDir, err := app.Config.DataDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Config:"), cfgPath)
			fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Data:"), dataDir)
			fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Storage:"), app.Store.Backend().Name())
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := app.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
			}
			if err := config.SaveTOML(config.Default(), cfgPath); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s %s\n", RenderConditional(SuccessStyle, "Wrote"), cfgPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

func (a *App) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPath()
}

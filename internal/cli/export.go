// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/export"
)

func newExportCommand(app *App) *cobra.Command {
	var (
		format string
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every session to one file",
		Long: `Export the whole history to chat_studio_history.<ext> in the target
directory. Each session becomes {id, title, apiProvider, conversations}, with
user turns labelled "human" and replies "assistant".`,
		Example: `  chatstudio export
  chatstudio export --format md --dir ~/Documents
  chatstudio export --format yaml --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				return writeHistory(app, format)
			}
			return exportHistory(app, format, dir)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the file to")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write to standard output instead of a file")
	return cmd
}

// exportHistory writes the history file. An empty history is reported, not
// treated as an error.
func exportHistory(app *App, format, dir string) error {
	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(app.Repo.All(), exporter, &export.Options{OutputDir: dir})
	if errors.Is(err, export.ErrNothingToExport) {
		fmt.Fprintln(app.Out, RenderConditional(WarningStyle, "No chat history to export."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "%s %d session(s) to %s\n",
		RenderConditional(SuccessStyle, "Exported"), app.Repo.Len(), path)
	return nil
}

func writeHistory(app *App, format string) error {
	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	data, err := exporter.Export(export.ExportAll(app.Repo.All()))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	_, err = app.Out.Write(data)
	return err
}

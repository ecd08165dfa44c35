// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/util"
)

// BaseFilename is the export file name without extension.
const BaseFilename = "chat_studio_history"

// DefaultFilename is the name of a JSON export.
const DefaultFilename = BaseFilename + ".json"

// ErrNothingToExport is returned by ExportToFile when there are no
// sessions. No file is written.
var ErrNothingToExport = errors.New("no chat history to export")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for history exporters.
type Exporter interface {
	// Export renders the document in the target format.
	Export(doc Document) ([]byte, error)

	// FileExtension returns the file extension, e.g. ".json".
	FileExtension() string

	// MimeType returns the MIME type of the format.
	MimeType() string
}

// Formats lists the names ForFormat accepts.
var Formats = []string{"json", "yaml", "md"}

// ForFormat returns the exporter for a format name.
func ForFormat(name string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return NewJSONExporter(), nil
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	case "md", "markdown":
		return NewMarkdownExporter(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures ExportToFile.
type Options struct {
	// OutputDir is the directory where the file is saved.
	// Default: current working directory
	OutputDir string

	// Filename overrides BaseFilename plus the exporter's extension.
	Filename string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{OutputDir: "."}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes every session to a single file and returns its path.
// With zero sessions nothing is written and ErrNothingToExport is returned.
func ExportToFile(sessions []model.Session, exporter Exporter, opts *Options) (string, error) {
	if len(sessions) == 0 {
		return "", ErrNothingToExport
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if exporter == nil {
		exporter = NewJSONExporter()
	}

	content, err := exporter.Export(ExportAll(sessions))
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	name := opts.Filename
	if name == "" {
		name = BaseFilename + exporter.FileExtension()
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}

	outputPath := filepath.Join(dir, name)
	if err := util.AtomicWriteFileWithDir(outputPath, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

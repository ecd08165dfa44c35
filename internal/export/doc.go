// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts the session collection into a portable document
// and writes it to disk.
//
// The JSON form is an array with one entry per session:
//
//	[{"id": "...", "title": "...", "apiProvider": "local",
//	  "conversations": [{"role": "human", "content": "..."},
//	                    {"role": "assistant", "content": "..."}]}]
//
// YAML and Markdown renderings of the same document are also available.
// Exporting an empty collection writes nothing.
//
// # Usage
//
//	path, err := export.ExportToFile(repo.List(), export.NewJSONExporter(), nil)
//	if errors.Is(err, export.ErrNothingToExport) {
//	    // nothing written
//	}
package export

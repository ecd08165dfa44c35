// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Options selects and configures the backend Open creates.
type Options struct {
	// Kind is one of KindFile, KindSQLite or KindMemory. Empty means file.
	Kind string

	// Dir is the data directory for the file and sqlite backends.
	Dir string

	Logger *slog.Logger
}

// Open builds a Store for opts. If the requested backend cannot be opened
// the failure is logged and an in-memory Store is returned instead, so the
// application keeps working for the current run.
func Open(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := openBackend(opts)
	if err != nil {
		logger.Error("persistent storage unavailable, history will not be saved",
			"backend", opts.Kind, "dir", opts.Dir, "error", err)
		backend = NewMemoryBackend()
	}
	logger.Debug("storage opened", "backend", backend.Name(), "dir", opts.Dir)
	return New(backend, logger)
}

func openBackend(opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindFile:
		return NewFileBackend(opts.Dir)
	case KindSQLite:
		if opts.Dir == "" {
			return nil, fmt.Errorf("storage directory is empty")
		}
		return NewSQLiteBackend(filepath.Join(opts.Dir, DatabaseFile))
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/chatstudio/internal/util"
)

// FileExt is the extension of every value file written by FileBackend.
const FileExt = ".json"

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string

	// mu serializes writers so two saves of one key cannot interleave
	// their renames.
	mu sync.Mutex
}

// NewFileBackend creates dir (0700) if needed and returns a backend rooted
// there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the directory holding the value files.
func (f *FileBackend) Dir() string { return f.dir }

// Path returns the file that holds key.
func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.dir, key+FileExt)
}

// Load implements Backend.
func (f *FileBackend) Load(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save implements Backend.
func (f *FileBackend) Save(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// RELIABILITY: atomic write with fsync prevents a torn collection on crash
	return util.AtomicWriteFile(f.Path(key), value, 0600)
}

// Delete implements Backend.
func (f *FileBackend) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.Path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Backend.
func (f *FileBackend) Close() error { return nil }

// Name implements Backend.
func (f *FileBackend) Name() string { return "file" }

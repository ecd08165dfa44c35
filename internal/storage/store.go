// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned by a Backend when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey is returned for keys that are not safe file names.
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrClosed is returned by a Backend after Close.
	ErrClosed = errors.New("storage closed")
)

// keyPattern restricts keys to names that are safe as a file name on every
// platform.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateKey reports whether key may be used with any Backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is a durable string-keyed byte store. Implementations must be safe
// for concurrent use.
type Backend interface {
	// Load returns the bytes last saved under key, or ErrNotFound.
	Load(key string) ([]byte, error)

	// Save replaces the value under key. A nil error means the value is
	// durable.
	Save(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases resources held by the backend.
	Close() error

	// Name identifies the backend in logs and status output.
	Name() string
}

// =============================================================================
// STORE
// =============================================================================

// Store is the typed persistence facade used by the rest of the
// application. Values are stored as JSON.
//
// Reads never fail outward: a missing key, malformed content, or an
// unavailable backend all yield the caller's default. Writes never fail
// outward either; failures are logged and the in-memory state of the caller
// stays authoritative for the rest of the run.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil logger means slog.Default().
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger.With("component", "storage")}
}

// NewMemory returns a Store backed by process memory only.
func NewMemory() *Store {
	return New(NewMemoryBackend(), nil)
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	if s == nil {
		return nil
	}
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// Delete removes key, logging any failure.
func (s *Store) Delete(key string) {
	if s == nil || s.backend == nil {
		return
	}
	if err := s.backend.Delete(key); err != nil {
		s.logger.Error("storage delete failed", "key", key, "backend", s.backend.Name(), "error", err)
	}
}

// Get returns the value stored under key decoded as T, or def when the key
// is missing, the content cannot be decoded as T, or storage is
// unavailable.
func Get[T any](s *Store, key string, def T) T {
	if s == nil || s.backend == nil {
		return def
	}
	data, err := s.backend.Load(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("storage read failed", "key", key, "backend", s.backend.Name(), "error", err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding malformed stored value", "key", key, "error", err)
		return def
	}
	return v
}

// Lookup is Get without the default: ok is true only when key is present
// and its content decodes as T.
func Lookup[T any](s *Store, key string) (v T, ok bool) {
	if s == nil || s.backend == nil {
		return v, false
	}
	data, err := s.backend.Load(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("storage read failed", "key", key, "backend", s.backend.Name(), "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding malformed stored value", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return v, true
}

// Set encodes value as JSON and stores it under key. Fields JSON cannot
// represent are dropped by the encoding.
func Set[T any](s *Store, key string, value T) {
	if s == nil || s.backend == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("storage encode failed", "key", key, "error", err)
		return
	}
	if err := s.backend.Save(key, data); err != nil {
		s.logger.Error("storage write failed", "key", key, "backend", s.backend.Name(), "error", err)
	}
}

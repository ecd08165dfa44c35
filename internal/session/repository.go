// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/storage"
)

// ErrSessionNotFound is returned when an ID names no stored session.
var ErrSessionNotFound = errors.New("session not found")

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository owns the session collection. Queries read an in-memory copy;
// every mutation re-reads the stored collection, applies the change and
// writes the whole collection back, so changes made by another process
// sharing the store are kept. If the store cannot be read (or a write
// fails) the in-memory collection stays authoritative for the rest of the
// run.
//
// The canonical order is insertion order; List presents most recently
// updated first.
type Repository struct {
	mu       sync.Mutex
	store    *storage.Store
	sel      *Selection
	sessions []model.Session
}

// NewRepository loads the collection from store.
func NewRepository(store *storage.Store, sel *Selection) *Repository {
	r := &Repository{store: store, sel: sel}
	r.sessions = r.load()
	return r
}

// Selection returns the selection the repository keeps consistent with
// deletes.
func (r *Repository) Selection() *Selection {
	return r.sel
}

// Reload replaces the in-memory collection with what the store holds, for
// when another process changed it.
func (r *Repository) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = r.load()
}

func (r *Repository) load() []model.Session {
	sessions := storage.Get(r.store, KeySessions, []model.Session{})
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions
}

// refresh replaces the in-memory collection with the stored one when the
// store holds a readable collection. Callers hold r.mu.
func (r *Repository) refresh() {
	if sessions, ok := storage.Lookup[[]model.Session](r.store, KeySessions); ok && sessions != nil {
		r.sessions = sessions
	}
}

// persist writes the full collection. Callers hold r.mu.
func (r *Repository) persist() {
	storage.Set(r.store, KeySessions, r.sessions)
}

// =============================================================================
// QUERIES
// =============================================================================

// List returns a copy of every session, most recently updated first. Ties
// keep insertion order.
func (r *Repository) List() []model.Session {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated > out[j].LastUpdated
	})
	return out
}

// All returns a copy of every session in insertion order.
func (r *Repository) All() []model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Session, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of stored sessions.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Get returns a copy of the session with id.
func (r *Repository) Get(id string) (model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.sessions[i].Clone(), true
	}
	return model.Session{}, false
}

// GetActive returns the session the selection points at. A pointer naming a
// deleted session yields false, not an error.
func (r *Repository) GetActive() (model.Session, bool) {
	id := r.sel.CurrentSessionID()
	if id == "" {
		return model.Session{}, false
	}
	return r.Get(id)
}

// Search returns sessions whose title or messages contain query, most
// recently updated first.
func (r *Repository) Search(query string) []model.Session {
	var out []model.Session
	for _, s := range r.List() {
		if s.Matches(query) {
			out = append(out, s)
		}
	}
	return out
}

// Resolve finds a session by exact ID or, failing that, by a unique ID
// prefix.
func (r *Repository) Resolve(idOrPrefix string) (model.Session, error) {
	if s, ok := r.Get(idOrPrefix); ok {
		return s, nil
	}
	if idOrPrefix == "" {
		return model.Session{}, ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	match := -1
	for i, s := range r.sessions {
		if len(s.ID) >= len(idOrPrefix) && s.ID[:len(idOrPrefix)] == idOrPrefix {
			if match >= 0 {
				return model.Session{}, errors.New("session prefix is ambiguous: " + idOrPrefix)
			}
			match = i
		}
	}
	if match < 0 {
		return model.Session{}, ErrSessionNotFound
	}
	return r.sessions[match].Clone(), nil
}

// indexOf returns the position of id, or -1. Callers hold r.mu.
func (r *Repository) indexOf(id string) int {
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Upsert replaces the session with the same ID in place, or appends it.
func (r *Repository) Upsert(s model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh()
	s = s.Clone()
	if i := r.indexOf(s.ID); i >= 0 {
		r.sessions[i] = s
	} else {
		r.sessions = append(r.sessions, s)
	}
	r.persist()
}

// Remove deletes the session with id and reports whether it existed. If it
// was the active session the active pointer is cleared.
func (r *Repository) Remove(id string) bool {
	r.mu.Lock()
	r.refresh()
	i := r.indexOf(id)
	if i >= 0 {
		r.sessions = append(r.sessions[:i:i], r.sessions[i+1:]...)
		r.persist()
	}
	r.mu.Unlock()

	if r.sel.CurrentSessionID() == id {
		r.sel.ClearCurrentSession()
	}
	return i >= 0
}

// RemoveAll empties the collection and clears the active pointer.
func (r *Repository) RemoveAll() {
	r.mu.Lock()
	r.sessions = []model.Session{}
	r.persist()
	r.mu.Unlock()

	r.sel.ClearCurrentSession()
}

// SetActive makes the session with id active.
func (r *Repository) SetActive(id string) error {
	if _, ok := r.Get(id); !ok {
		return ErrSessionNotFound
	}
	r.sel.SetCurrentSessionID(id)
	return nil
}

// NewChat clears the active pointer so the next send starts a new session.
func (r *Repository) NewChat() {
	r.sel.ClearCurrentSession()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/storage"
)

// Persisted keys. The names match the history files written by earlier
// releases so existing data keeps loading.
const (
	KeySessions         = "chatSessions"
	KeyCurrentSession   = "currentChatSessionId"
	KeySelectedProvider = "selectedApiProvider"
)

// =============================================================================
// SELECTION
// =============================================================================

// Selection holds the application-wide choices that outlive a single
// session: which session is active and which provider new sends go to.
// Both are loaded once at construction and saved on every change.
type Selection struct {
	mu        sync.RWMutex
	store     *storage.Store
	currentID string
	provider  model.Provider
}

// LoadSelection restores the selection from store. A missing or
// unrecognized provider falls back to def.
func LoadSelection(store *storage.Store, def model.Provider) *Selection {
	if !def.Valid() {
		def = model.ProviderLocal
	}
	provider := def
	if stored := storage.Get(store, KeySelectedProvider, ""); stored != "" {
		if p, err := model.ParseProvider(stored); err == nil {
			provider = p
		}
	}
	return &Selection{
		store:     store,
		currentID: storage.Get(store, KeyCurrentSession, ""),
		provider:  provider,
	}
}

// CurrentSessionID returns the active session pointer, or "" when none.
// The pointer may name a session that no longer exists.
func (s *Selection) CurrentSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// SetCurrentSessionID points the selection at id and persists it.
func (s *Selection) SetCurrentSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == id {
		return
	}
	s.currentID = id
	if id == "" {
		s.store.Delete(KeyCurrentSession)
		return
	}
	storage.Set(s.store, KeyCurrentSession, id)
}

// ClearCurrentSession removes the active session pointer.
func (s *Selection) ClearCurrentSession() {
	s.SetCurrentSessionID("")
}

// Provider returns the provider new sends are dispatched to.
func (s *Selection) Provider() model.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// SetProvider changes and persists the selected provider. Unknown values
// are ignored.
func (s *Selection) SetProvider(p model.Provider) {
	if !p.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	storage.Set(s.store, KeySelectedProvider, string(p))
}

// UseProvider changes the selected provider for this process only; the
// stored choice is left alone. Unknown values are ignored.
func (s *Selection) UseProvider(p model.Provider) {
	if !p.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// Reload re-reads the active session pointer, picking up changes made by
// another process. The provider is kept.
func (s *Selection) Reload() {
	id := storage.Get(s.store, KeyCurrentSession, "")
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the typed key-value persistence used for chat
// history and selection state.
//
// # Key Types
//
//   - Store: typed JSON facade with the generic Get and Set functions
//   - Backend: durable byte store (FileBackend, SQLiteBackend, MemoryBackend)
//
// # Usage
//
//	store := storage.Open(storage.Options{Kind: "file", Dir: dataDir})
//	sessions := storage.Get(store, "chatSessions", []model.Session{})
//	storage.Set(store, "chatSessions", sessions)
//
// Get never returns an error: a missing key, malformed content or an
// unavailable backend all yield the default. Set logs failures instead of
// returning them.
//
// # Storage Location
//
// The file backend writes ~/.chatstudio/data/<key>.json; the sqlite backend
// writes ~/.chatstudio/data/chatstudio.db.
package storage

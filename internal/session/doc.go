// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the persisted chat session collection and the
// selection state (active session, selected provider).
//
// # Key Types
//
//   - Repository: list, get, upsert and delete sessions with write-through
//     persistence
//   - Selection: active session pointer and provider choice
//
// # Usage
//
//	sel := session.LoadSelection(store, model.ProviderLocal)
//	repo := session.NewRepository(store, sel)
//	for _, s := range repo.List() {
//	    fmt.Println(s.Title)
//	}
package session

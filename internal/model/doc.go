// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// # Key Types
//
//   - Session: a named conversation with its ordered messages
//   - Message: a single turn with role, content and epoch-millisecond timestamp
//   - Role: user, assistant or system
//   - Provider: which backend (local or cloud) a request is sent to
//
// # Usage
//
//	s := model.NewSession("Hello!", model.ProviderLocal, time.Now().UnixMilli())
//	s.Append(model.NewMessage(model.RoleUser, "Hello!", time.Now().UnixMilli()))
package model

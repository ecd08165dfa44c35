// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the storage, session and
// CLI layers.
//
// # Key Functions
//
// String Utilities:
//   - Ellipsize: rune-safe prefix with a trailing "..." (session titles)
//   - TruncateRunes: rune-safe truncation within a fixed budget
//   - FitWidth: pad or cut to a terminal cell width
//   - RelativeTime: "5 minutes ago" style timestamps
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.Ellipsize(firstMessage, 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatstudio command line.
//
// # Commands
//
//   - chat: interactive REPL over the active session (default command)
//   - ask: one message, reply on stdout
//   - sessions: list, show, switch, new, delete, delete-all, search, watch
//   - provider: show or select the provider
//   - export: write the whole history as JSON, YAML or Markdown
//   - config: show, path, init
//   - doctor: configuration, storage and connectivity checks
//   - version
//
// Color output follows NO_COLOR and FORCE_COLOR; prompts and Markdown
// rendering are only used on a terminal.
package cli

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads chatstudio configuration and sets up logging.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CHATSTUDIO_*, plus LM_STUDIO_API_ENDPOINT and
//     NVIDIA_API_KEY)
//   - ~/.chatstudio/config.toml
//   - Built-in defaults
//
// The result is read once at startup.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	level, _ := config.ParseLogLevel(cfg.Log.Level)
//	logger, cleanup := config.SetupLogger(level, cfg.Log.File)
//	defer cleanup()
package config

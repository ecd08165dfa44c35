// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller.
//
// A send trims the input, appends it to the active session (creating one
// titled from the input when none is active), persists, calls the selected
// provider with the system prompt plus prior user and assistant turns, and
// appends either the reply or a diagnostic message before persisting again.
// Failures never escape as errors; they become part of the transcript and
// raise a Notification.
//
// # Usage
//
//	ctrl := chat.New(chat.Config{Repository: repo, Settings: settings})
//	defer ctrl.Close()
//	res, err := ctrl.Send(ctx, "Hello")
package chat

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider speaks to chat-completion HTTP backends.
//
// Two adapters normalize the request and response shapes of the supported
// backends:
//
//   - LocalAdapter: an unauthenticated server on the user's machine; the
//     configured endpoint is the full chat-completions URL
//   - CloudAdapter: a hosted API at <base>/chat/completions with a bearer key
//
// Client dispatches what an adapter builds and maps every failure to an
// *Error with a Kind (configuration, network, http_status,
// invalid_response, canceled). Diagnose renders an error as transcript text.
//
// # Usage
//
//	adapter, err := provider.New(model.ProviderLocal, settings)
//	reply, err := provider.NewClient().Complete(ctx, adapter, provider.BuildHistory(prompt, history))
//	if err != nil {
//	    fmt.Println(provider.Diagnose(err, adapter))
//	}
package provider

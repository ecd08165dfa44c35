// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Provider selects which chat-completion backend a request goes to.
type Provider string

const (
	// ProviderLocal is an inference server on the user's own machine.
	ProviderLocal Provider = "local"
	// ProviderCloud is a hosted, bearer-authenticated API.
	ProviderCloud Provider = "cloud"
)

// Providers lists every provider in display order.
var Providers = []Provider{ProviderLocal, ProviderCloud}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	return p == ProviderLocal || p == ProviderCloud
}

// DisplayName returns the name shown in prompts and notifications.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderLocal:
		return "Local"
	case ProviderCloud:
		return "Cloud"
	default:
		return string(p)
	}
}

// ParseProvider accepts the canonical names plus the backend-specific
// aliases "lmstudio" and "nvidia".
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "lmstudio", "lm-studio":
		return ProviderLocal, nil
	case "cloud", "nvidia":
		return ProviderCloud, nil
	default:
		return "", fmt.Errorf("unknown provider %q (want local or cloud)", s)
	}
}

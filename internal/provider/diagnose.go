// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/chatstudio/internal/model"
)

// Diagnose turns a failed completion into the text recorded in the
// transcript. Network failures get provider-specific troubleshooting steps;
// everything else is "Error: <message>". adapter may be nil when no adapter
// could be built.
func Diagnose(err error, adapter Adapter) string {
	if err == nil {
		return ""
	}

	var pe *Error
	if !errors.As(err, &pe) {
		if msg := err.Error(); msg != "" {
			return "Error: " + msg
		}
		return unexpected(adapter)
	}

	switch pe.Kind {
	case KindNetwork:
		return networkDiagnosis(pe, adapter)
	case KindCanceled:
		return "Error: the request was canceled before a response arrived."
	default:
		if pe.Error() == "" {
			return unexpected(adapter)
		}
		return "Error: " + pe.Error()
	}
}

func unexpected(adapter Adapter) string {
	if adapter == nil {
		return "An unexpected error occurred while contacting the AI."
	}
	return fmt.Sprintf("An unexpected error occurred while contacting the AI (%s).", adapter.Provider())
}

func networkDiagnosis(pe *Error, adapter Adapter) string {
	p := pe.Provider
	target := pe.URL
	modelID := ""
	if adapter != nil {
		p = adapter.Provider()
		modelID = adapter.Model()
		if target == "" {
			target = adapter.Endpoint()
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Network error: could not reach the %s API", p)
	if target != "" {
		fmt.Fprintf(&b, " at %s", target)
	}
	b.WriteString(".\n")
	if pe.Cause != nil {
		fmt.Fprintf(&b, "\n%s\n", pe.Cause)
	}
	fmt.Fprintf(&b, "\nTroubleshooting for the %s provider:\n", p)

	switch p {
	case model.ProviderLocal:
		b.WriteString("1. Make sure the local inference server is running and its API server is started.\n")
		fmt.Fprintf(&b, "2. Make sure the model '%s' is loaded and ready.\n", modelID)
		b.WriteString("3. Check that local.endpoint (or CHATSTUDIO_LOCAL_ENDPOINT) is the full URL ending in /v1/chat/completions.\n")
		b.WriteString("4. If the server is reached through a tunnel, check that the tunnel is up and its URL is current.\n")
		b.WriteString("5. Check for a firewall blocking the connection.\n")
	case model.ProviderCloud:
		fmt.Fprintf(&b, "1. Check that cloud.api_key (or CHATSTUDIO_CLOUD_API_KEY) is correct and valid for model '%s'.\n", modelID)
		b.WriteString("2. Check the provider's status page for outages.\n")
		b.WriteString("3. Check your internet connection and firewall settings.\n")
		b.WriteString("4. Check that no proxy between you and the provider is stripping headers.\n")
	}

	b.WriteString("\nRun with --log-level debug for request details.")
	return b.String()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jeranaias/chatstudio/internal/model"
)

// Temperature is sent with every completion request.
const Temperature = 0.7

// UserAgent identifies this client to providers.
const UserAgent = "chatstudio/1.0"

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatMessage is one message in a request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completions response both
// providers share.
type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// BuildHistory assembles the payload for a send: the system prompt first,
// then every user and assistant turn of history in order. Recorded failures
// and system messages from history are left out.
func BuildHistory(systemPrompt string, history []model.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, ChatMessage{Role: string(model.RoleSystem), Content: systemPrompt})
	}
	for _, m := range history {
		if !m.Role.IsConversational() || m.IsFailure() {
			continue
		}
		out = append(out, ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// =============================================================================
// ADAPTER
// =============================================================================

// Adapter converts a message history into a provider-specific HTTP request
// and pulls the reply text out of the provider's response body. Adapters
// perform no I/O.
type Adapter interface {
	// Provider identifies the variant.
	Provider() model.Provider

	// Endpoint is the URL requests are sent to, for diagnostics. It may be
	// empty when the adapter is misconfigured.
	Endpoint() string

	// Model is the configured model identifier.
	Model() string

	// BuildRequest validates configuration and returns a ready POST
	// request. Configuration problems are reported as KindConfiguration
	// errors before anything is sent.
	BuildRequest(ctx context.Context, messages []ChatMessage) (*http.Request, error)

	// ExtractContent returns choices[0].message.content from a 2xx body.
	// A missing or empty content is a KindInvalidResponse error.
	ExtractContent(body []byte) (string, error)
}

// Settings carries every provider's configuration. Only the fields of the
// selected provider are consulted.
type Settings struct {
	LocalEndpoint string
	LocalModel    string

	CloudBaseURL string
	CloudAPIKey  string
	CloudModel   string
}

// New returns the adapter for p.
func New(p model.Provider, s Settings) (Adapter, error) {
	switch p {
	case model.ProviderLocal:
		return NewLocal(s.LocalEndpoint, s.LocalModel), nil
	case model.ProviderCloud:
		return NewCloud(s.CloudBaseURL, s.CloudAPIKey, s.CloudModel), nil
	default:
		return nil, configError(p, ErrUnknownProvider, "Unknown API provider \""+string(p)+"\".")
	}
}

// extractContent is the response handling both providers share.
func extractContent(p model.Provider, body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", invalidResponse(p, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", invalidResponse(p, nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// validURL reports whether raw is an absolute http or https URL.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func setJSONHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jeranaias/chatstudio/internal/model"
)

// DefaultLocalEndpoint is where a local inference server listens out of the
// box.
const DefaultLocalEndpoint = "http://localhost:1234/v1/chat/completions"

// localRequest is the body a local server expects. Field order follows the
// server's documented example.
type localRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	Mode        string        `json:"mode"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

// LocalAdapter talks to an unauthenticated local server. The endpoint is
// the complete chat-completions URL.
type LocalAdapter struct {
	endpoint string
	model    string
}

// NewLocal returns a local adapter. Missing values are reported when a
// request is built, not here.
func NewLocal(endpoint, model string) *LocalAdapter {
	return &LocalAdapter{endpoint: trimmed(endpoint), model: trimmed(model)}
}

// Provider implements Adapter.
func (a *LocalAdapter) Provider() model.Provider { return model.ProviderLocal }

// Endpoint implements Adapter.
func (a *LocalAdapter) Endpoint() string { return a.endpoint }

// Model implements Adapter.
func (a *LocalAdapter) Model() string { return a.model }

// Validate reports the first missing or malformed setting.
func (a *LocalAdapter) Validate() error {
	if a.endpoint == "" {
		return configError(model.ProviderLocal, ErrMissingEndpoint,
			"Local API endpoint is not configured. Set local.endpoint in config.toml or CHATSTUDIO_LOCAL_ENDPOINT.")
	}
	if !validURL(a.endpoint) {
		return configError(model.ProviderLocal, ErrInvalidEndpoint,
			fmt.Sprintf("Local API endpoint %q is not a valid http(s) URL.", a.endpoint))
	}
	if a.model == "" {
		return configError(model.ProviderLocal, ErrMissingModel,
			"Local model ID is not configured. Set local.model in config.toml or CHATSTUDIO_LOCAL_MODEL.")
	}
	return nil
}

// BuildRequest implements Adapter.
func (a *LocalAdapter) BuildRequest(ctx context.Context, messages []ChatMessage) (*http.Request, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(localRequest{
		Messages:    messages,
		Model:       a.model,
		Mode:        "chat",
		Stream:      false,
		Temperature: Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, configError(model.ProviderLocal, ErrInvalidEndpoint,
			fmt.Sprintf("Local API endpoint %q is not usable: %v", a.endpoint, err))
	}
	setJSONHeaders(req)
	return req, nil
}

// ExtractContent implements Adapter.
func (a *LocalAdapter) ExtractContent(body []byte) (string, error) {
	return extractContent(model.ProviderLocal, body)
}

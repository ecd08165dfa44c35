// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeranaias/chatstudio/internal/model"
)

// Cloud defaults.
const (
	DefaultCloudBaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultCloudModel   = "meta/llama-3.1-405b-instruct"
)

// cloudRequest is the OpenAI-compatible body a hosted provider expects.
type cloudRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// CloudAdapter talks to a hosted, bearer-authenticated provider. Requests go
// to <baseURL>/chat/completions.
type CloudAdapter struct {
	baseURL string
	apiKey  string
	model   string
}

// NewCloud returns a cloud adapter. An empty baseURL means
// DefaultCloudBaseURL.
func NewCloud(baseURL, apiKey, model string) *CloudAdapter {
	baseURL = strings.TrimSuffix(trimmed(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultCloudBaseURL
	}
	return &CloudAdapter{baseURL: baseURL, apiKey: trimmed(apiKey), model: trimmed(model)}
}

// Provider implements Adapter.
func (a *CloudAdapter) Provider() model.Provider { return model.ProviderCloud }

// Endpoint implements Adapter.
func (a *CloudAdapter) Endpoint() string { return a.baseURL + "/chat/completions" }

// Model implements Adapter.
func (a *CloudAdapter) Model() string { return a.model }

// Validate reports the first missing or malformed setting.
func (a *CloudAdapter) Validate() error {
	if a.apiKey == "" {
		return configError(model.ProviderCloud, ErrMissingAPIKey,
			"Cloud API key is not configured. Set cloud.api_key in config.toml or CHATSTUDIO_CLOUD_API_KEY.")
	}
	if a.model == "" {
		return configError(model.ProviderCloud, ErrMissingModel,
			"Cloud model ID is not configured. Set cloud.model in config.toml or CHATSTUDIO_CLOUD_MODEL.")
	}
	if !validURL(a.baseURL) {
		return configError(model.ProviderCloud, ErrInvalidEndpoint,
			fmt.Sprintf("Cloud API base URL %q is not a valid http(s) URL.", a.baseURL))
	}
	return nil
}

// BuildRequest implements Adapter.
func (a *CloudAdapter) BuildRequest(ctx context.Context, messages []ChatMessage) (*http.Request, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(cloudRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: Temperature,
		Stream:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, configError(model.ProviderCloud, ErrInvalidEndpoint,
			fmt.Sprintf("Cloud API base URL %q is not usable: %v", a.baseURL, err))
	}
	setJSONHeaders(req)
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	return req, nil
}

// ExtractContent implements Adapter.
func (a *CloudAdapter) ExtractContent(body []byte) (string, error) {
	return extractContent(model.ProviderCloud, body)
}

// KeyMasked describes the configured key without exposing any of it.
func (a *CloudAdapter) KeyMasked() string {
	if a.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[set, %d chars]", len(a.apiKey))
}

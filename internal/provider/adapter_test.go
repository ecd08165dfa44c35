// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatstudio/internal/model"
)

var sample = []ChatMessage{
	{Role: "system", Content: "You are a helpful AI assistant."},
	{Role: "user", Content: "Hi"},
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

// =============================================================================
// LOCAL
// =============================================================================

func TestLocalAdapter_BuildRequest(t *testing.T) {
	a := NewLocal("http://localhost:1234/v1/chat/completions", "bahasa-jawa")

	req, err := a.BuildRequest(context.Background(), sample)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "http://localhost:1234/v1/chat/completions", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Authorization"))

	body := decodeBody(t, req.Body)
	assert.Equal(t, "bahasa-jawa", body["model"])
	assert.Equal(t, "chat", body["mode"])
	assert.Equal(t, false, body["stream"])
	assert.Equal(t, 0.7, body["temperature"])
	assert.Len(t, body["messages"], 2)
}

func TestLocalAdapter_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		model    string
		cause    error
	}{
		{"missing endpoint", "", "m", ErrMissingEndpoint},
		{"missing model", "http://localhost:1234/v1/chat/completions", " ", ErrMissingModel},
		{"bad endpoint", "localhost:1234", "m", ErrInvalidEndpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocal(tt.endpoint, tt.model).BuildRequest(context.Background(), sample)
			require.Error(t, err)
			assert.True(t, IsConfiguration(err))
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

// =============================================================================
// CLOUD
// =============================================================================

func TestCloudAdapter_BuildRequest(t *testing.T) {
	a := NewCloud("https://api.example.com/v1/", "sk-test", "meta/llama-3.1-405b-instruct")

	req, err := a.BuildRequest(context.Background(), sample)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1/chat/completions", req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))

	body := decodeBody(t, req.Body)
	assert.Equal(t, "meta/llama-3.1-405b-instruct", body["model"])
	assert.Equal(t, false, body["stream"])
	assert.Equal(t, 0.7, body["temperature"])
	_, hasMode := body["mode"]
	assert.False(t, hasMode)
}

func TestCloudAdapter_DefaultBaseURL(t *testing.T) {
	a := NewCloud("", "k", "m")
	assert.Equal(t, DefaultCloudBaseURL+"/chat/completions", a.Endpoint())
}

func TestCloudAdapter_ConfigurationErrors(t *testing.T) {
	_, err := NewCloud("", "", "m").BuildRequest(context.Background(), sample)
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewCloud("", "k", "").BuildRequest(context.Background(), sample)
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, ErrMissingModel)
}

func TestCloudAdapter_KeyMasked(t *testing.T) {
	assert.Equal(t, "[not set]", NewCloud("", "", "m").KeyMasked())
	assert.NotContains(t, NewCloud("", "sk-secret", "m").KeyMasked(), "secret")
}

// =============================================================================
// EXTRACT / NEW / HISTORY
// =============================================================================

func TestExtractContent(t *testing.T) {
	for _, a := range []Adapter{NewLocal("http://x", "m"), NewCloud("", "k", "m")} {
		got, err := a.ExtractContent([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello!"}}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Hello!", got)

		for _, body := range []string{
			`{"choices":[]}`,
			`{"choices":[{"message":{"content":""}}]}`,
			`{}`,
			`not json`,
		} {
			_, err := a.ExtractContent([]byte(body))
			assert.True(t, IsInvalidResponse(err), body)
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.Equal(t, InvalidResponseMessage, err.Error())
		}
	}
}

func TestNew(t *testing.T) {
	s := Settings{LocalEndpoint: "http://l", LocalModel: "lm", CloudAPIKey: "k", CloudModel: "cm"}

	a, err := New(model.ProviderLocal, s)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderLocal, a.Provider())
	assert.Equal(t, "lm", a.Model())

	a, err = New(model.ProviderCloud, s)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderCloud, a.Provider())
	assert.Equal(t, "cm", a.Model())

	_, err = New("other", s)
	assert.True(t, IsConfiguration(err))
}

func TestBuildHistory(t *testing.T) {
	failed := model.NewMessage(model.RoleAssistant, "Error: boom", 3)
	failed.Failure = KindNetwork.String()
	history := []model.Message{
		model.NewMessage(model.RoleUser, "one", 1),
		model.NewMessage(model.RoleAssistant, "two", 2),
		failed,
		model.NewMessage(model.RoleSystem, "stray", 4),
		model.NewMessage(model.RoleUser, "three", 5),
	}

	got := BuildHistory("be nice", history)
	assert.Equal(t, []ChatMessage{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
	}, got)

	assert.Len(t, BuildHistory("", history), 3)
}

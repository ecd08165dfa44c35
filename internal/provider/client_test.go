// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatstudio/internal/model"
)

func reply(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`
}

func TestClient_CompleteLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply("Hello!")))
	}))
	defer server.Close()

	got, err := NewClient().Complete(context.Background(), NewLocal(server.URL+"/v1/chat/completions", "m"), sample)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", got)
}

func TestClient_CompleteCloud(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(reply("Hi from the cloud")))
	}))
	defer server.Close()

	got, err := NewClient().Complete(context.Background(), NewCloud(server.URL+"/v1", "sk-test", "m"), sample)
	require.NoError(t, err)
	assert.Equal(t, "Hi from the cloud", got)
}

func TestClient_ConfigurationErrorSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	_, err := NewClient().Complete(context.Background(), NewCloud(server.URL, "", "m"), sample)
	assert.True(t, IsConfiguration(err))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_HTTPStatusJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("{\n  \"error\": \"x\"\n}"))
	}))
	defer server.Close()

	_, err := NewClient().Complete(context.Background(), NewLocal(server.URL, "m"), sample)
	require.Error(t, err)
	assert.True(t, IsHTTPStatus(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 500, pe.Status)
	assert.Equal(t, `{"error":"x"}`, pe.Body)
	assert.Contains(t, pe.Error(), "500")
	assert.Contains(t, pe.Error(), `Details: {"error":"x"}`)
}

func TestClient_HTTPStatusTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient().Complete(context.Background(), NewLocal(server.URL, "m"), sample)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindHTTPStatus, pe.Kind)
	assert.Equal(t, 503, pe.Status)
	assert.Contains(t, pe.Error(), "Response: model not loaded")
}

func TestClient_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewClient().Complete(context.Background(), NewLocal(server.URL, "m"), sample)
	assert.True(t, IsInvalidResponse(err))
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient().Complete(context.Background(), NewLocal(url, "m"), sample)
	assert.True(t, IsNetwork(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ProviderLocal, pe.Provider)
	assert.Equal(t, url, pe.URL)
}

func TestClient_Canceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient().Complete(ctx, NewLocal(server.URL, "m"), sample)
	assert.True(t, IsCanceled(err), "got %v", err)
}

func TestClient_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", MaxResponseSize+10)))
	}))
	defer server.Close()

	_, err := NewClient().Complete(context.Background(), NewLocal(server.URL, "m"), sample)
	assert.True(t, IsNetwork(err))
}

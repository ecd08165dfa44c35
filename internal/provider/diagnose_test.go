// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/chatstudio/internal/model"
)

func TestDiagnose(t *testing.T) {
	local := NewLocal("http://localhost:1234/v1/chat/completions", "bahasa-jawa")
	cloud := NewCloud("", "k", "meta/llama")

	assert.Equal(t, "", Diagnose(nil, local))

	cfg := NewLocal("", "m").Validate()
	assert.Equal(t,
		"Error: Local API endpoint is not configured. Set local.endpoint in config.toml or CHATSTUDIO_LOCAL_ENDPOINT.",
		Diagnose(cfg, local))

	status := statusError(model.ProviderCloud, "u", 401, []byte(`{"error":"bad key"}`))
	assert.Equal(t, "Error: "+status.Message, Diagnose(status, cloud))

	invalid := invalidResponse(model.ProviderLocal, nil)
	assert.Equal(t, "Error: "+InvalidResponseMessage, Diagnose(invalid, local))

	plain := errors.New("boom")
	assert.Equal(t, "Error: boom", Diagnose(plain, local))
}

func TestDiagnose_Network(t *testing.T) {
	netErr := &Error{Kind: KindNetwork, Provider: model.ProviderLocal, Message: "request failed", Cause: errors.New("connection refused")}

	got := Diagnose(netErr, NewLocal("http://localhost:1234/v1/chat/completions", "bahasa-jawa"))
	assert.Contains(t, got, "Network error: could not reach the local API at http://localhost:1234/v1/chat/completions")
	assert.Contains(t, got, "connection refused")
	assert.Contains(t, got, "'bahasa-jawa'")
	assert.Contains(t, got, "Troubleshooting for the local provider")

	netErr.Provider = model.ProviderCloud
	got = Diagnose(netErr, NewCloud("", "k", "meta/llama"))
	assert.Contains(t, got, "cloud.api_key")
	assert.Contains(t, got, DefaultCloudBaseURL)
}

func TestDiagnose_Canceled(t *testing.T) {
	err := &Error{Kind: KindCanceled, Message: "request canceled"}
	assert.Contains(t, Diagnose(err, nil), "canceled")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "http_status", KindHTTPStatus.String())
	assert.Equal(t, "invalid_response", KindInvalidResponse.String())
	assert.Equal(t, "canceled", KindCanceled.String())
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
}

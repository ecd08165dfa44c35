// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/chatstudio/internal/model"
)

// MaxResponseSize is the maximum allowed response body size.
// SECURITY: Response size limit prevents memory exhaustion.
const MaxResponseSize = 10 * 1024 * 1024

// PERFORMANCE: one pooled client for every provider request. There is no
// client timeout; requests are bounded by their context.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// ClientConfig holds configuration options for Client.
type ClientConfig struct {
	// HTTPClient sends requests (default: a shared pooled client).
	HTTPClient *http.Client

	// Logger receives request and response summaries (default:
	// slog.Default()). Headers and bodies are never logged.
	Logger *slog.Logger
}

// Client dispatches adapter-built requests. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(nil)
}

// NewClientWithConfig creates a Client, filling in defaults for nil fields.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}
	c := &Client{httpClient: config.HTTPClient, logger: config.Logger}
	if c.httpClient == nil {
		c.httpClient = sharedHTTPClient
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "provider")
	return c
}

// Complete sends messages through adapter and returns the reply text.
//
// Every failure is an *Error. Configuration errors are returned before any
// network activity.
func (c *Client) Complete(ctx context.Context, adapter Adapter, messages []ChatMessage) (string, error) {
	p := adapter.Provider()

	req, err := adapter.BuildRequest(ctx, messages)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			return "", pe
		}
		return "", &Error{Kind: KindUnknown, Provider: p, Message: "failed to build request", Cause: err}
	}
	target := req.URL.Redacted()

	c.logger.Debug("provider request", "provider", p, "method", req.Method, "host", req.URL.Host, "messages", len(messages))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	// SECURITY: drop the credential so nothing downstream can log it.
	req.Header.Del("Authorization")
	if err != nil {
		return "", transportError(ctx, p, target, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	c.logger.Debug("provider response", "provider", p, "status", resp.StatusCode, "duration", time.Since(start))
	if err != nil {
		return "", transportError(ctx, p, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(p, target, resp.StatusCode, body)
	}

	content, err := adapter.ExtractContent(body)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pe.URL = target
		}
		return "", err
	}
	return content, nil
}

// readResponse reads the response body with size limits to prevent memory
// exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// transportError classifies a failed round trip.
func transportError(ctx context.Context, p model.Provider, target string, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Provider: p, URL: target, Message: "request canceled", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Provider: p, URL: target, Message: "request timed out", Cause: err}
	}
	return &Error{Kind: KindNetwork, Provider: p, URL: target, Message: "request failed", Cause: err}
}

// statusError builds the KindHTTPStatus error for a non-2xx response. The
// body is included compactly when it is JSON and as text otherwise.
func statusError(p model.Provider, target string, status int, body []byte) *Error {
	detail := strings.TrimSpace(string(body))
	var msg strings.Builder
	fmt.Fprintf(&msg, "API request failed. Status: %d, StatusText: %s.", status, http.StatusText(status))

	var compact bytes.Buffer
	if json.Valid(body) && json.Compact(&compact, body) == nil {
		detail = compact.String()
		fmt.Fprintf(&msg, " Details: %s", detail)
	} else if detail != "" {
		fmt.Fprintf(&msg, " Response: %s", detail)
	} else {
		msg.WriteString(" Response: No further details available from response body.")
	}

	return &Error{
		Kind:     KindHTTPStatus,
		Provider: p,
		URL:      target,
		Status:   status,
		Body:     detail,
		Message:  msg.String(),
	}
}

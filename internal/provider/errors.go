// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"

	"github.com/jeranaias/chatstudio/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Kind categorizes a failed completion for handling and display.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration means a required setting was missing; no request
	// was sent.
	KindConfiguration
	// KindNetwork means the request could not be delivered or the response
	// could not be read.
	KindNetwork
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindInvalidResponse means a 2xx body had no usable message content.
	KindInvalidResponse
	// KindCanceled means the caller abandoned the request.
	KindCanceled
)

// String returns the name recorded on failure messages.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindInvalidResponse:
		return "invalid_response"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by adapters and Client for every failure.
type Error struct {
	Kind     Kind
	Provider model.Provider
	Message  string

	// Populated for KindHTTPStatus.
	Status int
	Body   string

	// URL is the request target, when one was built.
	URL string

	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil && (e.Kind == KindNetwork || e.Kind == KindUnknown) {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Sentinel causes for configuration errors.
var (
	ErrMissingEndpoint = errors.New("endpoint not configured")
	ErrMissingAPIKey   = errors.New("API key not configured")
	ErrMissingModel    = errors.New("model not configured")
	ErrInvalidEndpoint = errors.New("endpoint is not a valid http(s) URL")
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidResponse is the cause of every KindInvalidResponse error.
	ErrInvalidResponse = errors.New("invalid response structure")
)

// InvalidResponseMessage is the text shown when a 2xx response carries no
// message content.
const InvalidResponseMessage = "Invalid response structure from API or empty message content received."

func configError(p model.Provider, cause error, msg string) *Error {
	return &Error{Kind: KindConfiguration, Provider: p, Message: msg, Cause: cause}
}

func invalidResponse(p model.Provider, cause error) *Error {
	if cause == nil {
		cause = ErrInvalidResponse
	} else {
		cause = fmt.Errorf("%w: %v", ErrInvalidResponse, cause)
	}
	return &Error{Kind: KindInvalidResponse, Provider: p, Message: InvalidResponseMessage, Cause: cause}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsConfiguration checks if err is a missing-setting error.
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }

// IsNetwork checks if err is a transport failure.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// IsHTTPStatus checks if err is a non-2xx response.
func IsHTTPStatus(err error) bool { return KindOf(err) == KindHTTPStatus }

// IsInvalidResponse checks if err is an unusable 2xx response.
func IsInvalidResponse(err error) bool { return KindOf(err) == KindInvalidResponse }

// IsCanceled checks if err is an abandoned request.
func IsCanceled(err error) bool { return KindOf(err) == KindCanceled }

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/chatstudio/internal/model"
)

// JSONResponse is the envelope --json output is written in.
type JSONResponse struct {
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}, now time.Time) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: now.UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write outputs the response as indented JSON.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// sessionSummary is one row of `sessions list --json`.
type sessionSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Provider     string `json:"provider"`
	Messages     int    `json:"messages"`
	CreatedAt    string `json:"createdAt"`
	LastUpdated  string `json:"lastUpdated"`
	Active       bool   `json:"active"`
	LastActivity string `json:"lastActivity"`
}

func summarizeSessions(sessions []model.Session, activeID string, now time.Time) []sessionSummary {
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{
			ID:           s.ID,
			Title:        s.Title,
			Provider:     string(s.Provider()),
			Messages:     len(s.Messages),
			CreatedAt:    time.UnixMilli(s.CreatedAt).UTC().Format(time.RFC3339),
			LastUpdated:  s.LastUpdatedTime().UTC().Format(time.RFC3339),
			Active:       s.ID == activeID,
			LastActivity: relativeTime(s, now),
		})
	}
	return out
}

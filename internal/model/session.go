// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/jeranaias/chatstudio/internal/util"
)

// TitleMaxRunes is how much of the first message becomes the session title.
const TitleMaxRunes = 30

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one named conversation. CreatedAt and LastUpdated are epoch
// milliseconds; LastUpdated is never earlier than CreatedAt and the messages
// are kept in non-decreasing timestamp order.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    int64     `json:"createdAt"`
	LastUpdated  int64     `json:"lastUpdated"`
	ProviderUsed *Provider `json:"providerUsed,omitempty"`
	Messages     []Message `json:"messages"`
}

// NewSession starts a session titled from its first message content.
func NewSession(firstContent string, provider Provider, now int64) Session {
	p := provider
	return Session{
		ID:           NewID(),
		Title:        TitleFromContent(firstContent),
		CreatedAt:    now,
		LastUpdated:  now,
		ProviderUsed: &p,
		Messages:     []Message{},
	}
}

// TitleFromContent derives a session title from the first user message:
// the first TitleMaxRunes runes, with "..." appended when the content is
// longer.
func TitleFromContent(content string) string {
	return util.Ellipsize(content, TitleMaxRunes)
}

// Clone returns a copy that shares no mutable state with s.
func (s Session) Clone() Session {
	c := s
	if s.ProviderUsed != nil {
		p := *s.ProviderUsed
		c.ProviderUsed = &p
	}
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return c
}

// Append adds msg and advances LastUpdated.
//
// The message timestamp is raised to the last message's timestamp (or
// CreatedAt) if the clock went backwards, so ordering invariants hold.
func (s *Session) Append(msg Message) {
	floor := s.CreatedAt
	if n := len(s.Messages); n > 0 {
		floor = s.Messages[n-1].Timestamp
	}
	if msg.Timestamp < floor {
		msg.Timestamp = floor
	}
	s.Messages = append(s.Messages, msg)
	s.Touch(msg.Timestamp)
}

// Touch sets LastUpdated to now, clamped so it never precedes CreatedAt or
// moves backwards.
func (s *Session) Touch(now int64) {
	if now < s.CreatedAt {
		now = s.CreatedAt
	}
	if now > s.LastUpdated {
		s.LastUpdated = now
	}
}

// Provider returns the provider recorded for the session, defaulting to
// local when none was recorded.
func (s Session) Provider() Provider {
	if s.ProviderUsed == nil || !s.ProviderUsed.Valid() {
		return ProviderLocal
	}
	return *s.ProviderUsed
}

// LastUpdatedTime returns LastUpdated as a time.Time.
func (s Session) LastUpdatedTime() time.Time {
	return time.UnixMilli(s.LastUpdated)
}

// Preview returns the content of the most recent genuine message, for list
// views.
func (s Session) Preview() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if !s.Messages[i].IsFailure() {
			return s.Messages[i].Content
		}
	}
	return ""
}

// Matches reports whether query appears (case-insensitively) in the title
// or any message of the session.
func (s Session) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	for _, m := range s.Messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			return true
		}
	}
	return false
}

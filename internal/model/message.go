// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// IsConversational reports whether messages with this role are part of the
// user/assistant exchange that gets replayed to a provider.
func (r Role) IsConversational() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn in a session. Timestamp is epoch milliseconds.
//
// Failure is empty for genuine turns. When a send fails the controller
// records an assistant message whose Content is the diagnostic text and
// whose Failure names the failure kind; such messages are shown and
// exported but never resubmitted to a provider.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Failure   string `json:"failure,omitempty"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, content string, timestamp int64) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: timestamp,
	}
}

// IsFailure reports whether the message records a failed send.
func (m Message) IsFailure() bool {
	return m.Failure != ""
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// NewID returns a new random identifier for sessions and messages.
func NewID() string {
	return uuid.NewString()
}

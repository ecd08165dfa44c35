// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"github.com/jeranaias/chatstudio/internal/model"
)

// Roles used in exported conversations.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Turn is one exported message.
type Turn struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Entry is one exported session.
type Entry struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	APIProvider   string `json:"apiProvider" yaml:"apiProvider"`
	Conversations []Turn `json:"conversations" yaml:"conversations"`
}

// Document is the export of a whole session collection.
type Document []Entry

// ExportAll converts sessions to a Document, one entry per session in the
// order given. Only user and assistant messages are carried over, user
// turns labelled "human". A session with no recorded provider is exported
// as "local".
func ExportAll(sessions []model.Session) Document {
	doc := make(Document, 0, len(sessions))
	for _, s := range sessions {
		doc = append(doc, exportSession(s))
	}
	return doc
}

func exportSession(s model.Session) Entry {
	entry := Entry{
		ID:            s.ID,
		Title:         s.Title,
		APIProvider:   string(s.Provider()),
		Conversations: make([]Turn, 0, len(s.Messages)),
	}
	for _, m := range s.Messages {
		switch m.Role {
		case model.RoleUser:
			entry.Conversations = append(entry.Conversations, Turn{Role: RoleHuman, Content: m.Content})
		case model.RoleAssistant:
			entry.Conversations = append(entry.Conversations, Turn{Role: RoleAssistant, Content: m.Content})
		}
	}
	return entry
}

// TurnCount returns the number of turns across all entries.
func (d Document) TurnCount() int {
	n := 0
	for _, e := range d {
		n += len(e.Conversations)
	}
	return n
}

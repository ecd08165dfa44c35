// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders the history as a readable Markdown document, one
// section per session.
type MarkdownExporter struct {
	// now stamps the footer; tests replace it.
	now func() time.Time
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{now: time.Now}
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(doc Document) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("sessions: %d\n", len(doc)))
	sb.WriteString(fmt.Sprintf("messages: %d\n", doc.TurnCount()))
	sb.WriteString(fmt.Sprintf("exported: %s\n", e.now().Format(time.RFC3339)))
	sb.WriteString("generator: chatstudio\n")
	sb.WriteString("---\n\n")

	sb.WriteString("# Chat History\n\n")

	for i, entry := range doc {
		title := entry.Title
		if title == "" {
			title = "Untitled"
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(title)))
		sb.WriteString(fmt.Sprintf("- **ID**: `%s`\n", entry.ID))
		sb.WriteString(fmt.Sprintf("- **Provider**: %s\n", entry.APIProvider))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n\n", len(entry.Conversations)))

		for _, turn := range entry.Conversations {
			sb.WriteString(fmt.Sprintf("### %s\n\n", formatRoleLabel(turn.Role)))
			sb.WriteString(strings.TrimSpace(turn.Content))
			sb.WriteString("\n\n")
		}

		if i < len(doc)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("*Exported from chatstudio on %s*\n",
		e.now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatRoleLabel returns a formatted label for an exported role.
func formatRoleLabel(role string) string {
	switch role {
	case RoleHuman:
		return "[User]"
	case RoleAssistant:
		return "[Assistant]"
	case "":
		return "Unknown"
	default:
		runes := []rune(role)
		return strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only characters that would break formatting in headings.
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

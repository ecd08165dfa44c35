// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/chatstudio/internal/model"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders content for the terminal. Returns content
// unchanged when colors are off or the renderer cannot be built.
func renderMarkdown(content string) string {
	if !ColorsEnabled() {
		return content
	}
	markdownRendererOnce.Do(func() {
		width := GetTerminalWidth() - 4
		if width > 100 {
			width = 100
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// printMessage writes one transcript entry. Failure diagnostics are shown
// verbatim so their line structure survives.
func printMessage(w io.Writer, msg model.Message) {
	fmt.Fprintf(w, "%s %s\n", RenderRole(msg), DimStyle.Render(msg.Time().Format("15:04")))
	switch {
	case msg.IsFailure():
		fmt.Fprintln(w, msg.Content)
	case msg.Role == model.RoleAssistant:
		fmt.Fprintln(w, renderMarkdown(msg.Content))
	default:
		fmt.Fprintln(w, msg.Content)
	}
	fmt.Fprintln(w)
}

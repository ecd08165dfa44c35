// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/koki-develop/go-fzf"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/util"
)

// pickSession is the interactive session picker. Returns nil when the user
// cancels.
var pickSession = fzfPickSession

func fzfPickSession(sessions []model.Session) (*model.Session, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no saved sessions")
	}

	f, err := fzf.New(
		fzf.WithPrompt("Sessions > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idxs, err := f.Find(
		sessions,
		func(i int) string {
			return formatPickerLine(sessions[i], now)
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(sessions) {
				return ""
			}
			return formatPickerPreview(sessions[i], w)
		}),
	)
	if errors.Is(err, fzf.ErrAbort) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, nil
	}
	return &sessions[idxs[0]], nil
}

// pickerPreviewRunes bounds the last-message excerpt on a picker line.
const pickerPreviewRunes = 60

// formatPickerLine is one picker row. The latest genuine message follows
// the title so fuzzy matching covers it too.
func formatPickerLine(s model.Session, now time.Time) string {
	line := fmt.Sprintf("%s  %s  %s",
		util.FitWidth(util.RelativeTime(s.LastUpdatedTime(), now), 20),
		util.FitWidth(string(s.Provider()), 5),
		s.Title)
	if preview := util.SingleLine(s.Preview()); preview != "" {
		line += "  | " + util.Ellipsize(preview, pickerPreviewRunes)
	}
	return line
}

func formatPickerPreview(s model.Session, width int) string {
	var b strings.Builder
	if width < 20 {
		width = 20
	}

	b.WriteString(s.Title + "\n")
	b.WriteString(fmt.Sprintf("ID: %s\n", s.ID))
	b.WriteString(fmt.Sprintf("Provider: %s, %d message(s)\n", s.Provider().DisplayName(), len(s.Messages)))
	b.WriteString(strings.Repeat("-", width-2) + "\n\n")

	// Most recent turns last, like the chat view.
	start := len(s.Messages) - 6
	if start < 0 {
		start = 0
	}
	for _, m := range s.Messages[start:] {
		label := m.Role.DisplayName()
		if m.IsFailure() {
			label = "Error"
		}
		b.WriteString(label + ": " + util.TruncateRunes(util.SingleLine(m.Content), 200) + "\n\n")
	}
	return b.String()
}

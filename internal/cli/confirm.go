// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"strings"
)

// =============================================================================
// CONFIRMATION HANDLING
// =============================================================================

// requireConfirmation checks that the user confirmed a destructive action.
//
// Confirmation flow:
//  1. If yes is true (--yes), return true immediately
//  2. If prompts are impossible, return an error pointing at --yes
//  3. Otherwise, show details and an interactive [y/N] prompt
func (a *App) requireConfirmation(yes bool, action string, details [][2]string) (bool, error) {
	if yes {
		return true, nil
	}
	if a.input == nil && !a.Interactive() {
		return false, &TTYRequiredError{Operation: "confirm", Hint: "use --yes to " + action}
	}

	if len(details) > 0 {
		fmt.Fprintln(a.Out)
		fmt.Fprintln(a.Out, RenderConditional(WarningStyle, "WARNING: Destructive Action"))
		fmt.Fprintln(a.Out, RenderSeparator(50))
		for _, d := range details {
			fmt.Fprintf(a.Out, "  %s%s\n", RenderLabel(d[0]+":"), d[1])
		}
	}
	fmt.Fprintln(a.Out)

	input, err := a.readLine(fmt.Sprintf("Are you sure you want to %s? [y/N]: ", action))
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}

// readLine reads one line through the REPL's line editor when a chat is
// running, or from a.In otherwise.
func (a *App) readLine(prompt string) (string, error) {
	if a.input != nil {
		return a.input.ReadLine(prompt)
	}
	fmt.Fprint(a.Out, prompt)
	line, err := bufio.NewReader(a.In).ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// showCancellationMessage displays a standard cancellation message.
func (a *App) showCancellationMessage() {
	fmt.Fprintln(a.Out, DimStyle.Render("Cancelled."))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/provider"
	"github.com/jeranaias/chatstudio/internal/storage"
)

// probeTimeout bounds each reachability check.
const probeTimeout = 3 * time.Second

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	checkWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	fixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			PaddingLeft(2)
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the string representation of the check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "Pass"
	case CheckWarn:
		return "Warn"
	case CheckFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Symbol returns the bracketed marker for the check status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return RenderConditional(checkPassStyle, "[OK]")
	case CheckWarn:
		return RenderConditional(checkWarnStyle, "[!!]")
	case CheckFail:
		return RenderConditional(checkFailStyle, "[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.Status.Symbol(), c.Message)
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + RenderConditional(fixStyle, "-> "+c.Fix)
	}
	return result
}

// =============================================================================
// DOCTOR COMMAND
// =============================================================================

func newDoctorCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage and provider connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), app)
		},
	}
}

func runDoctor(ctx context.Context, app *App) error {
	checks := runAllChecks(ctx, app)

	passed, warned, failed := 0, 0, 0
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			passed++
		case CheckWarn:
			warned++
		case CheckFail:
			failed++
		}
	}

	fmt.Fprintln(app.Out, RenderConditional(TitleStyle, "chatstudio doctor"))
	fmt.Fprintln(app.Out, RenderSeparator(41))
	for _, check := range checks {
		fmt.Fprintln(app.Out, check.Render())
	}
	fmt.Fprintln(app.Out, RenderSeparator(41))

	summary := []string{fmt.Sprintf("%d passed", passed)}
	if warned > 0 {
		summary = append(summary, fmt.Sprintf("%d warning", warned))
	}
	if failed > 0 {
		summary = append(summary, fmt.Sprintf("%d failed", failed))
	}
	fmt.Fprintln(app.Out, strings.Join(summary, ", "))

	if failed > 0 {
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	return nil
}

func runAllChecks(ctx context.Context, app *App) []*HealthCheck {
	selected := app.Repo.Selection().Provider()
	settings := app.Config.ProviderSettings()

	checks := []*HealthCheck{
		checkConfig(app),
		checkStorage(app),
	}
	for _, p := range model.Providers {
		checks = append(checks, checkProvider(ctx, p, settings, p == selected))
	}
	return append(checks, checkActiveSession(app))
}

// =============================================================================
// CHECKS
// =============================================================================

func checkConfig(app *App) *HealthCheck {
	check := &HealthCheck{Name: "Config"}

	path, err := app.resolvedConfigPath()
	if err != nil {
		check.Status = CheckWarn
		check.Message = "Could not determine config path"
		return check
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		check.Status = CheckPass
		check.Message = "Config valid (using defaults)"
		check.Fix = "Run: chatstudio config init"
		return check
	}
	check.Status = CheckPass
	check.Message = "Config valid: " + path
	return check
}

func checkStorage(app *App) *HealthCheck {
	check := &HealthCheck{Name: "Storage"}
	backend := app.Store.Backend()
	wanted := app.Config.Storage.Backend

	if backend.Name() == storage.KindMemory && wanted != storage.KindMemory {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Storage backend %q unavailable; history is not being saved", wanted)
		check.Fix = "Check the data directory permissions (chatstudio config path)"
		return check
	}

	if fb, ok := backend.(*storage.FileBackend); ok {
		probe := filepath.Join(fb.Dir(), ".write_test")
		if err := os.WriteFile(probe, []byte("test"), 0600); err != nil {
			check.Status = CheckFail
			check.Message = fmt.Sprintf("Data directory not writable: %s", err)
			check.Fix = fmt.Sprintf("Check permissions: chmod 700 %s", fb.Dir())
			return check
		}
		os.Remove(probe)
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Storage: %s backend, %d session(s)", backend.Name(), app.Repo.Len())
	if backend.Name() == storage.KindMemory {
		check.Status = CheckWarn
		check.Message = "Storage: memory backend, history is discarded on exit"
	}
	return check
}

// checkProvider validates a provider's settings and, when they are
// complete, probes its server. Problems with the unselected provider are
// only warnings.
func checkProvider(ctx context.Context, p model.Provider, settings provider.Settings, selected bool) *HealthCheck {
	check := &HealthCheck{Name: p.DisplayName()}
	bad := CheckFail
	if !selected {
		bad = CheckWarn
	}

	adapter, err := provider.New(p, settings)
	if err == nil {
		if v, ok := adapter.(interface{ Validate() error }); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		check.Status = bad
		check.Message = fmt.Sprintf("%s provider not configured: %v", p.DisplayName(), err)
		if p == model.ProviderCloud {
			check.Fix = "Set CHATSTUDIO_CLOUD_API_KEY or cloud.api_key in the config file"
		}
		return check
	}

	origin, err := originOf(adapter.Endpoint())
	if err != nil {
		check.Status = bad
		check.Message = err.Error()
		return check
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, origin, nil)
	if err != nil {
		check.Status = bad
		check.Message = fmt.Sprintf("Could not create request: %s", err)
		return check
	}
	req.Header.Set("User-Agent", provider.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		check.Status = bad
		check.Message = fmt.Sprintf("%s server unreachable at %s", p.DisplayName(), origin)
		if p == model.ProviderLocal {
			check.Fix = "Start the local server and load a model, or set CHATSTUDIO_LOCAL_ENDPOINT"
		} else {
			check.Fix = "Check your network connection and CHATSTUDIO_CLOUD_BASE_URL"
		}
		return check
	}
	resp.Body.Close()

	check.Status = CheckPass
	check.Message = fmt.Sprintf("%s server reachable at %s (model %s)", p.DisplayName(), origin, adapter.Model())
	return check
}

func checkActiveSession(app *App) *HealthCheck {
	check := &HealthCheck{Name: "Active session", Status: CheckPass}
	id := app.Repo.Selection().CurrentSessionID()
	if id == "" {
		check.Message = "No active session; the next message starts one"
		return check
	}
	if s, ok := app.Repo.Get(id); ok {
		check.Message = fmt.Sprintf("Active session: %q", s.Title)
		return check
	}
	check.Status = CheckWarn
	check.Message = "Active session pointer names a deleted session; the next message starts a new one"
	check.Fix = "Run: chatstudio sessions new"
	return check
}

// originOf returns scheme://host/ of an endpoint URL.
func originOf(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q", endpoint)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

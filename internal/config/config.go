// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/provider"
	"github.com/jeranaias/chatstudio/internal/storage"
	"github.com/jeranaias/chatstudio/internal/util"
)

// =============================================================================
// CONFIG STRUCTS
// =============================================================================

// Config is the complete chatstudio configuration. It is read once at
// startup and not changed afterwards.
type Config struct {
	// DefaultProvider is used until a provider has been selected and
	// persisted.
	DefaultProvider string `toml:"default_provider" json:"default_provider"`

	// SystemPrompt is sent as the first message of every request.
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`

	Local   LocalConfig   `toml:"local" json:"local"`
	Cloud   CloudConfig   `toml:"cloud" json:"cloud"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// LocalConfig configures the local inference server.
type LocalConfig struct {
	Endpoint string `toml:"endpoint" json:"endpoint"`
	Model    string `toml:"model" json:"model"`
}

// CloudConfig configures the hosted provider.
type CloudConfig struct {
	APIKey  string `toml:"api_key" json:"api_key"`
	Model   string `toml:"model" json:"model"`
	BaseURL string `toml:"base_url" json:"base_url"`
}

// StorageConfig selects where history is persisted.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend"`

	// Dir is the data directory. Empty means ~/.chatstudio/data.
	Dir string `toml:"dir" json:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level"`

	// File receives JSON log lines in addition to stderr. Empty disables it.
	File string `toml:"file" json:"file"`
}

// DefaultLocalModel is sent to the local server when no model is set. Local
// servers serving a single model accept any identifier.
const DefaultLocalModel = "local-model"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultProvider: string(model.ProviderLocal),
		SystemPrompt:    "You are a helpful AI assistant.",
		Local: LocalConfig{
			Endpoint: provider.DefaultLocalEndpoint,
			Model:    DefaultLocalModel,
		},
		Cloud: CloudConfig{
			Model:   provider.DefaultCloudModel,
			BaseURL: provider.DefaultCloudBaseURL,
		},
		Storage: StorageConfig{
			Backend: storage.KindFile,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatstudio configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatstudio"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryFile returns the REPL line history path.
func HistoryFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// DataDir returns the directory history is stored in.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return expandHome(c.Storage.Dir)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ensureSecurePermissions tightens a config file holding an API key to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.chatstudio/config.toml when it exists, applies environment
// overrides and defaults, and validates the result.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path. A missing file is not an
// error: defaults and environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	} else if !os.IsNotExist(statErr) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, statErr)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current value.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatstudio configuration file\n")
	buf.WriteString("# Generated by chatstudio - edit with care\n")
	buf.WriteString("#\n")
	buf.WriteString("# Environment variables (CHATSTUDIO_*) override these values.\n")
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills empty fields with built-in values and normalizes
// provider aliases.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.DefaultProvider == "" {
		c.DefaultProvider = defaults.DefaultProvider
	} else if p, err := model.ParseProvider(c.DefaultProvider); err == nil {
		c.DefaultProvider = string(p)
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = defaults.SystemPrompt
	}
	if c.Local.Endpoint == "" {
		c.Local.Endpoint = defaults.Local.Endpoint
	}
	if c.Local.Model == "" {
		c.Local.Model = defaults.Local.Model
	}
	if c.Cloud.Model == "" {
		c.Cloud.Model = defaults.Cloud.Model
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = defaults.Cloud.BaseURL
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks values that would break startup. A missing cloud API key
// is not an error here: it surfaces as a configuration failure when the
// cloud provider is used.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := model.ParseProvider(c.DefaultProvider); err != nil {
		errs = append(errs, ValidationError{Field: "default_provider", Message: err.Error()})
	}
	if c.Local.Endpoint != "" && !isHTTPURL(c.Local.Endpoint) {
		errs = append(errs, ValidationError{
			Field:   "local.endpoint",
			Message: fmt.Sprintf("must be an http or https URL, got %q", c.Local.Endpoint),
		})
	}
	if c.Cloud.BaseURL != "" && !isHTTPURL(c.Cloud.BaseURL) {
		errs = append(errs, ValidationError{
			Field:   "cloud.base_url",
			Message: fmt.Sprintf("must be an http or https URL, got %q", c.Cloud.BaseURL),
		})
	}
	switch c.Storage.Backend {
	case "", storage.KindFile, storage.KindSQLite, storage.KindMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be file, sqlite or memory, got %q", c.Storage.Backend),
		})
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATSTUDIO_LOCAL_ENDPOINT (or LM_STUDIO_API_ENDPOINT): local.endpoint
//   - CHATSTUDIO_LOCAL_MODEL: local.model
//   - CHATSTUDIO_CLOUD_API_KEY (or NVIDIA_API_KEY): cloud.api_key
//   - CHATSTUDIO_CLOUD_MODEL: cloud.model
//   - CHATSTUDIO_CLOUD_BASE_URL: cloud.base_url
//   - CHATSTUDIO_PROVIDER: default_provider
//   - CHATSTUDIO_STORAGE_BACKEND: storage.backend
//   - CHATSTUDIO_DATA_DIR: storage.dir
//   - CHATSTUDIO_LOG_LEVEL: log.level
//   - CHATSTUDIO_LOG_FILE: log.file
//
// The CHATSTUDIO_ name wins when both it and its alias are set.
func (c *Config) ApplyEnvOverrides() {
	if v := firstEnv("CHATSTUDIO_LOCAL_ENDPOINT", "LM_STUDIO_API_ENDPOINT"); v != "" {
		c.Local.Endpoint = v
	}
	if v := os.Getenv("CHATSTUDIO_LOCAL_MODEL"); v != "" {
		c.Local.Model = v
	}
	if v := firstEnv("CHATSTUDIO_CLOUD_API_KEY", "NVIDIA_API_KEY"); v != "" {
		c.Cloud.APIKey = v
	}
	if v := os.Getenv("CHATSTUDIO_CLOUD_MODEL"); v != "" {
		c.Cloud.Model = v
	}
	if v := os.Getenv("CHATSTUDIO_CLOUD_BASE_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("CHATSTUDIO_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}
	if v := os.Getenv("CHATSTUDIO_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("CHATSTUDIO_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("CHATSTUDIO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CHATSTUDIO_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Provider returns the configured default provider.
func (c *Config) Provider() model.Provider {
	p, err := model.ParseProvider(c.DefaultProvider)
	if err != nil {
		return model.ProviderLocal
	}
	return p
}

// ProviderSettings returns the adapter settings for both providers.
func (c *Config) ProviderSettings() provider.Settings {
	return provider.Settings{
		LocalEndpoint: c.Local.Endpoint,
		LocalModel:    c.Local.Model,
		CloudBaseURL:  c.Cloud.BaseURL,
		CloudAPIKey:   c.Cloud.APIKey,
		CloudModel:    c.Cloud.Model,
	}
}

// Redacted returns a copy safe to print, with the API key masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Cloud.APIKey != "" {
		out.Cloud.APIKey = maskSecret(out.Cloud.APIKey)
	}
	return &out
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

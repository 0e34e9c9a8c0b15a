// Package telemetry provides opt-in, privacy-first usage analytics.
//
// Telemetry is disabled until the user explicitly opts in. Only anonymous
// usage events are sent; report contents, file paths, and project names
// never leave the machine.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	// ConfigFileName is the telemetry settings file inside the config dir.
	ConfigFileName = "telemetry.json"

	// ConfigDirName is the per-user configuration directory.
	ConfigDirName = ".sessionlens"
)

// configDirOverride allows tests to redirect config storage.
var configDirOverride string

// SetConfigDir overrides the config directory (for testing).
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Config holds the persisted telemetry settings.
type Config struct {
	// Enabled controls whether events are sent.
	Enabled bool `json:"enabled"`

	// ConsentAsked records whether the user has been prompted.
	ConsentAsked bool `json:"consent_asked"`

	// AnonymousID is a random install identifier. It carries no
	// personal information and is never tied to an account.
	AnonymousID string `json:"anonymous_id"`
}

// GetConfigPath returns the path to the telemetry settings file.
func GetConfigPath() (string, error) {
	if configDirOverride != "" {
		return filepath.Join(configDirOverride, ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName), nil
}

// Load reads the telemetry configuration from disk. A missing file yields
// defaults with telemetry disabled and a freshly generated anonymous ID.
func Load() (*Config, error) {
	cfg := &Config{
		Enabled:      false,
		ConsentAsked: false,
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.AnonymousID = uuid.New().String()
			return cfg, nil
		}
		return nil, fmt.Errorf("read telemetry config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse telemetry config: %w", err)
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}

	return cfg, nil
}

// Save writes the telemetry configuration to disk with owner-only
// permissions, creating the config directory if needed.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}

	return nil
}

// Enable turns on telemetry and marks consent as given.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns off telemetry and marks consent as given.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent reports whether the user has not been asked yet.
func (c *Config) NeedsConsent() bool {
	return !c.ConsentAsked
}

// IsEnabled reports whether telemetry is currently on.
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

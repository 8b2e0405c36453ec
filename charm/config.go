// ABOUTME: Connection settings for the Charm KV backend
// ABOUTME: Stored as JSON beside the local KV data; BIZDASH_CHARM_HOST overrides the host

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the charm KV database and the local data directory.
	AppName = "bizdash"

	configFileName = "charm-config.json"
)

type Config struct {
	Host string `json:"host,omitempty"`

	// AutoSync pushes to the server after every Set and Delete.
	AutoSync bool `json:"auto_sync"`

	// StaleThreshold is how old local data may get before a read triggers a sync.
	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

func configPath() string {
	return filepath.Join(xdg.DataHome, AppName, configFileName)
}

// LoadConfig reads the saved settings. A missing file gives defaults; an
// unreadable one is logged and also gives defaults so sync stays usable.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read charm config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Warn("ignoring malformed charm config", "path", configPath(), "err", err)
			cfg = DefaultConfig()
		}
	}

	if host := os.Getenv("BIZDASH_CHARM_HOST"); host != "" {
		cfg.Host = host
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}
	return cfg, nil
}

// Save writes the settings, creating the data directory on first use.
func (c *Config) Save() error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}

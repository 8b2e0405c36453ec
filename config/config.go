// ABOUTME: Application configuration from YAML, .env and environment variables
// ABOUTME: Missing file means defaults; BIZDASH_* variables override the file
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "bizdash"

// Storage backends.
const (
	BackendCharm  = "charm"
	BackendSQLite = "sqlite"
)

type Config struct {
	Backend string    `yaml:"backend"`
	DBPath  string    `yaml:"db_path"`
	Log     LogConfig `yaml:"log"`
	Web     WebConfig `yaml:"web"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WebConfig struct {
	Port int `yaml:"port"`
	// SyncSchedule is a cron spec such as "@every 15m"; empty disables scheduled sync.
	SyncSchedule string `yaml:"sync_schedule"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendCharm,
		DBPath:  filepath.Join(xdg.DataHome, appName, appName+".db"),
		Log:     LogConfig{Level: "info", Format: "text"},
		Web:     WebConfig{Port: 8080},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/bizdash/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), then applies
// a .env file from the working directory and BIZDASH_* overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BIZDASH_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("BIZDASH_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BIZDASH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BIZDASH_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("BIZDASH_WEB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BIZDASH_WEB_PORT %q: %w", v, err)
		}
		c.Web.Port = port
	}
	if v, ok := os.LookupEnv("BIZDASH_SYNC_SCHEDULE"); ok {
		c.Web.SyncSchedule = v
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := Default()
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Web.Port == 0 {
		c.Web.Port = def.Web.Port
	}
}

// Validate rejects unknown backends and out-of-range ports.
func (c *Config) Validate() error {
	if c.Backend != BackendCharm && c.Backend != BackendSQLite {
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendCharm, BackendSQLite)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	return nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

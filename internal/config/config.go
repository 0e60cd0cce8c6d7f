// Package config holds eduportal client configuration: defaults, an optional
// YAML file, an optional .env file and EDUPORTAL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by ApplyEnv.
const (
	EnvLocation    = "EDUPORTAL_LOCATION"
	EnvAPIURL      = "EDUPORTAL_API_URL"
	EnvStorePath   = "EDUPORTAL_STORE"
	EnvStoreDriver = "EDUPORTAL_STORE_DRIVER"
	EnvTimeout     = "EDUPORTAL_TIMEOUT"
	EnvSessionTTL  = "EDUPORTAL_SESSION_TTL"
	EnvLogLevel    = "EDUPORTAL_LOG_LEVEL"
	EnvLogFormat   = "EDUPORTAL_LOG_FORMAT"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// ClientConfig holds configuration for the eduportal client.
type ClientConfig struct {
	Location    string        `yaml:"location"`     // Page URL the backend address is resolved from
	APIBaseURL  string        `yaml:"api_base_url"` // Overrides the resolved backend address when set
	StoreDriver string        `yaml:"store_driver"` // sqlite, bolt or memory
	StorePath   string        `yaml:"store_path"`   // Durable storage file (default ~/.eduportal/storage.db)
	Timeout     time.Duration `yaml:"timeout"`      // Per-request timeout
	SessionTTL  time.Duration `yaml:"session_ttl"`  // Lifetime of a persisted session
	LogLevel    string        `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // text, json
}

// DefaultClientConfig returns sensible defaults. The default location points
// at the local backend port, which resolves to same-origin requests.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Location:    "http://localhost:5001/",
		StoreDriver: DriverSQLite,
		StorePath:   defaultStorePath(),
		Timeout:     15 * time.Second,
		SessionTTL:  24 * time.Hour,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "eduportal.db"
	}
	return filepath.Join(home, ".eduportal", "storage.db")
}

// LoadFile reads a YAML config file on top of the defaults. Fields absent
// from the file keep their default values.
func LoadFile(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from EDUPORTAL_* variables looked up with getenv.
func (c *ClientConfig) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLocation); v != "" {
		c.Location = v
	}
	if v := getenv(EnvAPIURL); v != "" {
		c.APIBaseURL = v
	}
	if v := getenv(EnvStorePath); v != "" {
		c.StorePath = v
	}
	if v := getenv(EnvStoreDriver); v != "" {
		c.StoreDriver = strings.ToLower(v)
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getenv(EnvSessionTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSessionTTL, err)
		}
		c.SessionTTL = d
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate reports configuration values the client cannot work with.
func (c ClientConfig) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverBolt, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q (want sqlite, bolt or memory)", c.StoreDriver)
	}
	if c.StoreDriver != DriverMemory && c.StorePath == "" {
		return fmt.Errorf("store path is required for driver %q", c.StoreDriver)
	}
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

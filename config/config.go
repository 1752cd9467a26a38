package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	coretypes "github.com/projecteru2/core/types"
)

const (
	// DefaultMaxBytes caps a single image body held in memory (64 MiB).
	DefaultMaxBytes int64 = 64 << 20
	// DefaultFetchTimeout bounds one HTTP request; zero disables it.
	DefaultFetchTimeout = 2 * time.Minute
)

// Config holds global preload configuration.
type Config struct {
	// Preload is the session configuration handed to the loader.
	Preload Options `json:"preload" mapstructure:"preload"`
	// Fetch configures how locators are turned into bytes.
	Fetch FetchConfig `json:"fetch" mapstructure:"fetch"`
	// Log configuration, uses eru core's ServerLogConfig.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// FetchConfig configures the HTTP and file fetchers.
type FetchConfig struct {
	// MaxBytes is the largest body accepted per image.
	MaxBytes int64 `json:"max_bytes" mapstructure:"max_bytes"`
	// Timeout bounds one HTTP request including the body read.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// Headers are added to every HTTP request.
	Headers map[string]string `json:"headers" mapstructure:"headers"`
	// UserAgent overrides Go's default User-Agent when non-empty.
	UserAgent string `json:"user_agent" mapstructure:"user_agent"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Preload: DefaultOptions(),
		Fetch: FetchConfig{
			MaxBytes: DefaultMaxBytes,
			Timeout:  DefaultFetchTimeout,
		},
		Log: coretypes.ServerLogConfig{
			Level:      "info",
			MaxSize:    500,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads a JSON configuration file, falling back to defaults.
// The CLI goes through viper instead; this is for library users.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path from caller
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	conf.Normalize()
	return conf, nil
}

// Normalize replaces invalid or missing values with defaults.
func (c *Config) Normalize() {
	c.Preload = c.Preload.WithDefaults()
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = DefaultMaxBytes
	}
	if c.Fetch.Timeout < 0 {
		c.Fetch.Timeout = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Package main provides the GridWatch server CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	ArcGIS   ArcGISConfig   `yaml:"arcgis"`
	Sync     SyncConfig     `yaml:"sync"`
	Auth     AuthConfig     `yaml:"auth"`
	Verbose  bool           `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPAddress    string `yaml:"http_address"`    // HTTP API listen address (default: :8080)
	MetricsAddress string `yaml:"metrics_address"` // Prometheus metrics listen address (default: :9091)
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// ArcGISConfig contains feature service settings.
type ArcGISConfig struct {
	FeatureURL string        `yaml:"feature_url"` // ArcGIS feature layer URL
	Timeout    time.Duration `yaml:"timeout"`     // HTTP timeout per request (default: 30s)
}

// SyncConfig contains synchronization settings.
type SyncConfig struct {
	Interval   time.Duration `yaml:"interval"`     // time between scheduled sync passes (default: 5m)
	RunOnStart bool          `yaml:"run_on_start"` // run a sync pass immediately at startup
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"` // JWT lifetime (default: 15m)
	RateLimitPerIP int           `yaml:"rate_limit_per_ip"` // login attempts per minute per IP (default: 10)
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9091"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/gridwatch.db"
	}
	if c.ArcGIS.Timeout == 0 {
		c.ArcGIS.Timeout = 30 * time.Second
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RateLimitPerIP == 0 {
		c.Auth.RateLimitPerIP = 10
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.ArcGIS.FeatureURL == "" {
		return fmt.Errorf("arcgis.feature_url is required")
	}
	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("sync.interval must be at least 1 minute")
	}
	if c.Auth.AccessTokenTTL < time.Minute {
		return fmt.Errorf("auth.access_token_ttl must be at least 1 minute")
	}
	return nil
}

package main

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPAddress != ":8080" {
		t.Errorf("http address = %q, want :8080", cfg.Server.HTTPAddress)
	}
	if cfg.Sync.Interval != 5*time.Minute {
		t.Errorf("sync interval = %v, want 5m", cfg.Sync.Interval)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access token ttl = %v, want 15m", cfg.Auth.AccessTokenTTL)
	}
}

func TestConfigValidate_RequiresFeatureURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArcGIS.FeatureURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when arcgis.feature_url is missing")
	}
}

func TestConfigValidate_RejectsShortSyncInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArcGIS.FeatureURL = "https://example.com/FeatureServer/0"
	cfg.Sync.Interval = 10 * time.Second

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for sync.interval below 1 minute")
	}
}

func TestConfigValidate_AcceptsCompleteConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArcGIS.FeatureURL = "https://example.com/FeatureServer/0"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
}

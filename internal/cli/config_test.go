package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.App.Name != "sharecard" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.App.OutputDir != "." {
		t.Errorf("App.OutputDir = %q", cfg.App.OutputDir)
	}
	if cfg.Service.URL == "" || cfg.Service.Listen == "" {
		t.Error("service defaults should be populated")
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("Cache.TTL() = %v", cfg.Cache.TTL())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.App.Name != "sharecard" {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
name = "myapp"
output_dir = "/tmp/cards"

[service]
url = "https://activities.example.com"

[cache]
ttl_hours = 6

[redis]
addr = "localhost:6379"

[mongo]
uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.App.Name != "myapp" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.App.OutputDir != "/tmp/cards" {
		t.Errorf("App.OutputDir = %q", cfg.App.OutputDir)
	}
	if cfg.Service.URL != "https://activities.example.com" {
		t.Errorf("Service.URL = %q", cfg.Service.URL)
	}
	// Unset sections keep their defaults.
	if cfg.Service.Listen != ":8480" {
		t.Errorf("Service.Listen = %q, want default", cfg.Service.Listen)
	}
	if cfg.Cache.TTL() != 6*time.Hour {
		t.Errorf("Cache.TTL() = %v", cfg.Cache.TTL())
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "sharecard" {
		t.Errorf("Mongo.Database = %q, want default", cfg.Mongo.Database)
	}
}

func TestLoadConfigInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid toml should error")
	}
}

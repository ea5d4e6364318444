package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", ":memory:")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Cache.CurriculumTTL != 10*time.Minute {
		t.Errorf("curriculum ttl = %v, want 10m", cfg.Cache.CurriculumTTL)
	}
	if got := cfg.Shop.Items["streak_freeze"].Cost; got != 50 {
		t.Errorf("streak_freeze cost = %d, want 50", got)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("config file = %q, want empty when no file exists", cfg.ConfigFile)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
  mode: release
database:
  driver: sqlite
  path: ":memory:"
shop:
  items:
    heart_refill:
      cost: 15
      item_type: consumable
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if got := cfg.Shop.Items["heart_refill"].Cost; got != 15 {
		t.Errorf("heart_refill cost = %d, want 15", got)
	}
	if !strings.HasSuffix(cfg.ConfigFile, "config.yaml") {
		t.Errorf("config file = %q", cfg.ConfigFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite"},
			Shop: ShopConfig{Items: map[string]ShopItemConfig{
				"streak_freeze": {Cost: 50, ItemType: "consumable"},
			}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "database driver"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server mode"},
		{"free item", func(c *Config) { c.Shop.Items["free"] = ShopItemConfig{Cost: 0, ItemType: "consumable"} }, "positive cost"},
		{"missing type", func(c *Config) { c.Shop.Items["odd"] = ShopItemConfig{Cost: 5} }, "item_type"},
		{"rate limit without window", func(c *Config) { c.RateLimit = RateLimitConfig{MaxRequests: 10} }, "window_minutes"},
		{"rate limit disabled", func(c *Config) { c.RateLimit = RateLimitConfig{} }, ""},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log level"},
		{"short secret in release", func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "short"
		}, "too short"},
		{"short secret in debug", func(c *Config) { c.JWT.Secret = "short" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSub == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("error = %v, want containing %q", err, tt.errSub)
			}
		})
	}
}

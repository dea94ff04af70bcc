package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HARVESTER_DB_PATH", "")
	t.Setenv("HARVESTER_PORT", "")
	t.Setenv("HARVEST_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "./data/harvest.db" {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.Port != 8090 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HARVESTER_DB_PATH", "/tmp/h.db")
	t.Setenv("HARVESTER_PORT", "9000")
	t.Setenv("HARVEST_TIMEOUT", "2s")
	t.Setenv("TRENDS_API_URL", "http://trends.local/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DBPath != "/tmp/h.db" || cfg.Port != 9000 || cfg.Timeout != 2*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.TrendsURL != "http://trends.local/api" {
		t.Fatalf("unexpected trends URL: %s", cfg.TrendsURL)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("HARVEST_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid HARVEST_TIMEOUT")
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("HARVEST_TIMEOUT", "")
	t.Setenv("HARVESTER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid HARVESTER_PORT")
	}
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ONBOARD_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "pretty" || cfg.Flows.Dir != "flows" || !cfg.Store.Enabled {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("expected warn level, got %v", cfg.SlogLevel())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "onboard.yaml")
	data := []byte("log:\n  level: debug\nflows:\n  dir: /srv/flows\noutput:\n  format: json\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ONBOARD_OUTPUT_FORMAT", "form")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Flows.Dir != "/srv/flows" {
		t.Fatalf("expected file value, got %q", cfg.Flows.Dir)
	}
	if cfg.Output.Format != "form" {
		t.Fatalf("expected env override, got %q", cfg.Output.Format)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", cfg.SlogLevel())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "loud"}}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("expected fallback to warn")
	}
}

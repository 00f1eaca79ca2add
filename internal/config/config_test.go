package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"MYFETCH_ICONS", "MYFETCH_COLORS", "NO_COLOR", "MYFETCH_TOP_LIMIT", "MYFETCH_COMMAND_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadPreferences(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config")
	data := `{"icons": true, "colors": false, "top_limit": 8, "command_timeout": "500ms"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Icons || cfg.Colors || cfg.TopLimit != 8 || cfg.CommandTimeout != 500*time.Millisecond {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadMalformedKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYFETCH_ICONS", "1")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("MYFETCH_TOP_LIMIT", "3")
	t.Setenv("MYFETCH_COMMAND_TIMEOUT", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Icons || cfg.Colors || cfg.TopLimit != 3 || cfg.CommandTimeout != 5*time.Second {
		t.Errorf("got %+v", cfg)
	}
}

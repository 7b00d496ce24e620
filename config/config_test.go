package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "promptloom.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 8750 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Preview.DebounceMS != 300 {
		t.Errorf("preview.debounce_ms = %d", cfg.Preview.DebounceMS)
	}
	if !cfg.Macros.Watch {
		t.Error("macros.watch default must be true")
	}
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("Load must return the cached instance")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "promptloom.toml")
	content := `
[database]
path = "custom.db"

[server]
port = 9000

[macros]
dir = "my-macros"
watch = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Database.Path != "custom.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Macros.Watch {
		t.Error("macros.watch must be overridden to false")
	}
	// Unset keys keep their defaults
	if cfg.Preview.DebounceMS != 300 {
		t.Errorf("preview.debounce_ms = %d", cfg.Preview.DebounceMS)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing file must fail")
	}
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("PROMPTLOOM_SERVER_PORT", "7171")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7171 {
		t.Errorf("server.port = %d, want env override 7171", cfg.Server.Port)
	}
}

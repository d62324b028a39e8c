package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genforge/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	if cfg.Generation.Backend != "ollama" {
		t.Fatalf("expected default backend ollama, got %q", cfg.Generation.Backend)
	}
	if cfg.Generation.DeadlineSeconds != 300 {
		t.Fatalf("expected default deadline 300, got %d", cfg.Generation.DeadlineSeconds)
	}
	if cfg.Coordinator.StoreRetryAttempts != 3 {
		t.Fatalf("expected default retry attempts 3, got %d", cfg.Coordinator.StoreRetryAttempts)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected data dir to be absolute, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[generation]
backend = " Chat "
deadline_seconds = 30

[backends.ollama]
base_url = "http://localhost:11434/"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Generation.Backend != "chat" {
		t.Fatalf("expected normalized backend chat, got %q", cfg.Generation.Backend)
	}
	if cfg.Generation.DeadlineSeconds != 30 {
		t.Fatalf("expected deadline 30, got %d", cfg.Generation.DeadlineSeconds)
	}
	if strings.HasSuffix(cfg.Backends.Ollama.BaseURL, "/") {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backends.Ollama.BaseURL)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[generation]
backend = "mainframe"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown backend to be rejected")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
format = "xml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected invalid log format to be rejected")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[generation]") {
		t.Fatal("expected sample config to document the generation section")
	}
}

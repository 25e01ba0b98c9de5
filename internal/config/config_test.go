package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easel/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("EASEL_API_KEY", "env-key")

	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file to be reported as absent")
	}
	if cfg.Remote.APIKey != "env-key" {
		t.Fatalf("expected api key from environment, got %q", cfg.Remote.APIKey)
	}
	if cfg.Remote.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Fatalf("unexpected base url: %q", cfg.Remote.BaseURL)
	}
	if cfg.Workflow.RefreshInterval != 30 {
		t.Fatalf("unexpected refresh interval: %d", cfg.Workflow.RefreshInterval)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected expanded data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		`canvas_dir = "` + filepath.Join(dir, "canvas") + `"`,
		"[remote]",
		`api_key = "file-key"`,
		`base_url = "https://example.test/"`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Remote.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.Remote.APIKey)
	}
	if cfg.Remote.BaseURL != "https://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Remote.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowered log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("EASEL_API_KEY", "")

	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error when remote.api_key is absent")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative refresh interval", func(c *config.Config) { c.Workflow.RefreshInterval = -1 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
		{"empty image model", func(c *config.Config) { c.Remote.ImageModel = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Remote.APIKey = "test"
			cfg.Logging.Format = "console"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[remote]") {
		t.Fatal("sample config missing [remote] section")
	}
}

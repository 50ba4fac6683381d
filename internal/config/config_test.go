package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CATALOG_PATH", "")

	cfg := FromEnv()
	if cfg.Port != "3001" {
		t.Errorf("Expected default port 3001, got %s", cfg.Port)
	}
	if cfg.CatalogPath != "" {
		t.Errorf("Expected empty catalog path, got %s", cfg.CatalogPath)
	}
}

func TestLoadYAMLOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MEDIA_URL", "https://env.invalid")

	path := filepath.Join(t.TempDir(), "nomnom.yaml")
	content := `
port: "4000"
catalog_path: /var/lib/nomnom/tags.db
media:
  url: https://file.invalid
  api_key: key
  api_secret: secret
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "4000" {
		t.Errorf("Expected file port 4000, got %s", cfg.Port)
	}
	if cfg.Media.URL != "https://file.invalid" {
		t.Errorf("Expected file media url, got %s", cfg.Media.URL)
	}
	if cfg.CatalogPath != "/var/lib/nomnom/tags.db" {
		t.Errorf("Expected file catalog path, got %s", cfg.CatalogPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

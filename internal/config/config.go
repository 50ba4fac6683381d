// Package config loads server settings from the environment, optionally
// overridden by a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration. Zero values fall back to in-memory
// stores, which is what tests and local development want.
type Config struct {
	Port string `yaml:"port"`

	// CatalogPath is the sqlite file backing the tag catalog. Empty keeps
	// the catalog in memory.
	CatalogPath string `yaml:"catalog_path"`

	Media MediaConfig `yaml:"media"`
}

// MediaConfig points at the hosted media service. An empty URL keeps assets
// in memory.
type MediaConfig struct {
	URL       string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		Media: MediaConfig{
			URL:       os.Getenv("MEDIA_URL"),
			APIKey:    os.Getenv("MEDIA_API_KEY"),
			APISecret: os.Getenv("MEDIA_API_SECRET"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	return cfg
}

// Load returns FromEnv merged with the YAML file at path, when path is
// non-empty. File values win over environment values.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	return cfg, nil
}

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the vigil tool.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Docs      DocsConfig      `yaml:"docs"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
}

// CatalogConfig holds policy-file discovery configuration.
type CatalogConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// DocsConfig holds auxiliary document corpus configuration.
type DocsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // relative to the workspace root
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "local" or "remote"
}

// SearchConfig holds retrieval configuration.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Includes: []string{
				"**/PolicyFile_*.json",
				"**/PolicyFile_*.jsonc",
			},
			Excludes: []string{
				"**/node_modules/**",
				"**/.git/**",
				"**/.vigil/**",
			},
		},
		Docs: DocsConfig{
			Enabled: false,
			Dir:     "docs",
		},
		Embedding: EmbeddingConfig{
			Provider: "local",
		},
		Search: SearchConfig{
			TopK: 10,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for vigil.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "vigil.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".vigil", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexFilePath returns the path to the persisted embedding index.
func IndexFilePath(dir string) string {
	return filepath.Join(dir, ".vigil", "index.json")
}

// DocsPath resolves the configured docs directory against the workspace.
func (c *Config) DocsPath(dir string) string {
	if filepath.IsAbs(c.Docs.Dir) {
		return c.Docs.Dir
	}
	return filepath.Join(dir, c.Docs.Dir)
}

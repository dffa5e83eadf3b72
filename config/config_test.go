package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Embedding.Provider != "local" {
		t.Errorf("expected provider=local, got %s", cfg.Embedding.Provider)
	}
	if cfg.Search.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Search.TopK)
	}
	if cfg.Docs.Enabled {
		t.Error("expected docs ingestion disabled by default")
	}
	if len(cfg.Catalog.Includes) == 0 {
		t.Error("expected default include patterns")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vigil.yaml")

	content := `
embedding:
  provider: remote
docs:
  enabled: true
  dir: runbooks
search:
  top_k: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Embedding.Provider != "remote" {
		t.Errorf("expected provider=remote, got %s", cfg.Embedding.Provider)
	}
	if !cfg.Docs.Enabled || cfg.Docs.Dir != "runbooks" {
		t.Errorf("unexpected docs config: %+v", cfg.Docs)
	}
	if cfg.Search.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Search.TopK)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vigil.yaml")

	content := `
search:
  top_k: 25
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Search.TopK != 25 {
		t.Errorf("expected TopK=25, got %d", cfg.Search.TopK)
	}
}

func TestIndexFilePath(t *testing.T) {
	path := IndexFilePath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".vigil", "index.json")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestDocsPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DocsPath("/ws"); got != filepath.Join("/ws", "docs") {
		t.Errorf("unexpected docs path: %s", got)
	}
	cfg.Docs.Dir = "/abs/docs"
	if got := cfg.DocsPath("/ws"); got != "/abs/docs" {
		t.Errorf("absolute docs dir must win: %s", got)
	}
}

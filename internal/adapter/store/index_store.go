package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vigil/internal/domain"
)

// IndexStore persists the embedding index as a single versioned JSON
// artifact and fronts it with an in-memory copy. The in-memory index is
// replaced wholesale by a single assignment; there is no partial
// invalidation.
type IndexStore struct {
	path  string
	index *domain.IndexFile
}

func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Path returns the on-disk location of the index artifact.
func (s *IndexStore) Path() string {
	return s.path
}

// Index returns the in-memory index, or nil when none is loaded.
func (s *IndexStore) Index() *domain.IndexFile {
	return s.index
}

// SetIndex adopts a freshly built index as the in-memory copy.
func (s *IndexStore) SetIndex(idx *domain.IndexFile) {
	s.index = idx
}

// Persist serializes the index to the store's path, creating the
// containing directory if absent and overwriting any existing file.
func (s *IndexStore) Persist(idx *domain.IndexFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// LoadIfAbsent makes the index available in memory if it can. It returns
// true immediately when an in-memory copy already exists. Otherwise it
// reads the persisted file; a missing, unreadable, malformed,
// version-mismatched or dimensionless file is treated as absence, not an
// error, and any existing in-memory index is left untouched.
func (s *IndexStore) LoadIfAbsent() bool {
	if s.index != nil {
		return true
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	var idx domain.IndexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return false
	}
	if idx.Version != domain.FormatVersion || idx.Dims <= 0 {
		return false
	}

	s.index = &idx
	return true
}

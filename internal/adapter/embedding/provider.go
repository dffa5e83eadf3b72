package embedding

import (
	"fmt"

	"vigil/internal/port"
)

// Dimensionalities declared by the embedding providers. Vectors produced
// at different dimensionalities are not comparable; the index records the
// dimensionality it was built with.
const (
	LocalDimension  = 128
	RemoteDimension = 1536
)

// LocalEmbedder produces deterministic hash-based embeddings entirely
// offline.
type LocalEmbedder struct {
	dimension int
}

func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{dimension: LocalDimension}
}

func (e *LocalEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = Embed(text, e.dimension)
	}
	return embeddings, nil
}

func (e *LocalEmbedder) Dimension() int {
	return e.dimension
}

func (e *LocalEmbedder) ModelName() string {
	return "hash-local"
}

// RemoteEmbedder is a placeholder for a network-backed embedding
// service. It applies the same deterministic hashing at the remote
// model's dimensionality; no network I/O occurs.
type RemoteEmbedder struct {
	dimension int
}

func NewRemoteEmbedder() *RemoteEmbedder {
	return &RemoteEmbedder{dimension: RemoteDimension}
}

func (e *RemoteEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = Embed(text, e.dimension)
	}
	return embeddings, nil
}

func (e *RemoteEmbedder) Dimension() int {
	return e.dimension
}

func (e *RemoteEmbedder) ModelName() string {
	return "hash-remote-stub"
}

// New creates the embedder selected by the configured provider name.
func New(provider string) (port.Embedder, error) {
	switch provider {
	case "local", "":
		return NewLocalEmbedder(), nil
	case "remote":
		return NewRemoteEmbedder(), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

package domain

import "time"

// Record kinds, tagging provenance of an indexed item.
const (
	KindPolicy = "policy"
	KindEvent  = "event"
	KindDoc    = "doc"
)

// FormatVersion is the embedding index file format version. A persisted
// index with any other version is treated as absent and must be rebuilt.
const FormatVersion = 1

// Record is one retrievable unit of the embedding index.
type Record struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	ResourceType string            `json:"resourceType,omitempty"`
	Text         string            `json:"text"`
	Vector       []float32         `json:"vector"`
	Meta         map[string]string `json:"meta,omitempty"`
}

// IndexFile is the persisted aggregate. Every vector in Records has
// length Dims.
type IndexFile struct {
	Version int       `json:"version"`
	Created time.Time `json:"created"`
	Dims    int       `json:"dims"`
	Records []Record  `json:"records"`
}

// SearchResult is a scored record returned to callers.
type SearchResult struct {
	ID    string            `json:"id"`
	Score float64           `json:"score"`
	Text  string            `json:"text"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Event is one health event declared inside a policy file.
type Event struct {
	EventID    string
	Title      string
	ReasonType string
}

// Policy is one entry of the content-index snapshot the builder consumes.
type Policy struct {
	File   string
	Events []Event
}

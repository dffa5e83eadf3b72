package usecase

import (
	"errors"
	"math"
	"sort"
	"strings"

	"vigil/internal/adapter/embedding"
	"vigil/internal/adapter/store"
	"vigil/internal/domain"
)

// ErrIndexNotLoaded is returned when search is invoked with no in-memory
// index and no loadable persisted file. Callers are expected to trigger a
// rebuild.
var ErrIndexNotLoaded = errors.New("embedding index not loaded")

// Thresholds of the event-finder post-filter.
const (
	eventQuerySuffix    = "event"
	eventScoreThreshold = 0.20
	eventFallbackLimit  = 5
)

// SearchOptions narrows the candidate set before scoring.
type SearchOptions struct {
	// Kinds, when non-empty, keeps only records of these kinds.
	Kinds []string
	// ResourceType, when set, drops records whose resource type differs
	// from it case-insensitively. Records without a resource type are
	// never dropped by this hint.
	ResourceType string
}

// EventMatches is the event finder's outcome. LowConfidence marks the
// fallback path where the post-filter removed every candidate.
type EventMatches struct {
	Results       []domain.SearchResult `json:"results"`
	LowConfidence bool                  `json:"lowConfidence"`
}

// SearchUseCase ranks index records against a query by cosine similarity.
type SearchUseCase struct {
	store *store.IndexStore
}

func NewSearchUseCase(store *store.IndexStore) *SearchUseCase {
	return &SearchUseCase{store: store}
}

// Search embeds the query at the loaded index's dimensionality and
// returns the top limit surviving records, sorted by descending score
// with ascending id as the tie-break.
func (u *SearchUseCase) Search(query string, limit int, opts SearchOptions) ([]domain.SearchResult, error) {
	if !u.store.LoadIfAbsent() {
		return nil, ErrIndexNotLoaded
	}
	idx := u.store.Index()

	// The query must be embedded with the index's stored dims, not the
	// currently configured provider's, to keep vectors comparable.
	queryVec := embedding.Embed(query, idx.Dims)

	var kinds map[string]struct{}
	if len(opts.Kinds) > 0 {
		kinds = make(map[string]struct{}, len(opts.Kinds))
		for _, k := range opts.Kinds {
			kinds[k] = struct{}{}
		}
	}

	results := make([]domain.SearchResult, 0, len(idx.Records))
	for i := range idx.Records {
		rec := &idx.Records[i]
		if kinds != nil {
			if _, ok := kinds[rec.Kind]; !ok {
				continue
			}
		}
		if opts.ResourceType != "" && rec.ResourceType != "" &&
			!strings.EqualFold(opts.ResourceType, rec.ResourceType) {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:    rec.ID,
			Score: cosineSimilarity(queryVec, rec.Vector),
			Text:  rec.Text,
			Meta:  rec.Meta,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// FindEvents searches event records for a free-text phrase. The query is
// biased toward the event neighborhood by a fixed suffix keyword, and
// results are retained only when they share a token with the phrase or
// clear the score threshold; if nothing survives, the unfiltered top few
// are returned flagged as low confidence.
func (u *SearchUseCase) FindEvents(phrase string, limit int) (*EventMatches, error) {
	results, err := u.Search(phrase+" "+eventQuerySuffix, limit, SearchOptions{
		Kinds: []string{domain.KindEvent},
	})
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.ToLower(phrase))
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score > eventScoreThreshold || containsAnyToken(r.Text, tokens) {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) > 0 {
		return &EventMatches{Results: filtered}, nil
	}

	fallback := results
	if len(fallback) > eventFallbackLimit {
		fallback = fallback[:eventFallbackLimit]
	}
	return &EventMatches{Results: fallback, LowConfidence: true}, nil
}

func containsAnyToken(text string, tokens []string) bool {
	lower := strings.ToLower(text)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// cosineSimilarity is the dot product over the product of norms; when
// either norm is zero it degenerates to the dot product, which is 0 for
// a zero vector.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return dot
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

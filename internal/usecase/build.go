package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"vigil/internal/domain"
	"vigil/internal/port"
)

// docChunkSize is the fixed character length of auxiliary document
// chunks. The last chunk of a document may be shorter; chunks never
// overlap.
const docChunkSize = 800

// policyFilePattern strips the leading word prefix and json/jsonc suffix
// from a policy file name to recover its resource type, e.g.
// "PolicyFile_Foo.json" -> "Foo".
var policyFilePattern = regexp.MustCompile(`^[A-Za-z]+_(.+)\.jsonc?$`)

// BuildOptions controls one index build.
type BuildOptions struct {
	// IncludeDocs ingests the auxiliary document corpus from DocsDir.
	IncludeDocs bool
	DocsDir     string
	// Progress, when set, is called after each indexed unit.
	Progress func(processed, total int, current string)
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	Index       *domain.IndexFile
	Policies    int
	Events      int
	DocChunks   int
	DocsSkipped []string
}

// BuildUseCase assembles a versioned embedding index from a content-index
// snapshot. Every build is a full recompute; the produced index replaces
// any previous one wholesale.
type BuildUseCase struct {
	embedder port.Embedder
}

func NewBuildUseCase(embedder port.Embedder) *BuildUseCase {
	return &BuildUseCase{embedder: embedder}
}

// Build produces one record per policy, one per event, and one per
// document chunk when document ingestion is enabled.
func (u *BuildUseCase) Build(policies []domain.Policy, opts BuildOptions) (*BuildResult, error) {
	result := &BuildResult{}
	var records []domain.Record

	docFiles := listDocFiles(opts)
	total := len(policies) + len(docFiles)
	processed := 0
	report := func(current string) {
		processed++
		if opts.Progress != nil {
			opts.Progress(processed, total, current)
		}
	}

	for _, policy := range policies {
		recs, err := u.buildPolicyRecords(policy)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
		result.Policies++
		result.Events += len(policy.Events)
		report(policy.File)
	}

	for _, path := range docFiles {
		recs, err := u.buildDocRecords(path)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			result.DocsSkipped = append(result.DocsSkipped, path)
		}
		records = append(records, recs...)
		result.DocChunks += len(recs)
		report(filepath.Base(path))
	}

	result.Index = &domain.IndexFile{
		Version: domain.FormatVersion,
		Created: time.Now(),
		Dims:    u.embedder.Dimension(),
		Records: records,
	}
	return result, nil
}

func (u *BuildUseCase) buildPolicyRecords(policy domain.Policy) ([]domain.Record, error) {
	resourceType := InferResourceType(policy.File)

	policyText := joinFields(policy.File, resourceType)
	vecs, err := u.embedder.Embed([]string{policyText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed policy %s: %w", policy.File, err)
	}

	records := make([]domain.Record, 0, 1+len(policy.Events))
	records = append(records, domain.Record{
		ID:           "policy:" + policy.File,
		Kind:         domain.KindPolicy,
		ResourceType: resourceType,
		Text:         policyText,
		Vector:       vecs[0],
		Meta:         metaFields("file", policy.File),
	})

	if len(policy.Events) == 0 {
		return records, nil
	}

	// All of a policy's event texts go to the provider in one batch.
	texts := make([]string, len(policy.Events))
	for i, ev := range policy.Events {
		texts[i] = joinFields(ev.EventID, ev.Title, ev.ReasonType, resourceType)
	}
	eventVecs, err := u.embedder.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed events of %s: %w", policy.File, err)
	}

	for i, ev := range policy.Events {
		eventID := ev.EventID
		if eventID == "" {
			eventID = "unknown"
		}
		records = append(records, domain.Record{
			ID:           "event:" + policy.File + "#" + eventID,
			Kind:         domain.KindEvent,
			ResourceType: resourceType,
			Text:         texts[i],
			Vector:       eventVecs[i],
			Meta: metaFields(
				"file", policy.File,
				"eventId", ev.EventID,
				"title", ev.Title,
				"reasonType", ev.ReasonType,
			),
		})
	}

	return records, nil
}

// buildDocRecords returns nil (not an empty slice) when the file is
// unreadable; the build continues without it.
func (u *BuildUseCase) buildDocRecords(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}

	chunks := chunkText(string(data), docChunkSize)
	if len(chunks) == 0 {
		return []domain.Record{}, nil
	}

	vecs, err := u.embedder.Embed(chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document %s: %w", path, err)
	}

	name := filepath.Base(path)
	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.Record{
			ID:     fmt.Sprintf("doc:%s#%d", name, i),
			Kind:   domain.KindDoc,
			Text:   chunk,
			Vector: vecs[i],
			Meta:   metaFields("file", name, "chunk", strconv.Itoa(i)),
		}
	}
	return records, nil
}

// listDocFiles enumerates the document corpus. A missing or unreadable
// directory yields no documents, silently.
func listDocFiles(opts BuildOptions) []string {
	if !opts.IncludeDocs || opts.DocsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(opts.DocsDir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(opts.DocsDir, entry.Name()))
	}
	return files
}

// InferResourceType recovers the semantic grouping key from a policy file
// name. An unmatched name yields the empty string.
func InferResourceType(file string) string {
	m := policyFilePattern.FindStringSubmatch(file)
	if m == nil {
		return ""
	}
	return m[1]
}

// chunkText splits text into fixed-size rune chunks without overlap.
func chunkText(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// metaFields builds a meta map from key/value pairs, dropping pairs with
// empty values.
func metaFields(pairs ...string) map[string]string {
	meta := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		meta[pairs[i]] = pairs[i+1]
	}
	return meta
}

// joinFields concatenates non-empty fields with single spaces.
func joinFields(fields ...string) string {
	var out string
	for _, f := range fields {
		if f == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += f
	}
	return out
}

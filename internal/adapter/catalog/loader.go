package catalog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"vigil/internal/domain"
)

// Loader discovers policy definition files and parses them into the
// content-index snapshot consumed by the index builder. Policy files are
// loosely structured JSON/JSONC: comments, trailing commas, byte order
// marks and UTF-16 encodings all occur in the wild and must not break
// the scan.
type Loader struct {
	walker *Walker
}

// Result is a catalog scan outcome. Files that could not be read or
// parsed are listed in Skipped; a skipped file never fails the scan.
type Result struct {
	Policies []domain.Policy
	Skipped  []string
}

func NewLoader(includes, excludes []string) *Loader {
	return &Loader{walker: NewWalker(includes, excludes)}
}

// Load scans root for policy files and returns the parsed snapshot.
func (l *Loader) Load(root string) (*Result, error) {
	paths, err := l.walker.Walk(root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, path := range paths {
		policy, ok := parsePolicyFile(path)
		if !ok {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		result.Policies = append(result.Policies, policy)
	}

	return result, nil
}

// parsePolicyFile reads one policy definition. The second return value is
// false when the file is unreadable or not valid JSON even after JSONC
// sanitizing.
func parsePolicyFile(path string) (domain.Policy, bool) {
	data, err := readTolerant(path)
	if err != nil {
		return domain.Policy{}, false
	}

	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		return domain.Policy{}, false
	}
	doc := gjson.ParseBytes(clean)
	if !doc.IsObject() {
		return domain.Policy{}, false
	}

	policy := domain.Policy{File: filepath.Base(path)}

	events := doc.Get("events")
	if !events.Exists() {
		events = doc.Get("policy.events")
	}
	for _, ev := range events.Array() {
		id := ev.Get("eventId").String()
		if id == "" {
			id = ev.Get("id").String()
		}
		title := ev.Get("title").String()
		if title == "" {
			title = ev.Get("displayName").String()
		}
		policy.Events = append(policy.Events, domain.Event{
			EventID:    id,
			Title:      title,
			ReasonType: ev.Get("reasonType").String(),
		})
	}

	return policy, true
}

// readTolerant reads a file, transcoding UTF-16 (with BOM) to UTF-8 and
// stripping a UTF-8 BOM when present.
func readTolerant(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(f, decoder))
}

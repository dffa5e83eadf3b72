package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadParsesJSONC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PolicyFile_Disk.json"), `{
	// disk pressure policy
	"events": [
		{ "eventId": "DiskFull", "title": "Disk Full", "reasonType": "Unplanned" },
		{ "eventId": "DiskSlow", },
	],
}`)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(result.Policies))
	}
	p := result.Policies[0]
	if p.File != "PolicyFile_Disk.json" {
		t.Errorf("unexpected file name: %s", p.File)
	}
	if len(p.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(p.Events))
	}
	if p.Events[0].EventID != "DiskFull" || p.Events[0].Title != "Disk Full" || p.Events[0].ReasonType != "Unplanned" {
		t.Errorf("unexpected first event: %+v", p.Events[0])
	}
	if p.Events[1].EventID != "DiskSlow" {
		t.Errorf("unexpected second event: %+v", p.Events[1])
	}
}

func TestLoadAlternateFieldNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PolicyFile_Net.json"),
		`{"events":[{"id":"LinkDown","displayName":"Link Down"}]}`)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 || len(result.Policies[0].Events) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	ev := result.Policies[0].Events[0]
	if ev.EventID != "LinkDown" || ev.Title != "Link Down" {
		t.Errorf("alternate field names not honored: %+v", ev)
	}
}

func TestLoadStripsUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	content := "\xef\xbb\xbf" + `{"events":[{"eventId":"Boot"}]}`
	writeFile(t, filepath.Join(dir, "PolicyFile_Host.json"), content)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 {
		t.Fatalf("BOM file should parse, got %d policies (skipped: %v)", len(result.Policies), result.Skipped)
	}
}

func TestLoadDecodesUTF16(t *testing.T) {
	dir := t.TempDir()
	text := `{"events":[{"eventId":"Mem"}]}`
	units := utf16.Encode([]rune(text))
	buf := make([]byte, 2+2*len(units))
	buf[0], buf[1] = 0xFF, 0xFE // UTF-16 LE BOM
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[2+2*i:], u)
	}
	if err := os.WriteFile(filepath.Join(dir, "PolicyFile_Mem.json"), buf, 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 {
		t.Fatalf("UTF-16 file should parse, got %d policies (skipped: %v)", len(result.Policies), result.Skipped)
	}
	if result.Policies[0].Events[0].EventID != "Mem" {
		t.Errorf("unexpected event: %+v", result.Policies[0].Events)
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PolicyFile_Bad.json"), `{"events": [`)
	writeFile(t, filepath.Join(dir, "PolicyFile_Good.json"), `{"events":[]}`)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 {
		t.Errorf("expected 1 parsed policy, got %d", len(result.Policies))
	}
	if len(result.Skipped) != 1 {
		t.Errorf("expected 1 skipped file, got %v", result.Skipped)
	}
}

func TestLoadHonorsExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PolicyFile_Keep.json"), `{"events":[]}`)
	writeFile(t, filepath.Join(dir, "archive", "PolicyFile_Old.json"), `{"events":[]}`)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, []string{"archive/**"})
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 || result.Policies[0].File != "PolicyFile_Keep.json" {
		t.Errorf("excludes not honored: %+v", result.Policies)
	}
}

func TestLoadPolicyWithoutEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PolicyFile_Empty.json"), `{"description":"no events yet"}`)

	loader := NewLoader([]string{"**/PolicyFile_*.json"}, nil)
	result, err := loader.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Policies) != 1 {
		t.Fatalf("policy without events must still load, got %d", len(result.Policies))
	}
	if len(result.Policies[0].Events) != 0 {
		t.Errorf("expected no events, got %+v", result.Policies[0].Events)
	}
}

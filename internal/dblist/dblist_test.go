package dblist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DBs.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp list: %v", err)
	}
	return path
}

func TestParseOrder(t *testing.T) {
	result, err := Parse(strings.NewReader("DB3,3\nDB1,1\nGLOBAL,90\nDB2,2\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []model.DBListEntry{{Name: "DB3", BaseKey: 3}, {Name: "DB1", BaseKey: 1}, {Name: "GLOBAL", BaseKey: 90}, {Name: "DB2", BaseKey: 2}}
	if len(result.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(result.Entries))
	}
	for i, e := range want {
		if result.Entries[i] != e {
			t.Errorf("entry %d: expected %+v, got %+v", i, e, result.Entries[i])
		}
	}
	if result.Count != 4 {
		t.Errorf("expected count 4, got %d", result.Count)
	}
	if len(result.Rejected) != 0 {
		t.Errorf("expected no rejected lines, got %+v", result.Rejected)
	}
}

func TestParseRejectedLines(t *testing.T) {
	content := "DB1,1\nno key here\nDB2,two\n\nDB3,3,extra\n  DB4 , 4 \r\nDB5,-5\n"
	result, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []model.DBListEntry{{Name: "DB1", BaseKey: 1}, {Name: "DB4", BaseKey: 4}, {Name: "DB5", BaseKey: -5}}
	if len(result.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(result.Entries), result.Entries)
	}
	for i, e := range want {
		if result.Entries[i] != e {
			t.Errorf("entry %d: expected %+v, got %+v", i, e, result.Entries[i])
		}
	}

	rejected := map[int]string{2: ReasonFieldCount, 3: ReasonBadKey, 4: ReasonEmpty, 5: ReasonFieldCount}
	if len(result.Rejected) != len(rejected) {
		t.Fatalf("expected %d rejected lines, got %+v", len(rejected), result.Rejected)
	}
	for _, r := range result.Rejected {
		if rejected[r.Line] != r.Reason {
			t.Errorf("line %d: expected reason '%s', got '%s'", r.Line, rejected[r.Line], r.Reason)
		}
	}
	if result.Rejected[1].Text != "DB2,two" {
		t.Errorf("expected rejected text 'DB2,two', got '%s'", result.Rejected[1].Text)
	}
}

func TestParseDuplicates(t *testing.T) {
	result, err := Parse(strings.NewReader("DB1,1\nDB1,1\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("expected duplicate names to be kept, got %d entries", len(result.Entries))
	}
}

func TestParseByteOrderMark(t *testing.T) {
	result, err := Parse(strings.NewReader("\xEF\xBB\xBFDB1,1\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Name != "DB1" {
		t.Errorf("expected BOM to be stripped, got %+v", result.Entries)
	}
}

func TestParseUTF16(t *testing.T) {
	// "DB1,1\n" as UTF-16LE with BOM, as saved by Windows editors.
	content := "\xFF\xFED\x00B\x001\x00,\x001\x00\n\x00"
	result, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0] != (model.DBListEntry{Name: "DB1", BaseKey: 1}) {
		t.Errorf("expected UTF-16 list to decode, got %+v", result.Entries)
	}
}

func TestParseLine(t *testing.T) {
	entry, reason := ParseLine("Motors , 12")
	if reason != "" {
		t.Fatalf("expected line to be accepted, got reason '%s'", reason)
	}
	if entry.Name != "Motors" || entry.BaseKey != 12 {
		t.Errorf("unexpected entry %+v", entry)
	}

	if _, reason := ParseLine("Motors,1.5"); reason != ReasonBadKey {
		t.Errorf("expected '%s', got '%s'", ReasonBadKey, reason)
	}
}

func TestReadFile(t *testing.T) {
	path := writeTempFile(t, "DB1,1\nDB2,2\n")
	result, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("expected 2 entries, got %d", result.Count)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/DBs.txt"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

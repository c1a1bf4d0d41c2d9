package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

func sampleRecords() []*model.CommentRecord {
	return []*model.CommentRecord{
		model.NewCommentRecord("DB1", "Alm", "Group1", 1, 0, "DB1.Alm.Group1.1 > Tank, overflow", 10000),
		model.NewCommentRecord("DB1", "Sign", "Status", 0, 0, "DB1.Sign.Status.0 > Running", 15000),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return rows
}

func TestWriteAlarms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Alarms.csv")
	if err := WriteAlarms(path, sampleRecords()); err != nil {
		t.Fatalf("WriteAlarms failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if diff := cmp.Diff(model.AlarmColumns, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		"DB1.Alm.Group1.1", "", "HMI_DB1.Alm", "Bit", "0", "SimpleEvent", "Tank, overflow",
		"0", "", "", "True", "True", "False",
		"Equal", "", "0", "", "",
		"False", "False", "10000", "False", "ESA",
		"", "0", "",
	}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}

	if rows[2][7] != "1" {
		t.Errorf("expected signal priority '1', got '%s'", rows[2][7])
	}
	if rows[2][20] != "15000" {
		t.Errorf("expected custom key '15000', got '%s'", rows[2][20])
	}
}

func TestWriteAlarmsToEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAlarmsTo(&buf, nil); err != nil {
		t.Fatalf("WriteAlarmsTo failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected only the header, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Name,Folder,Tag,") {
		t.Errorf("unexpected header '%s'", lines[0])
	}
}

func TestWriteAlarmsBadPath(t *testing.T) {
	if err := WriteAlarms("/nonexistent/dir/Alarms.csv", sampleRecords()); err == nil {
		t.Error("expected error for unwritable path, got nil")
	}
}

func TestWriteFindings(t *testing.T) {
	findings := []*model.MissingCommentElement{
		{DBName: "DB1", Structure: "Alm", SubGroup: "G", ElementName: "1", Mismatch: model.MismatchMissing},
		{DBName: "DB1", Structure: "Alm", SubGroup: "G", ElementName: "2", Mismatch: model.MismatchDetected, WrongPrefix: "X"},
	}
	path := filepath.Join(t.TempDir(), "MissingComments.csv")
	if err := WriteFindings(path, findings); err != nil {
		t.Fatalf("WriteFindings failed: %v", err)
	}

	want := [][]string{
		findingsHeader,
		{"DB1", "Alm", "G", "1", "missing comment", ""},
		{"DB1", "Alm", "G", "2", "mismatch detected", "X"},
	}
	if diff := cmp.Diff(want, readCSV(t, path)); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReport(t *testing.T) {
	findings := []*model.MissingCommentElement{
		{DBName: "DB1", Structure: "Alm", SubGroup: "G", ElementName: "1", Mismatch: model.MismatchMissing},
		{DBName: "DB1", Structure: "Alm", SubGroup: "G", ElementName: "2", Mismatch: model.MismatchMissing},
		{DBName: "DB2", Structure: "Sign", SubGroup: "S", ElementName: "0", Mismatch: model.MismatchDetected, WrongPrefix: "Y"},
	}
	report := NewReport("run-1", 2, 10, findings)
	if report.Totals[model.MismatchMissing] != 2 || report.Totals[model.MismatchDetected] != 1 {
		t.Fatalf("unexpected totals %v", report.Totals)
	}

	path := filepath.Join(t.TempDir(), "MissingComments.yaml")
	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var got Report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if got.RunID != "run-1" || got.Documents != 2 || got.Records != 10 {
		t.Errorf("unexpected summary %+v", got)
	}
	if len(got.Findings) != 3 || got.Findings[2].WrongPrefix != "Y" {
		t.Errorf("unexpected findings %+v", got.Findings)
	}
}

func TestNewReportNoFindings(t *testing.T) {
	report := NewReport("run-2", 1, 4, nil)
	if report.Totals[model.MismatchMissing] != 0 || report.Totals[model.MismatchDetected] != 0 {
		t.Errorf("expected zero totals, got %v", report.Totals)
	}
}

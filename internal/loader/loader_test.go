package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadSelectsColumns(t *testing.T) {
	l := New("", "", zap.NewNop())
	data := "Date/Time (UTC),Accuracy,WPM\n2024-01-01 10:00:00,97,61.5\n\n2024-01-02 11:00:00,95,70\n"
	records, err := l.Read(strings.NewReader(data), "mem.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Timestamp != "2024-01-01 10:00:00" || records[0].WPM != "61.5" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[0].Line != 2 || records[1].Line != 4 {
		t.Fatalf("unexpected line numbers: %d %d", records[0].Line, records[1].Line)
	}
	if records[1].Source != "mem.csv" {
		t.Fatalf("unexpected source: %q", records[1].Source)
	}
}

func TestReadCaseInsensitiveHeader(t *testing.T) {
	l := New("When", "Speed", nil)
	records, err := l.Read(strings.NewReader("\ufeff when , SPEED\n2024-01-01,50\n"), "x")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(records) != 1 || records[0].WPM != "50" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestReadMissingColumn(t *testing.T) {
	l := New("", "", nil)
	if _, err := l.Read(strings.NewReader("Date/Time (UTC),Speed\n2024-01-01,50\n"), "x"); err == nil {
		t.Fatalf("expected error for missing WPM column")
	}
	if _, err := l.Read(strings.NewReader(""), "x"); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good1 := writeCSV(t, dir, "a.csv", "Date/Time (UTC),WPM\n2024-01-01 10:00,60\n")
	bad := writeCSV(t, dir, "b.csv", "Timestamp,Score\n2024-01-01,1\n")
	good2 := writeCSV(t, dir, "c.csv", "Date/Time (UTC),WPM\n2024-01-03 10:00,80\n2024-01-04 10:00,82\n")
	missing := filepath.Join(dir, "missing.csv")

	ds, err := New("", "", zap.NewNop()).Load([]string{good1, bad, missing, good2})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Files != 2 {
		t.Fatalf("expected 2 loaded files, got %d", ds.Files)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if len(ds.Skipped) != 2 || ds.Skipped[0] != bad || ds.Skipped[1] != missing {
		t.Fatalf("unexpected skipped files: %v", ds.Skipped)
	}
}

func TestLoadNoData(t *testing.T) {
	dir := t.TempDir()
	bad := writeCSV(t, dir, "b.csv", "nothing here\n")
	if _, err := New("", "", nil).Load([]string{bad}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := New("", "", nil).Load(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for no files, got %v", err)
	}
}

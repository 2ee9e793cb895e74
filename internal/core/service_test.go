package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// AnalyzeImport and the parser dispatch are exercised without a database;
// ProcessImport's persistence path needs a live pool and is covered by
// integration environments.

func TestParseByExtension(t *testing.T) {
	csvData := []byte("first_name,email\nJane,jane@example.com")

	rows, err := parseByExtension("staff.csv", csvData)
	if err != nil {
		t.Fatalf("csv dispatch: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("csv rows = %d, want 2", len(rows))
	}

	// Unknown extensions are treated as delimited text
	rows, err = parseByExtension("staff.txt", csvData)
	if err != nil || len(rows) != 2 {
		t.Errorf("txt dispatch: rows = %d, err = %v", len(rows), err)
	}

	// xlsx extension routes to the workbook parser, which rejects non-zip bytes
	if _, err := parseByExtension("staff.xlsx", csvData); err == nil {
		t.Error("xlsx dispatch accepted delimited text")
	}
}

func TestParseByExtension_UnreadableWorkbook(t *testing.T) {
	_, err := parseByExtension("staff.xlsx", []byte("definitely not a workbook"))
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("err = %v, want ErrUnreadableFile", err)
	}
}

func TestProcessImport_NoDataRows(t *testing.T) {
	// A header-only upload yields a result, not an error, and never opens a
	// transaction; nil pool proves the latter.
	svc := NewService(nil)
	result, err := svc.ProcessImport(context.Background(), "staff.csv",
		[]byte("first_name,last_name,email\n"))
	if err != nil {
		t.Fatalf("ProcessImport: %v", err)
	}
	if result.Error == "" {
		t.Error("result.Error not set for a file with no data rows")
	}
	if result.TotalRows != 0 || result.Imported != 0 {
		t.Errorf("TotalRows = %d, Imported = %d, want 0, 0", result.TotalRows, result.Imported)
	}
	if result.ImportID == "" {
		t.Error("result.ImportID missing")
	}
}

func TestAnalyzeImport(t *testing.T) {
	input := "first_name,last_name,email,start_date,department,job_role\n" +
		"Jane,Doe,jane@example.com,2024-01-15,Engineering,Developer\n" +
		"John,Smith,not-an-email,2024-02-01,Engineering,Developer\n" +
		",,,,,\n" +
		"Amy,Pond,amy@example.com,2024-03-01,Support,Agent\n"

	svc := NewService(nil)
	resp, err := svc.AnalyzeImport(context.Background(), "staff.csv", []byte(input))
	if err != nil {
		t.Fatalf("AnalyzeImport: %v", err)
	}

	if resp.Summary.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", resp.Summary.TotalRows)
	}
	if resp.Summary.ValidRows != 2 {
		t.Errorf("ValidRows = %d, want 2", resp.Summary.ValidRows)
	}
	if resp.Summary.ErrorRows != 1 {
		t.Errorf("ErrorRows = %d, want 1", resp.Summary.ErrorRows)
	}
	if resp.Summary.EmptyRows != 1 {
		t.Errorf("EmptyRows = %d, want 1", resp.Summary.EmptyRows)
	}

	if len(resp.ErrorSamples) != 1 {
		t.Fatalf("ErrorSamples = %d, want 1", len(resp.ErrorSamples))
	}
	sample := resp.ErrorSamples[0]
	if sample.Line != 3 {
		t.Errorf("sample line = %d, want 3", sample.Line)
	}
	if !strings.Contains(sample.Errors, "email must be a valid email address") {
		t.Errorf("sample errors = %q", sample.Errors)
	}
}

func TestAnalyzeImport_ErrorSampleCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("first_name,last_name,email,start_date,department,job_role\n")
	for i := 0; i < maxErrorSamples+10; i++ {
		b.WriteString("OnlyFirst,,,,,\n")
	}

	svc := NewService(nil)
	resp, err := svc.AnalyzeImport(context.Background(), "staff.csv", []byte(b.String()))
	if err != nil {
		t.Fatalf("AnalyzeImport: %v", err)
	}

	if resp.Summary.ErrorRows != maxErrorSamples+10 {
		t.Errorf("ErrorRows = %d, want %d", resp.Summary.ErrorRows, maxErrorSamples+10)
	}
	if len(resp.ErrorSamples) != maxErrorSamples {
		t.Errorf("ErrorSamples = %d, want cap %d", len(resp.ErrorSamples), maxErrorSamples)
	}
}

func TestEmptyCanonicalRow(t *testing.T) {
	if !emptyCanonicalRow(CanonicalRow{"a": "", "b": "  "}) {
		t.Error("blank row not detected")
	}
	if emptyCanonicalRow(CanonicalRow{"a": "", "b": "x"}) {
		t.Error("non-blank row reported empty")
	}
}

package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"minestock/internal"
	"minestock/internal/synth"
)

func TestWriteProfilesXLSX(t *testing.T) {
	profiles := []internal.MaterialProfile{
		synth.Fallback("401121145", nil),
		synth.Fallback("HYD-VAL-200", nil),
	}

	var buf bytes.Buffer
	if err := WriteProfilesXLSX(profiles, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "material_code" {
		t.Fatalf("header = %q", rows[0][0])
	}
	if rows[1][0] != "401121145" || rows[2][0] != "HYD-VAL-200" {
		t.Fatalf("row codes = %q, %q", rows[1][0], rows[2][0])
	}
	if rows[1][3] == "" {
		t.Fatalf("criticality column empty")
	}
}

func TestExportProfilesXLSXCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "report.xlsx")
	if err := ExportProfilesXLSX([]internal.MaterialProfile{synth.Fallback("X1", nil)}, out); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "X1" {
		t.Fatalf("unexpected content: %v", rows)
	}
}

package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"minestock/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func searchRequest(code string) internal.EvaluationRequest {
	return internal.EvaluationRequest{
		MaterialCode:  code,
		Description:   "Spherical roller bearing for conveyor drive",
		EquipmentCode: "CV-01",
		Criticality:   internal.CriticalityB,
	}
}

func TestHistoryCapKeepsNewest(t *testing.T) {
	db := openTestDB(t)

	var last []internal.HistoryEntry
	for i := 0; i < 14; i++ {
		entries, err := db.RecordSearch(searchRequest(fmt.Sprintf("M-%02d", i)))
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		last = entries
	}

	if len(last) != 10 {
		t.Fatalf("history holds %d entries, cap is 10", len(last))
	}
	if !strings.HasPrefix(last[0].Label, "M-13") {
		t.Fatalf("newest entry should come first, got %q", last[0].Label)
	}
	if !strings.HasPrefix(last[9].Label, "M-04") {
		t.Fatalf("oldest surviving entry should be M-04, got %q", last[9].Label)
	}
}

func TestHistorySearchLabelAndPayload(t *testing.T) {
	db := openTestDB(t)

	entries, err := db.RecordSearch(searchRequest("401121145"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Kind != internal.HistorySearch {
		t.Fatalf("kind = %s", e.Kind)
	}
	if e.Label != "401121145 - Spherical roller bea..." {
		t.Fatalf("label = %q", e.Label)
	}
	if e.Search == nil || e.Search.MaterialCode != "401121145" {
		t.Fatalf("search payload not round-tripped: %+v", e.Search)
	}
}

func TestHistoryUploadPayload(t *testing.T) {
	db := openTestDB(t)

	codes := []string{"A1", "B2", "C3"}
	entries, err := db.RecordUpload(UploadLabel("", len(codes)), codes)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	e := entries[0]
	if e.Kind != internal.HistoryUpload {
		t.Fatalf("kind = %s", e.Kind)
	}
	if e.Label != "Bulk Upload (3 items)" {
		t.Fatalf("label = %q", e.Label)
	}
	if len(e.Codes) != 3 || e.Codes[0] != "A1" {
		t.Fatalf("codes payload = %v", e.Codes)
	}

	got, err := db.GetHistory(e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != e.ID || len(got.Codes) != 3 {
		t.Fatalf("lookup mismatch: %+v", got)
	}
}

func TestUploadLabel(t *testing.T) {
	if got := UploadLabel("parts.xlsx", 7); got != "File: parts.xlsx" {
		t.Fatalf("file label = %q", got)
	}
	if got := UploadLabel("", 7); got != "Bulk Upload (7 items)" {
		t.Fatalf("count label = %q", got)
	}
}

func TestGetHistoryUnknownID(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetHistory("does-not-exist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestHistorySkipsCorruptPayload(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.RecordSearch(searchRequest("GOOD-1")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := db.conn.Exec(
		`INSERT INTO history (id, kind, label, createdAt, payloadJson)
		 VALUES ('broken', 'search', 'BROKEN', '2099-01-01T00:00:00Z', '{not json')`,
	); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	entries, err := db.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	var sawBroken, sawGood bool
	for _, e := range entries {
		switch {
		case e.Label == "BROKEN":
			sawBroken = true
			if e.Search != nil || e.Codes != nil {
				t.Fatalf("corrupt payload should be dropped, got %+v", e)
			}
		case strings.HasPrefix(e.Label, "GOOD-1"):
			sawGood = true
		}
	}
	if !sawBroken || !sawGood {
		t.Fatalf("expected both rows listed (broken=%v good=%v): %+v", sawBroken, sawGood, entries)
	}
}

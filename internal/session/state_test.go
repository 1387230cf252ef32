package session

import (
	"testing"

	"minestock/internal"
)

func profile(code string) internal.MaterialProfile {
	return internal.MaterialProfile{MaterialCode: code, MaterialName: "Part " + code}
}

func bulkSet(codes ...string) []internal.MaterialProfile {
	out := make([]internal.MaterialProfile, 0, len(codes))
	for _, c := range codes {
		out = append(out, profile(c))
	}
	return out
}

func TestInitialState(t *testing.T) {
	snap := New().Snapshot()
	if snap.View != ViewHome || snap.Sheet != SheetHidden {
		t.Fatalf("initial state = %s/%s", snap.View, snap.Sheet)
	}
	if snap.Current != nil || snap.Bulk != nil {
		t.Fatalf("initial state should carry no results")
	}
}

func TestShowProfileHidesSheet(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A", "B"))
	s.SetSheet(SheetFull)

	s.ShowProfile(profile("X1"))
	snap := s.Snapshot()
	if snap.View != ViewProfile {
		t.Fatalf("view = %s", snap.View)
	}
	if snap.Sheet != SheetHidden {
		t.Fatalf("landing a search must close the sheet, got %s", snap.Sheet)
	}
	if snap.Current == nil || snap.Current.MaterialCode != "X1" {
		t.Fatalf("current = %+v", snap.Current)
	}
}

func TestShowBulkOverwrites(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A", "B"))
	s.ShowBulk(bulkSet("C"))

	snap := s.Snapshot()
	if snap.View != ViewBulk {
		t.Fatalf("view = %s", snap.View)
	}
	if len(snap.Bulk) != 1 || snap.Bulk[0].MaterialCode != "C" {
		t.Fatalf("bulk should be replaced, got %+v", snap.Bulk)
	}
}

func TestSelectBulkRowOpensPartialSheet(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A", "B", "C"))

	if !s.SelectBulkRow("B") {
		t.Fatalf("select should succeed for a known code")
	}
	snap := s.Snapshot()
	if snap.View != ViewBulk {
		t.Fatalf("selecting a row must keep the BULK view, got %s", snap.View)
	}
	if snap.Sheet != SheetPartial {
		t.Fatalf("sheet = %s", snap.Sheet)
	}
	if snap.Current == nil || snap.Current.MaterialCode != "B" {
		t.Fatalf("current = %+v", snap.Current)
	}
	if len(snap.Bulk) != 3 {
		t.Fatalf("bulk results must survive selection, got %d", len(snap.Bulk))
	}
}

func TestSelectBulkRowUnknownCode(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A"))
	if s.SelectBulkRow("NOPE") {
		t.Fatalf("unknown code should be a no-op")
	}
	if snap := s.Snapshot(); snap.Sheet != SheetHidden {
		t.Fatalf("sheet should stay hidden, got %s", snap.Sheet)
	}
}

func TestSelectBulkRowOutsideBulkView(t *testing.T) {
	s := New()
	s.ShowProfile(profile("X1"))
	if s.SelectBulkRow("X1") {
		t.Fatalf("selection is only valid on the BULK view")
	}
}

func TestSetSheetRules(t *testing.T) {
	s := New()
	if s.SetSheet(SheetFull) {
		t.Fatalf("full sheet must be rejected outside BULK")
	}

	s.ShowBulk(bulkSet("A"))
	if !s.SetSheet(SheetFull) {
		t.Fatalf("full sheet should be allowed on BULK")
	}
	if !s.SetSheet(SheetHidden) {
		t.Fatalf("hidden is always allowed")
	}
	if snap := s.Snapshot(); len(snap.Bulk) != 1 {
		t.Fatalf("closing the sheet must keep the bulk results")
	}
	if s.SetSheet(SheetMode("sideways")) {
		t.Fatalf("unknown mode should be rejected")
	}
}

func TestBackFromProfileWithBulk(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A", "B"))
	s.ShowProfile(profile("A"))

	s.Back()
	snap := s.Snapshot()
	if snap.View != ViewBulk {
		t.Fatalf("back should return to the bulk list, got %s", snap.View)
	}
	if len(snap.Bulk) != 2 {
		t.Fatalf("bulk results lost on back: %+v", snap.Bulk)
	}

	s.Back()
	snap = s.Snapshot()
	if snap.View != ViewHome {
		t.Fatalf("back from BULK should land HOME, got %s", snap.View)
	}
	if snap.Bulk != nil {
		t.Fatalf("leaving BULK should drop its results")
	}
}

func TestBackFromProfileWithoutBulk(t *testing.T) {
	s := New()
	s.ShowProfile(profile("X1"))
	s.Back()
	snap := s.Snapshot()
	if snap.View != ViewHome {
		t.Fatalf("view = %s", snap.View)
	}
	if snap.Current != nil {
		t.Fatalf("current should be cleared on home, got %+v", snap.Current)
	}
}

func TestHomeResetsEverything(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A"))
	s.SelectBulkRow("A")

	s.Home()
	snap := s.Snapshot()
	if snap.View != ViewHome || snap.Sheet != SheetHidden || snap.Current != nil || snap.Bulk != nil {
		t.Fatalf("home did not reset: %+v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.ShowBulk(bulkSet("A", "B"))

	snap := s.Snapshot()
	snap.Bulk[0].MaterialCode = "MUTATED"
	if s.BulkResults()[0].MaterialCode != "A" {
		t.Fatalf("snapshot mutation leaked into state")
	}
}

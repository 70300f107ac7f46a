package checkpoint

import (
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := Document{V: 4, L: 2, C: 6, ProcessedUnits: 50, PartialCount: 100, ElapsedMs: 2000, RunID: "r1", Resumable: true}
	if err := Save(dir, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := Load(dir, 4, 2, 6, 1000)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("Load: expected ok=true")
	}
	if got.ProcessedUnits != 50 || got.PartialCount != 100 {
		t.Errorf("Load = %+v, want ProcessedUnits=50 PartialCount=100", got)
	}
}

func TestLoadAbsentWhenProcessedIsZeroOrComplete(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, Document{V: 3, L: 2, C: 5, ProcessedUnits: 0}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := Load(dir, 3, 2, 5, 100); ok {
		t.Errorf("Load: expected absent for ProcessedUnits=0")
	}

	if err := Save(dir, Document{V: 3, L: 2, C: 5, ProcessedUnits: 100}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := Load(dir, 3, 2, 5, 100); ok {
		t.Errorf("Load: expected absent for ProcessedUnits>=total")
	}
}

func TestLoadAbsentWhenTripleMismatches(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, Document{V: 3, L: 2, C: 5, ProcessedUnits: 10}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// c=6 has a distinct path, so Load for it must find nothing at all.
	if _, ok, _ := Load(dir, 3, 2, 6, 100); ok {
		t.Errorf("Load: expected absent for nonexistent triple")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	if err := Delete(dir, 3, 2, 5); err != nil {
		t.Errorf("Delete on absent file: %v", err)
	}
	if err := Save(dir, Document{V: 3, L: 2, C: 5, ProcessedUnits: 10}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Delete(dir, 3, 2, 5); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, ok, _ := Load(dir, 3, 2, 5, 100); ok {
		t.Errorf("Load after Delete: expected absent")
	}
}

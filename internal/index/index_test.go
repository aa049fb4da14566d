package index

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/storage"
)

const datasetJSON = `{
  "name": "demo",
  "reactions": [
    {"reaction_id": "ord-1", "identifiers": [{"type": 2, "value": "CCO>>CC=O"}]},
    {"reaction_id": "ord-2", "notes": {"procedure_details": "stirred overnight under argon"}}
  ]
}`

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(name, cs string) DatasetRow {
	return DatasetRow{Name: name, Checksum: cs, UpdatedAt: time.Now()}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM datasets`).Scan(&count); err != nil {
		t.Fatalf("datasets table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM reactions`).Scan(&count); err != nil {
		t.Fatalf("reactions table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertDataset(row("a.json", "abc123"), []ReactionRow{{Position: 0, ReactionID: "ord-a"}}); err != nil {
		t.Fatalf("UpsertDataset: %v", err)
	}
	cs, err := db.GetChecksum("a.json")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestUpsertReplacesReactions(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("a.json", "1"), []ReactionRow{{Position: 0, ReactionID: "old"}})
	_ = db.UpsertDataset(row("a.json", "2"), []ReactionRow{{Position: 0, ReactionID: "new"}, {Position: 1, ReactionID: "newer"}})

	if _, err := db.LocateReaction("old"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old reaction still indexed: %v", err)
	}
	loc, err := db.LocateReaction("newer")
	if err != nil {
		t.Fatalf("LocateReaction: %v", err)
	}
	if loc.Dataset != "a.json" || loc.Position != 1 {
		t.Errorf("loc = %+v", loc)
	}
	list, _ := db.ListDatasets()
	if len(list) != 1 || list[0].Reactions != 2 || list[0].Checksum != "2" {
		t.Errorf("datasets = %+v", list)
	}
}

func TestDeleteDataset(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("del.json", "x"), []ReactionRow{{Position: 0, ReactionID: "ord-del"}})

	if err := db.DeleteDataset("del.json"); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}
	if cs, _ := db.GetChecksum("del.json"); cs != "" {
		t.Errorf("deleted dataset still has checksum %q", cs)
	}
	if _, err := db.LocateReaction("ord-del"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("reaction survived delete: %v", err)
	}
}

func TestLocateReaction_EmptyID(t *testing.T) {
	db := testDB(t)
	if _, err := db.LocateReaction(""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("s.json", "1"), []ReactionRow{
		{Position: 0, ReactionID: "ord-s", Summary: "uniqueword appears here"},
		{Position: 1, ReactionID: "ord-t", Summary: "nothing to see"},
	})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ReactionID != "ord-s" || results[0].Dataset != "s.json" {
		t.Errorf("search results = %+v, want 1 hit for ord-s", results)
	}
}

func TestIndexFileAndSync(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("demo.json", []byte(datasetJSON))
	_ = store.Write("gone.json", []byte(datasetJSON))
	_ = db.UpsertDataset(row("stale.json", "zzz"), nil)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	all, _ := db.AllChecksums()
	if _, ok := all["stale.json"]; ok {
		t.Error("stale dataset not removed")
	}
	if len(all) != 2 {
		t.Errorf("checksums = %v", all)
	}

	loc, err := db.LocateReaction("ord-2")
	if err != nil {
		t.Fatalf("LocateReaction: %v", err)
	}
	if loc.Position != 1 || !strings.Contains(loc.Summary, "argon") {
		t.Errorf("loc = %+v", loc)
	}

	// Unchanged files are skipped on the second pass.
	before, _ := db.ListDatasets()
	time.Sleep(10 * time.Millisecond)
	_ = Sync(db, store, quietLogger())
	after, _ := db.ListDatasets()
	if !before[0].UpdatedAt.Equal(after[0].UpdatedAt) {
		t.Error("unchanged dataset was re-indexed")
	}
}

func TestIndexFileRejectsGarbage(t *testing.T) {
	db := testDB(t)
	if _, err := IndexFile(db, "bad.json", []byte("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestSummarize(t *testing.T) {
	r := &models.Reaction{
		Identifiers: []*models.ReactionIdentifier{{Value: "CCO>>CC=O"}},
		Inputs: map[string]*models.ReactionInput{
			"b_solvent": {Components: []*models.Compound{{Identifiers: []*models.CompoundIdentifier{{Value: "THF"}}}}},
			"a_ethanol": nil,
		},
		Outcomes: []*models.ReactionOutcome{{Products: []*models.ProductCompound{{Identifiers: []*models.CompoundIdentifier{{Value: "CC=O"}}}}}},
		Notes:    &models.ReactionNotes{SafetyNotes: "  flammable "},
	}
	want := "CCO>>CC=O a_ethanol b_solvent THF CC=O flammable"
	if got := Summarize(r); got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

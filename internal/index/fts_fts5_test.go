//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM reactions_fts`).Scan(&count); err != nil {
		t.Fatalf("reactions_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	err := db.UpsertDataset(row("fts.json", "f1"), []ReactionRow{
		{Position: 0, ReactionID: "ord-fts", Summary: "palladium catalysed coupling in dioxane"},
	})
	if err != nil {
		t.Fatalf("UpsertDataset: %v", err)
	}

	results, err := db.Search("palladium", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ReactionID != "ord-fts" || results[0].Dataset != "fts.json" {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("gone.json", "g"), []ReactionRow{{Position: 0, Summary: "vanishing content"}})
	_ = db.DeleteDataset("gone.json")

	results, _ := db.Search("vanishing", 10)
	if len(results) != 0 {
		t.Errorf("deleted dataset still in FTS index: %+v", results)
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("evo.json", "1"), []ReactionRow{{Position: 0, Summary: "original text"}})
	_ = db.UpsertDataset(row("evo.json", "2"), []ReactionRow{{Position: 0, ReactionID: "ord-new", Summary: "replacement text"}})

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].ReactionID != "ord-new" {
		t.Errorf("FTS not updated: %+v", results)
	}
}

func TestFTS5_SearchQuotesIdentifiers(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDataset(row("ids.json", "i1"), []ReactionRow{
		{Position: 0, ReactionID: "ord-7", Summary: "CC=O"},
	})
	results, err := db.Search(`ord-7`, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ReactionID != "ord-7" {
		t.Errorf("results = %+v", results)
	}
	if got := matchExpr(`a "b" c`); got != `"a" """b""" "c"` {
		t.Errorf("matchExpr = %s", got)
	}
}

// Package testutil provides shared test helpers for storage, index and
// reaction fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/index"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/storage"
)

// TestDB creates a temporary SQLite index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary dataset directory with a storage.Provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// SampleReaction returns a small reaction that passes validation.
func SampleReaction(id string) *models.Reaction {
	return &models.Reaction{
		ReactionID: id,
		Identifiers: []*models.ReactionIdentifier{
			{Type: models.ReactionIdentifierSmiles, Value: "CCO>>CC=O"},
		},
		Inputs: map[string]*models.ReactionInput{
			"ethanol": {Components: []*models.Compound{{
				Identifiers:  []*models.CompoundIdentifier{{Type: models.CompoundIdentifierSmiles, Value: "CCO"}},
				Amount:       &models.Amount{Mass: &models.Mass{Quantity: models.Quantity{Value: models.Ptr(1.5)}, Units: models.MassUnitGram}},
				ReactionRole: models.ReactionRoleReactant,
			}}},
		},
		Conditions: &models.ReactionConditions{
			Temperature: &models.TemperatureConditions{
				Setpoint: &models.Temperature{Quantity: models.Quantity{Value: models.Ptr(25.0)}, Units: models.TemperatureUnitCelsius},
			},
		},
		Notes: &models.ReactionNotes{ProcedureDetails: "oxidised with " + id},
		Outcomes: []*models.ReactionOutcome{{
			ReactionTime: &models.Time{Quantity: models.Quantity{Value: models.Ptr(2.0)}, Units: models.TimeUnitHour},
			Products: []*models.ProductCompound{{
				Identifiers: []*models.CompoundIdentifier{{Type: models.CompoundIdentifierSmiles, Value: "CC=O"}},
				Yield:       &models.Percentage{Quantity: models.Quantity{Value: models.Ptr(80.0)}},
			}},
		}},
		Provenance: &models.ReactionProvenance{
			RecordCreated: &models.RecordEvent{
				Time:   &models.DateTime{Value: "2024-01-01T00:00:00Z"},
				Person: &models.Person{Username: "chemist"},
			},
		},
	}
}

// SampleDataset returns a dataset holding one SampleReaction per id.
func SampleDataset(name string, ids ...string) *models.Dataset {
	ds := &models.Dataset{Name: name}
	for _, id := range ids {
		ds.Reactions = append(ds.Reactions, SampleReaction(id))
	}
	return ds
}

// WriteDataset encodes ds for the file at name and stores it.
func WriteDataset(t *testing.T, store storage.Provider, name string, ds *models.Dataset) {
	t.Helper()
	data, err := codec.EncodeDataset(name, ds)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(name, data); err != nil {
		t.Fatal(err)
	}
}

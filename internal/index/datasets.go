package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antonkast-google/ord-editor/internal/apperr"
)

// DatasetRow represents a row in the datasets table.
type DatasetRow struct {
	Name      string
	Checksum  string
	Reactions int
	UpdatedAt time.Time
}

// ReactionRow locates one reaction inside a dataset.
type ReactionRow struct {
	Dataset    string
	Position   int
	ReactionID string
	Summary    string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Dataset    string
	Position   int
	ReactionID string
	Snippet    string
}

// UpsertDataset replaces a dataset row and all of its reaction rows within
// a transaction.
func (db *DB) UpsertDataset(d DatasetRow, reactions []ReactionRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO datasets (name, checksum, reactions, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			checksum   = excluded.checksum,
			reactions  = excluded.reactions,
			updated_at = excluded.updated_at
	`, d.Name, d.Checksum, len(reactions), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert dataset: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM reactions WHERE dataset = ?`, d.Name); err != nil {
		return fmt.Errorf("index: clear reactions: %w", err)
	}
	ftsDelete(tx, d.Name)

	if len(reactions) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO reactions (dataset, position, reaction_id, summary) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare reaction insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range reactions {
			if _, err := stmt.Exec(d.Name, r.Position, r.ReactionID, r.Summary); err != nil {
				return fmt.Errorf("index: insert reaction: %w", err)
			}
			// FTS insert (no-op when the FTS5 tag is absent).
			if err := ftsInsert(tx, d.Name, r); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteDataset removes a dataset and its reactions.
func (db *DB) DeleteDataset(name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, name)
	_, _ = tx.Exec(`DELETE FROM reactions WHERE dataset = ?`, name)
	_, _ = tx.Exec(`DELETE FROM datasets WHERE name = ?`, name)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a dataset, or empty string if
// it is not indexed.
func (db *DB) GetChecksum(name string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM datasets WHERE name = ?`, name).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the checksum of every indexed dataset keyed by name.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, checksum FROM datasets`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}

// ListDatasets returns every indexed dataset ordered by name.
func (db *DB) ListDatasets() ([]DatasetRow, error) {
	rows, err := db.conn.Query(`SELECT name, checksum, reactions, updated_at FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("index: list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetRow
	for rows.Next() {
		var d DatasetRow
		if err := rows.Scan(&d.Name, &d.Checksum, &d.Reactions, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LocateReaction finds the dataset and position of the reaction with the
// given id. When several datasets carry the id, the first by name wins.
func (db *DB) LocateReaction(id string) (*ReactionRow, error) {
	if id == "" {
		return nil, fmt.Errorf("index: locate: %w: empty id", apperr.ErrInvalidInput)
	}
	var r ReactionRow
	err := db.conn.QueryRow(`
		SELECT dataset, position, reaction_id, summary
		FROM reactions
		WHERE reaction_id = ?
		ORDER BY dataset, position
		LIMIT 1
	`, id).Scan(&r.Dataset, &r.Position, &r.ReactionID, &r.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: reaction %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: locate: %w", err)
	}
	return &r, nil
}

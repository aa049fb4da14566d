//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS reactions_fts USING fts5(
			dataset UNINDEXED,
			position UNINDEXED,
			reaction_id,
			summary,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, dataset string, r ReactionRow) error {
	_, err := tx.Exec(`INSERT INTO reactions_fts (dataset, position, reaction_id, summary) VALUES (?, ?, ?, ?)`,
		dataset, r.Position, r.ReactionID, r.Summary)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, dataset string) {
	_, _ = tx.Exec(`DELETE FROM reactions_fts WHERE dataset = ?`, dataset)
}

// Search performs an FTS5 full-text search and returns matching reactions
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT dataset,
		       position,
		       reaction_id,
		       snippet(reactions_fts, 3, '<b>', '</b>', '...', 32)
		FROM reactions_fts
		WHERE reactions_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, matchExpr(query), limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Dataset, &r.Position, &r.ReactionID, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// matchExpr quotes every whitespace-separated term so identifiers such as
// ord-1 or CC=O are matched as phrases instead of parsed as FTS5 syntax.
func matchExpr(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

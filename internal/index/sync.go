package index

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/antonkast-google/ord-editor/internal/checksum"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/storage"
)

// Sync walks the storage root and brings the index up to date:
//   - new/changed datasets are decoded and upserted
//   - datasets removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if _, err := IndexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDataset(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile decodes the dataset stored at name and upserts it into the DB.
// The decoded dataset is returned so callers need not decode twice.
func IndexFile(db ReactionIndex, name string, data []byte) (*models.Dataset, error) {
	ds, err := codec.DecodeDataset(name, data)
	if err != nil {
		return nil, err
	}
	rows := make([]ReactionRow, 0, len(ds.Reactions))
	for i, r := range ds.Reactions {
		if r == nil {
			continue
		}
		rows = append(rows, ReactionRow{
			Dataset:    name,
			Position:   i,
			ReactionID: r.ReactionID,
			Summary:    Summarize(r),
		})
	}
	d := DatasetRow{
		Name:      name,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now().UTC(),
	}
	return ds, db.UpsertDataset(d, rows)
}

// Summarize flattens the searchable text of a reaction: identifiers, input
// names and their compounds, product identifiers and free-text notes.
func Summarize(r *models.Reaction) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	for _, id := range r.Identifiers {
		if id != nil {
			add(id.Value)
		}
	}
	names := make([]string, 0, len(r.Inputs))
	for name := range r.Inputs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		add(name)
		in := r.Inputs[name]
		if in == nil {
			continue
		}
		for _, c := range in.Components {
			if c == nil {
				continue
			}
			for _, id := range c.Identifiers {
				if id != nil {
					add(id.Value)
				}
			}
		}
	}
	for _, o := range r.Outcomes {
		if o == nil {
			continue
		}
		for _, p := range o.Products {
			if p == nil {
				continue
			}
			for _, id := range p.Identifiers {
				if id != nil {
					add(id.Value)
				}
			}
		}
	}
	if r.Conditions != nil {
		add(r.Conditions.Details)
	}
	if r.Notes != nil {
		add(r.Notes.ProcedureDetails)
		add(r.Notes.SafetyNotes)
	}
	return strings.Join(parts, " ")
}

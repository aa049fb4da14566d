// Package datasetservice coordinates dataset storage, the reaction index and
// change notifications behind the HTTP and MCP surfaces.
package datasetservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/index"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/render"
	"github.com/antonkast-google/ord-editor/internal/storage"
	"github.com/antonkast-google/ord-editor/internal/validator"
)

// Publisher receives dataset change notifications.
type Publisher interface {
	PublishDatasetEvent(kind, name string)
}

// Service coordinates storage and index operations.
type Service struct {
	store  storage.Provider
	db     index.ReactionIndex
	pub    Publisher
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends dataset change events to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new dataset service.
func NewService(store storage.Provider, db index.ReactionIndex, opts ...Option) *Service {
	s := &Service{store: store, db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListDatasets returns every dataset on disk with its indexed reaction count.
func (s *Service) ListDatasets(_ context.Context) ([]models.DatasetMetadata, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListDatasets()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Reactions
	}
	for i := range metas {
		metas[i].Reactions = counts[metas[i].Path]
	}
	return nonNilSlice(metas), nil
}

// ReadDataset reads and decodes the named dataset.
func (s *Service) ReadDataset(_ context.Context, name string) (*models.Dataset, error) {
	data, err := s.store.Read(name)
	if err != nil {
		return nil, err
	}
	return codec.DecodeDataset(name, data)
}

// WriteDataset encodes ds for the file format implied by name, stores it,
// re-indexes it and publishes the change.
func (s *Service) WriteDataset(_ context.Context, name string, ds *models.Dataset) error {
	if ds == nil {
		return fmt.Errorf("datasetservice: %w: empty dataset", apperr.ErrInvalidInput)
	}
	kind := "updated"
	if _, err := s.store.Read(name); errors.Is(err, apperr.ErrNotFound) {
		kind = "created"
	}
	data, err := codec.EncodeDataset(name, ds)
	if err != nil {
		return err
	}
	if err := s.store.Write(name, data); err != nil {
		return err
	}
	if _, err := index.IndexFile(s.db, name, data); err != nil {
		return err
	}
	s.logger.Info("datasetservice: written",
		slog.String("dataset", name),
		slog.Int("reactions", len(ds.Reactions)),
	)
	s.publish(kind, name)
	return nil
}

// DeleteDataset removes a dataset from storage and index.
func (s *Service) DeleteDataset(_ context.Context, name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	if err := s.db.DeleteDataset(name); err != nil {
		return err
	}
	s.publish("deleted", name)
	return nil
}

// CompareDataset reports apperr.ErrConflict when ds differs from the stored
// dataset.
func (s *Service) CompareDataset(ctx context.Context, name string, ds *models.Dataset) error {
	stored, err := s.ReadDataset(ctx, name)
	if err != nil {
		return err
	}
	if !models.Equal(stored, ds) {
		return fmt.Errorf("datasetservice: %s differs from stored copy: %w", name, apperr.ErrConflict)
	}
	return nil
}

// ReactionByID looks up a reaction by its reaction_id through the index.
func (s *Service) ReactionByID(ctx context.Context, id string) (*models.Reaction, error) {
	loc, err := s.db.LocateReaction(id)
	if err != nil {
		return nil, err
	}
	ds, err := s.ReadDataset(ctx, loc.Dataset)
	if err != nil {
		return nil, err
	}
	if loc.Position >= len(ds.Reactions) || ds.Reactions[loc.Position] == nil ||
		ds.Reactions[loc.Position].ReactionID != id {
		// The file changed underneath the index.
		s.logger.Warn("datasetservice: stale index entry",
			slog.String("dataset", loc.Dataset),
			slog.String("reaction_id", id),
		)
		if _, err := s.reindex(loc.Dataset); err != nil {
			return nil, err
		}
		for _, r := range ds.Reactions {
			if r != nil && r.ReactionID == id {
				return r, nil
			}
		}
		return nil, fmt.Errorf("datasetservice: reaction %s: %w", id, apperr.ErrNotFound)
	}
	return ds.Reactions[loc.Position], nil
}

// Upload stores an asset for an existing dataset.
func (s *Service) Upload(_ context.Context, name, token string, data []byte) error {
	if _, err := s.store.Read(name); err != nil {
		return err
	}
	return s.store.PutUpload(name, token, data)
}

// ReadUpload returns a stored asset.
func (s *Service) ReadUpload(_ context.Context, name, token string) ([]byte, error) {
	return s.store.ReadUpload(name, token)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

// Validate checks body as the named message type.
func (s *Service) Validate(_ context.Context, typeName string, body []byte) (*models.Diagnostics, error) {
	return validator.Validate(typeName, body)
}

// Render returns the HTML summary of r.
func (s *Service) Render(_ context.Context, r *models.Reaction) (string, error) {
	return render.Reaction(r)
}

// Download returns r in the text encoding.
func (s *Service) Download(_ context.Context, r *models.Reaction) ([]byte, error) {
	return codec.MarshalText(r)
}

func (s *Service) reindex(name string) (*models.Dataset, error) {
	data, err := s.store.Read(name)
	if err != nil {
		return nil, err
	}
	return index.IndexFile(s.db, name, data)
}

func (s *Service) publish(kind, name string) {
	if s.pub != nil {
		s.pub.PublishDatasetEvent(kind, name)
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

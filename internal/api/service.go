package api

import (
	"context"

	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/index"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// Service is the domain surface the handlers need.
type Service interface {
	ListDatasets(ctx context.Context) ([]models.DatasetMetadata, error)
	ReadDataset(ctx context.Context, name string) (*models.Dataset, error)
	WriteDataset(ctx context.Context, name string, ds *models.Dataset) error
	DeleteDataset(ctx context.Context, name string) error
	CompareDataset(ctx context.Context, name string, ds *models.Dataset) error
	ReactionByID(ctx context.Context, id string) (*models.Reaction, error)
	Upload(ctx context.Context, name, token string, data []byte) error
	ReadUpload(ctx context.Context, name, token string) ([]byte, error)
	Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error)
	Validate(ctx context.Context, typeName string, body []byte) (*models.Diagnostics, error)
	Render(ctx context.Context, r *models.Reaction) (string, error)
	Download(ctx context.Context, r *models.Reaction) ([]byte, error)
}

var _ Service = (*datasetservice.Service)(nil)

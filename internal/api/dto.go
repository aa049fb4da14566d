package api

import "github.com/antonkast-google/ord-editor/internal/models"

// DatasetListResponse wraps dataset listings.
type DatasetListResponse struct {
	Datasets []models.DatasetMetadata `json:"datasets" validate:"required"`
}

// WriteDatasetResponse is returned after a dataset is stored.
type WriteDatasetResponse struct {
	Name      string `json:"name" example:"demo.json" validate:"required"`
	Reactions int    `json:"reactions" example:"12"`
}

// CompareResponse is returned when a posted dataset matches the stored one.
type CompareResponse struct {
	Equal bool `json:"equal" example:"true"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Dataset    string `json:"dataset" example:"demo.json" validate:"required"`
	Position   int    `json:"position" example:"3"`
	ReactionID string `json:"reaction_id" example:"ord-0123abcd"`
	Snippet    string `json:"snippet" example:"...matched text..."`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// UploadResponse is returned after an asset upload.
type UploadResponse struct {
	Dataset string `json:"dataset" example:"demo.json" validate:"required"`
	Token   string `json:"token" example:"2f1c..." validate:"required"`
	Size    int    `json:"size" example:"12345"`
}

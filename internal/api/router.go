package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Datasets.
	r.Get("/datasets", h.ListDatasets)
	r.Get("/dataset/proto/read/*", h.ReadDataset)
	r.Post("/dataset/proto/write/*", h.WriteDataset)
	r.Post("/dataset/proto/compare/*", h.CompareDataset)
	r.Delete("/dataset/*", h.DeleteDataset)

	// Uploads. The dataset name must be path-escaped here.
	r.Post("/dataset/proto/upload/{name}/{token}", h.Upload)
	r.Get("/dataset/proto/upload/{name}/{token}", h.ServeUpload)

	// Validation and reactions.
	r.Post("/dataset/proto/validate/{type}", h.Validate)
	r.Get("/reaction/id/{id}/proto", h.ReactionByID)
	r.Post("/render/reaction", h.Render)
	r.Post("/reaction/download", h.Download)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

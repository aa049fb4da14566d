package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/index"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const maxBodyBytes = 10 << 20 // 10 MB

// Handler holds API route handlers.
type Handler struct {
	svc Service
}

// NewHandler creates a new Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// datasetName extracts the dataset name from the URL (everything after the
// route prefix). Supports encoded slashes (e.g. sub%2Fdemo.json).
func datasetName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if raw == "" {
		raw = strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	}
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", apperr.ErrInvalidInput)
	}
	return body, nil
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := codec.Unmarshal(body, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ListDatasets handles GET /api/datasets.
//
//	@Summary		List datasets in the storage root
//	@Tags			datasets
//	@Produce		json
//	@Success		200		{object}	DatasetListResponse
//	@Security		BearerAuth
//	@Router			/datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDatasets(r.Context())
	if err != nil {
		writeError(w, "list datasets", err)
		return
	}
	writeJSON(w, http.StatusOK, DatasetListResponse{Datasets: items})
}

// ReadDataset handles GET /api/dataset/proto/read/*.
//
//	@Summary		Read a dataset in its binary encoding
//	@Tags			datasets
//	@Produce		json
//	@Param			name	path		string	true	"Dataset name"
//	@Success		200		{object}	models.Dataset
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/proto/read/{name} [get]
func (h *Handler) ReadDataset(w http.ResponseWriter, r *http.Request) {
	name := datasetName(r)
	ds, err := h.svc.ReadDataset(r.Context(), name)
	if err != nil {
		writeError(w, "read dataset", err, slog.String("name", name))
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// WriteDataset handles POST /api/dataset/proto/write/*.
//
//	@Summary		Store a dataset
//	@Tags			datasets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Dataset name"
//	@Param			body	body		models.Dataset	true	"Dataset"
//	@Success		200		{object}	WriteDatasetResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/proto/write/{name} [post]
func (h *Handler) WriteDataset(w http.ResponseWriter, r *http.Request) {
	name := datasetName(r)
	ds, err := decodeBody[models.Dataset](w, r)
	if err != nil {
		writeError(w, "write dataset", err, slog.String("name", name))
		return
	}
	if err := h.svc.WriteDataset(r.Context(), name, ds); err != nil {
		writeError(w, "write dataset", err, slog.String("name", name))
		return
	}
	writeJSON(w, http.StatusOK, WriteDatasetResponse{Name: name, Reactions: len(ds.Reactions)})
}

// DeleteDataset handles DELETE /api/dataset/*.
//
//	@Summary		Delete a dataset
//	@Tags			datasets
//	@Param			name	path	string	true	"Dataset name"
//	@Success		204
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/{name} [delete]
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	name := datasetName(r)
	if err := h.svc.DeleteDataset(r.Context(), name); err != nil {
		writeError(w, "delete dataset", err, slog.String("name", name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompareDataset handles POST /api/dataset/proto/compare/*.
//
//	@Summary		Compare a dataset with the stored copy
//	@Tags			datasets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string			true	"Dataset name"
//	@Param			body	body		models.Dataset	true	"Dataset"
//	@Success		200		{object}	CompareResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/proto/compare/{name} [post]
func (h *Handler) CompareDataset(w http.ResponseWriter, r *http.Request) {
	name := datasetName(r)
	ds, err := decodeBody[models.Dataset](w, r)
	if err != nil {
		writeError(w, "compare dataset", err, slog.String("name", name))
		return
	}
	if err := h.svc.CompareDataset(r.Context(), name, ds); err != nil {
		writeError(w, "compare dataset", err, slog.String("name", name))
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Equal: true})
}

// Validate handles POST /api/dataset/proto/validate/{type}.
//
//	@Summary		Validate a message of the given type
//	@Tags			validation
//	@Accept			json
//	@Produce		json
//	@Param			type	path		string	true	"Message type"	example(Reaction)
//	@Success		200		{object}	models.Diagnostics
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/proto/validate/{type} [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		writeError(w, "validate", err)
		return
	}
	diag, err := h.svc.Validate(r.Context(), typeName, body)
	if err != nil {
		writeError(w, "validate", err, slog.String("type", typeName))
		return
	}
	writeJSON(w, http.StatusOK, diag)
}

// ReactionByID handles GET /api/reaction/id/{id}/proto.
//
//	@Summary		Fetch a single reaction by id
//	@Tags			reactions
//	@Produce		json
//	@Param			id	path		string	true	"Reaction id"
//	@Success		200	{object}	models.Reaction
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reaction/id/{id}/proto [get]
func (h *Handler) ReactionByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reaction, err := h.svc.ReactionByID(r.Context(), id)
	if err != nil {
		writeError(w, "reaction by id", err, slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, reaction)
}

// Render handles POST /api/render/reaction.
//
//	@Summary		Render a reaction summary as HTML
//	@Tags			reactions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.Reaction	true	"Reaction"
//	@Success		200		{string}	string
//	@Security		BearerAuth
//	@Router			/render/reaction [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	reaction, err := decodeBody[models.Reaction](w, r)
	if err != nil {
		writeError(w, "render", err)
		return
	}
	out, err := h.svc.Render(r.Context(), reaction)
	if err != nil {
		writeError(w, "render", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Download handles POST /api/reaction/download.
//
//	@Summary		Download a reaction in its text encoding
//	@Tags			reactions
//	@Accept			json
//	@Produce		plain
//	@Param			body	body	models.Reaction	true	"Reaction"
//	@Success		200
//	@Security		BearerAuth
//	@Router			/reaction/download [post]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	reaction, err := decodeBody[models.Reaction](w, r)
	if err != nil {
		writeError(w, "download", err)
		return
	}
	out, err := h.svc.Download(r.Context(), reaction)
	if err != nil {
		writeError(w, "download", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reaction.pbtxt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search over reactions
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("q", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: toSearchResults(results)})
}

func toSearchResults(in []index.SearchResult) []SearchResult {
	out := make([]SearchResult, len(in))
	for i, r := range in {
		out[i] = SearchResult{
			Dataset:    r.Dataset,
			Position:   r.Position,
			ReactionID: r.ReactionID,
			Snippet:    r.Snippet,
		}
	}
	return out
}

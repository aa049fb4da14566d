package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 50 << 20 // 50 MB

// Upload handles POST /api/dataset/proto/upload/{name}/{token}. The body is
// stored verbatim next to the dataset.
//
//	@Summary		Upload an asset for a dataset
//	@Tags			uploads
//	@Accept			octet-stream
//	@Produce		json
//	@Param			name	path		string	true	"Dataset name (escaped)"
//	@Param			token	path		string	true	"Upload token"
//	@Success		201		{object}	UploadResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/proto/upload/{name}/{token} [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	name, token := datasetName(r), chi.URLParam(r, "token")
	data, err := readBody(w, r, maxUploadBytes)
	if err != nil {
		writeError(w, "upload", err)
		return
	}
	if err := h.svc.Upload(r.Context(), name, token, data); err != nil {
		writeError(w, "upload", err, slog.String("name", name), slog.String("token", token))
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{Dataset: name, Token: token, Size: len(data)})
}

// ServeUpload handles GET /api/dataset/proto/upload/{name}/{token}.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name, token := datasetName(r), chi.URLParam(r, "token")
	data, err := h.svc.ReadUpload(r.Context(), name, token)
	if err != nil {
		writeError(w, "serve upload", err, slog.String("name", name), slog.String("token", token))
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// InitMediaUpload reserves a media id and returns a presigned PUT URL. The
// client uploads the bytes directly to object storage, then confirms.
func (a *App) InitMediaUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
		Size        int64  `json:"size"`
		Alt         string `json:"alt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	res, err := a.Media.InitUpload(r.Context(), req.Filename, req.ContentType, req.Size, req.Alt)
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.json(w, http.StatusCreated, map[string]string{
		"mediaId":   res.Media.ID,
		"uploadUrl": res.UploadURL,
		"uploadKey": res.Media.UploadKey,
	})
}

// ConfirmMediaUpload moves the record to processing and enqueues the job.
func (a *App) ConfirmMediaUpload(w http.ResponseWriter, r *http.Request) {
	media, err := a.Media.ConfirmUpload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, media)
}

// ListMedia returns a newest-first page of media records.
func (a *App) ListMedia(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	items, total, err := a.Media.List(r.Context(), limit, offset)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if items == nil {
		items = []domain.Media{}
	}
	a.json(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]int{"total": total, "limit": limit, "offset": offset},
	})
}

// GetMedia returns a single media record.
func (a *App) GetMedia(w http.ResponseWriter, r *http.Request) {
	media, err := a.Media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, media)
}

// UpdateMedia patches the alt text.
func (a *App) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alt *string `json:"alt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	media, err := a.Media.Update(r.Context(), chi.URLParam(r, "id"), req.Alt)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, media)
}

// DeleteMedia removes the record and its storage objects.
func (a *App) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := a.Media.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}

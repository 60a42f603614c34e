package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type galleryRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MediaIDs    []string `json:"mediaIds"`
}

// CreateGallery inserts a new gallery.
func (a *App) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var req galleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	now := time.Now().UTC()
	gallery := &domain.Gallery{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		MediaIDs:    req.MediaIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Galleries.Create(r.Context(), gallery); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, gallery)
}

// ListGalleries returns a newest-first page of galleries.
func (a *App) ListGalleries(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	galleries, total, err := a.Galleries.List(r.Context(), limit, offset)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if galleries == nil {
		galleries = []domain.Gallery{}
	}
	a.json(w, http.StatusOK, map[string]any{
		"data": galleries,
		"meta": map[string]int{"total": total, "limit": limit, "offset": offset},
	})
}

// GetGallery returns a single gallery.
func (a *App) GetGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := a.Galleries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, gallery)
}

// UpdateGallery replaces a gallery's fields including the ordered media list.
func (a *App) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := a.Galleries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req galleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	gallery.Title = req.Title
	gallery.Description = req.Description
	gallery.MediaIDs = req.MediaIDs

	if err := a.Galleries.Update(r.Context(), gallery); err != nil {
		a.domainError(w, err)
		return
	}
	gallery.UpdatedAt = time.Now().UTC()
	a.json(w, http.StatusOK, gallery)
}

// DeleteGallery removes a gallery (the referenced media stay).
func (a *App) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	if err := a.Galleries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}

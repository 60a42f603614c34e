package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategory inserts a new category. Names are title-cased for display.
func (a *App) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	category := &domain.Category{
		ID:        uuid.NewString(),
		Name:      displayName(req.Name),
		Slug:      slugOrDerive(req.Slug, req.Name),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Categories.Create(r.Context(), category); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, category)
}

// ListCategories returns all categories ordered by name.
func (a *App) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.Categories.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	a.json(w, http.StatusOK, map[string]any{"data": categories})
}

// GetCategory returns a single category.
func (a *App) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := a.Categories.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, category)
}

// UpdateCategory renames a category.
func (a *App) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, err := a.Categories.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	category.Name = displayName(req.Name)
	category.Slug = slugOrDerive(req.Slug, req.Name)

	if err := a.Categories.Update(r.Context(), category); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, category)
}

// DeleteCategory removes a category; posts keep existing via ON DELETE SET NULL.
func (a *App) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}

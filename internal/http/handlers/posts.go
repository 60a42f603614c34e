package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type postRequest struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Excerpt      string  `json:"excerpt"`
	Body         string  `json:"body"`
	CategoryID   *string `json:"categoryId"`
	CoverMediaID *string `json:"coverMediaId"`
	Published    bool    `json:"published"`
}

// CreatePost inserts a new blog post.
func (a *App) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Slug:         slugOrDerive(req.Slug, req.Title),
		Excerpt:      req.Excerpt,
		Body:         req.Body,
		CategoryID:   req.CategoryID,
		CoverMediaID: req.CoverMediaID,
		Published:    req.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Posts.Create(r.Context(), post); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, post)
}

// ListPosts returns a newest-first page of posts.
func (a *App) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, total, err := a.Posts.List(r.Context(), limit, offset)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	a.json(w, http.StatusOK, map[string]any{
		"data": posts,
		"meta": map[string]int{"total": total, "limit": limit, "offset": offset},
	})
}

// GetPost returns a single post.
func (a *App) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.Posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, post)
}

// UpdatePost replaces the editable fields of a post.
func (a *App) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, err := a.Posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	post.Title = req.Title
	post.Slug = slugOrDerive(req.Slug, req.Title)
	post.Excerpt = req.Excerpt
	post.Body = req.Body
	post.CategoryID = req.CategoryID
	post.CoverMediaID = req.CoverMediaID
	post.Published = req.Published

	if err := a.Posts.Update(r.Context(), post); err != nil {
		a.domainError(w, err)
		return
	}
	post.UpdatedAt = time.Now().UTC()
	a.json(w, http.StatusOK, post)
}

// DeletePost removes a post.
func (a *App) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.Posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}

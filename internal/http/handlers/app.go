package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/service"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Media      *service.MediaService
	Posts      domain.PostRepository
	Categories domain.CategoryRepository
	Galleries  domain.GalleryRepository
	Home       domain.HomePageRepository
	Logger     zerolog.Logger
}

func NewApp(
	media *service.MediaService,
	posts domain.PostRepository,
	categories domain.CategoryRepository,
	galleries domain.GalleryRepository,
	home domain.HomePageRepository,
	logger zerolog.Logger,
) *App {
	return &App{
		Media:      media,
		Posts:      posts,
		Categories: categories,
		Galleries:  galleries,
		Home:       home,
		Logger:     logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// domainError maps service errors onto the HTTP error taxonomy.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// pagination reads limit/offset query params with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

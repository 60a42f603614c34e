package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the HTTP surface: the media pipeline plus the content CRUD
// consumed by the admin UI and the public site.
func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string, uploadRateLimitPerMin int) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(allowedOrigins),
	)

	r.Get("/healthz", app.Health)

	r.Route("/media", func(r chi.Router) {
		r.With(middleware.RateLimit(uploadRateLimitPerMin, time.Minute)).Post("/upload", app.InitMediaUpload)
		r.Post("/{id}/uploaded", app.ConfirmMediaUpload)
		r.Get("/", app.ListMedia)
		r.Get("/{id}", app.GetMedia)
		r.Put("/{id}", app.UpdateMedia)
		r.Delete("/{id}", app.DeleteMedia)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", app.CreatePost)
		r.Get("/", app.ListPosts)
		r.Get("/{id}", app.GetPost)
		r.Put("/{id}", app.UpdatePost)
		r.Delete("/{id}", app.DeletePost)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", app.CreateCategory)
		r.Get("/", app.ListCategories)
		r.Get("/{id}", app.GetCategory)
		r.Put("/{id}", app.UpdateCategory)
		r.Delete("/{id}", app.DeleteCategory)
	})

	r.Route("/galleries", func(r chi.Router) {
		r.Post("/", app.CreateGallery)
		r.Get("/", app.ListGalleries)
		r.Get("/{id}", app.GetGallery)
		r.Put("/{id}", app.UpdateGallery)
		r.Delete("/{id}", app.DeleteGallery)
	})

	r.Route("/home", func(r chi.Router) {
		r.Get("/", app.GetHome)
		r.Put("/", app.UpdateHome)
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-admin-panel/internal/config"
	"go-admin-panel/internal/handler"
	"go-admin-panel/internal/middleware"
)

type Handlers struct {
	Resource *handler.ResourceHandler
	Overview *handler.OverviewHandler
	Health   *handler.HealthHandler
	Events   http.Handler
}

func New(cfg *config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, "/health")

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	r.Route("/admin", func(admin chi.Router) {
		// Event streams are long-lived and cannot sit behind the timeout.
		if h.Events != nil {
			admin.Get("/events", h.Events.ServeHTTP)
		}

		admin.Group(func(pages chi.Router) {
			pages.Use(middleware.Timeout(cfg.RequestTimeout))

			pages.Get("/", h.Overview.Show)
			pages.Get("/{resource}", h.Resource.List)
			pages.Get("/{resource}/{id}", h.Resource.Get)
			pages.Delete("/{resource}/{id}", h.Resource.Delete)
			pages.Post("/{resource}/bulk/{action}", h.Resource.BulkAction)
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/resources", h.Resource.Resources)
		api.Get("/overview", h.Overview.Show)

		api.Get("/{resource}", h.Resource.List)
		api.Post("/{resource}", h.Resource.Create)
		api.Get("/{resource}/{id}", h.Resource.Get)
		api.Patch("/{resource}/{id}", h.Resource.Update)
		api.Put("/{resource}/{id}", h.Resource.Update)
		api.Delete("/{resource}/{id}", h.Resource.Delete)
	})

	return r
}

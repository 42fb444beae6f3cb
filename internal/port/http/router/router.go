package router

import (
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// New mounts the ads routes. Mutating routes require a bearer token only when
// jwtSecret is set.
func New(h *handler.AdsHandler, jwtSecret string, log logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logger(log))
	mux.Use(chimw.Recoverer)

	mux.Get("/healthz", h.HandleHealth)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/ads", h.HandleListFiltered)
		r.Get("/ads/all", h.HandleListAll)
		r.Get("/ads/{id}", h.HandleGetAd)
		r.Get("/filters", h.HandleGetFilters)
		r.Get("/status", h.HandleStatus)

		r.Group(func(r chi.Router) {
			if jwtSecret != "" {
				r.Use(middleware.JWTAuth(jwtSecret, log))
			}
			r.Post("/ads/generate", h.HandleGenerate)
			r.Post("/ads/load", h.HandleLoad)
			r.Patch("/ads/{id}/status", h.HandleUpdateStatus)
			r.Post("/ads/{id}/comments", h.HandleAddComment)
			r.Patch("/filters", h.HandlePatchFilters)
		})
	})

	return mux
}

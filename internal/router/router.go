package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventfinder/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Post("/api/recommendations", h.GetRecommendations)
	r.Get("/api/location/zip", h.ResolveZip)
	r.Get("/api/preferences", h.GetPreferences)
	r.Put("/api/preferences", h.SavePreferences)
	r.Get("/health", h.Health)

	return r
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the middleware settings of the HTTP surface
type RouterConfig struct {
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Router builds the chi router serving the handler
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			window := cfg.RateLimitWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					h.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
				}),
			))
		}
		r.Post("/games", h.IngestGame)
	})

	return r
}

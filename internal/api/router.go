package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rpnow-go/rpnow/internal/api/middleware"
	"github.com/rpnow-go/rpnow/internal/config"
	"github.com/rpnow-go/rpnow/internal/handlers"
)

// NewRouter creates and configures the HTTP router. limiter may be nil, in
// which case rate limiting is skipped entirely.
func NewRouter(h *handlers.Handler, logger zerolog.Logger, limiter *middleware.RateLimiter, limits config.Limits) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	// Body cap sized off the largest accepted payload: content length is
	// counted in runes and a rune costs up to 4 bytes in UTF-8, plus slack
	// for the other fields and the challenge hash.
	r.Use(middleware.MaxBodySize(int64(4*limits.MaxMessageContentLength + 4096)))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting (requires Redis)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// CORS - allow all origins (room codes are the only credential)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/challenge", h.Challenge)
		r.Get("/stats", h.Stats)

		r.Route("/rp", func(r chi.Router) {
			r.Post("/", h.CreateRoom)

			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.GetRoom)
				r.Get("/stream", h.Stream)
				r.Post("/message", h.PostMessage)
				r.Post("/image", h.PostImage)
				r.Post("/chara", h.PostChara)
				r.Patch("/message/{id}", h.EditMessage)
			})
		})
	})

	return r
}

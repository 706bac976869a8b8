// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/quizdrill/backend/internal/metrics"
)

// RouterOptions carries the cross-cutting pieces the router wires in.
type RouterOptions struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // served at /metrics when set
	CORSOrigins    []string
	RateLimitRPS   float64 // <= 0 disables rate limiting
	RateLimitBurst int
}

// NewRouter builds the HTTP router.
// Middleware order: RequestID → RealIP → Recoverer → Logging → Metrics → CORS → RateLimit.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(Logging(opts.Logger))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	if opts.RateLimitRPS > 0 {
		r.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, time.Now))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/quiz", func(r chi.Router) {
		r.Get("/", h.getQuiz)
		r.Put("/title", h.updateTitle)
		r.Post("/questions", h.addQuestion)
		r.Put("/questions/{index}", h.updateQuestion)
		r.Delete("/questions/{index}", h.deleteQuestion)
		r.Get("/export", h.exportQuiz)
		r.Post("/import", h.importQuiz)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/{sessionID}", h.getSession)
		r.Post("/{sessionID}/answers", h.submitAnswer)
		r.Delete("/{sessionID}", h.endSession)
	})

	return r
}

package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/metrics"
)

const defaultMaxBodyBytes = 64 << 10

// RouterOptions configures NewRouter.
type RouterOptions struct {
	APIKeys      []string
	MaxBodyBytes int64
	// TrustProxy enables chi RealIP; only behind a proxy that sets X-Forwarded-For.
	TrustProxy bool
}

// NewRouter mounts the API routes and the middleware chain.
func NewRouter(s *Server, logger *zap.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(WideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())
	r.Use(RequestContextMiddleware)
	r.Use(MaxBodyBytes(opts.MaxBodyBytes))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.SearchProducts)
		r.Post("/search", s.SearchProducts)
		r.Get("/recommendations", s.GetRecommendations)
		r.Post("/recommendations", s.GetRecommendations)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Success: false, Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Success: false, Error: "method not allowed"})
	})

	return r
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/query"
	healthuc "github.com/kailas-cloud/marketsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/marketsearch/internal/usecase/search"
)

// Client-facing messages. Raw errors are logged, never returned.
const (
	msgSearchUnavailable = "Search is temporarily unavailable. Please try again shortly."
	msgSearchFailed      = "Search failed. Please try again."
	msgSearchUnexpected  = "An error occurred while searching"
	msgRecommendFailed   = "Failed to fetch recommendations"
)

// Searcher runs the hybrid search pipeline.
type Searcher interface {
	Search(ctx context.Context, rc domain.RequestContext, q query.Query) (searchuc.Response, error)
}

// Recommender serves autocomplete suggestions.
type Recommender interface {
	Recommend(ctx context.Context, rc domain.RequestContext, req domrec.Request) ([]domrec.Recommendation, error)
}

// HealthChecker aggregates backend health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler maps a domain error to a status and a safe message. ok is false when unmatched.
type errorHandler func(err error) (status int, msg string, ok bool)

// Server serves the search HTTP API.
type Server struct {
	search          Searcher
	recommend       Recommender
	health          HealthChecker
	metrics         http.Handler
	logger          *zap.Logger
	searchErrors    []errorHandler
	recommendErrors []errorHandler
}

// NewServer creates an HTTP API server. health may be nil.
func NewServer(search Searcher, recommend Recommender, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:    search,
		recommend: recommend,
		health:    health,
		metrics:   promhttp.Handler(),
		logger:    logger,
		searchErrors: []errorHandler{
			sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, msgSearchUnavailable),
			sentinelHandler(domain.ErrRankingFailed, http.StatusInternalServerError, msgSearchFailed),
		},
		recommendErrors: []errorHandler{
			sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, msgSearchUnavailable),
			sentinelHandler(domain.ErrLookupFailed, http.StatusInternalServerError, msgRecommendFailed),
		},
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(err error) (int, string, bool) {
		if !errors.Is(err, sentinel) {
			return 0, "", false
		}
		return status, msg, true
	}
}

func resolveError(handlers []errorHandler, err error, fallback string) (int, string) {
	for _, h := range handlers {
		if status, msg, ok := h(err); ok {
			return status, msg
		}
	}
	return http.StatusInternalServerError, fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package search

import (
	"context"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/rank"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
)

// Ranker runs the hybrid ranking backend and returns candidates in ranked order.
type Ranker interface {
	Rank(ctx context.Context, rc domain.RequestContext, req rank.Request) ([]result.Result, error)
}

// Embedder produces the query embedding, nil when unavailable.
type Embedder interface {
	Generate(ctx context.Context, text string) []float32
}

// Limiter throttles callers by key. Implementations fail open.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

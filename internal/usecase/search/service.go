package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/page"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/query"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/rank"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
	"github.com/kailas-cloud/marketsearch/internal/logger"
	"github.com/kailas-cloud/marketsearch/internal/metrics"
)

const (
	modeHybrid   = "hybrid"
	modeTextOnly = "text_only"
)

// Response is one page of post-filtered ranked results.
type Response struct {
	Results    []result.Result
	Pagination page.Pagination
	Query      string
}

// Service orchestrates a hybrid product search: embed, rank, filter, paginate.
type Service struct {
	ranker    Ranker
	embed     Embedder
	limiter   Limiter
	overfetch int
	logger    *zap.Logger
}

// Option configures the search service.
type Option func(*Service)

// WithLimiter enables per-caller throttling.
func WithLimiter(l Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithOverfetchFactor sets the match count multiplier.
func WithOverfetchFactor(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.overfetch = n
		}
	}
}

// New creates a search service. embed may be nil for text-only deployments.
func New(ranker Ranker, embed Embedder, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		ranker:    ranker,
		embed:     embed,
		overfetch: rank.DefaultOverfetchFactor,
		logger:    log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search runs the pipeline for a normalized query.
// Empty text short-circuits to an empty page without touching any backend.
func (s *Service) Search(ctx context.Context, rc domain.RequestContext, q query.Query) (Response, error) {
	if q.IsEmpty() {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeEmpty, modeTextOnly).Inc()
		return Response{
			Results:    []result.Result{},
			Pagination: page.Empty(q.Page(), q.Limit()),
		}, nil
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, "search:"+rc.RateLimitKey()) {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeRateLimited, modeTextOnly).Inc()
		metrics.RateLimitedTotal.WithLabelValues("search").Inc()
		return Response{}, fmt.Errorf("search: %w", domain.ErrRateLimited)
	}

	var embedding []float32
	if s.embed != nil {
		embedding = s.embed.Generate(ctx, q.Text())
	}

	req := rank.NewRequest(
		q.Text(), embedding, rank.MatchCount(q.Limit(), s.overfetch),
		q.FullTextWeight(), q.SemanticWeight(),
	)
	mode := modeTextOnly
	if req.HasEmbedding() {
		mode = modeHybrid
	}

	ranked, err := s.ranker.Rank(ctx, rc, req)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Error("Hybrid ranking failed",
			zap.String("request_id", rc.RequestID),
			zap.String("mode", mode),
			zap.Int("match_count", req.MatchCount),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrRateLimited) {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeRateLimited, mode).Inc()
			return Response{}, fmt.Errorf("rank: %w", err)
		}
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError, mode).Inc()
		if errors.Is(err, domain.ErrRankingFailed) {
			return Response{}, fmt.Errorf("rank: %w", err)
		}
		return Response{}, fmt.Errorf("rank: %w: %w", domain.ErrRankingFailed, err)
	}
	metrics.RankingCandidates.Observe(float64(len(ranked)))

	f := filter.Filter{
		CategoryID:   q.CategoryID(),
		UniversityID: q.UniversityID(),
		MinPrice:     q.MinPrice(),
		MaxPrice:     q.MaxPrice(),
	}
	filtered := f.Apply(ranked)
	if len(ranked) > 0 {
		metrics.FilteredOutRatio.Observe(float64(len(ranked)-len(filtered)) / float64(len(ranked)))
	}

	data, p := page.Paginate(filtered, q.Page(), q.Limit())
	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeOK, mode).Inc()

	return Response{
		Results:    data,
		Pagination: p,
		Query:      q.Text(),
	}, nil
}

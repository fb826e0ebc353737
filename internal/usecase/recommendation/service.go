package recommendation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/pattern"
	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/logger"
	"github.com/kailas-cloud/marketsearch/internal/metrics"
)

// Service serves autocomplete suggestions by title substring.
type Service struct {
	lookup  Lookup
	limiter Limiter
	logger  *zap.Logger
}

// New creates a recommendation service. limiter may be nil.
func New(lookup Lookup, limiter Limiter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{lookup: lookup, limiter: limiter, logger: log}
}

// Recommend returns up to req.Limit() suggestions in lookup order.
// Text shorter than the minimum length yields an empty list without a lookup.
func (s *Service) Recommend(
	ctx context.Context, rc domain.RequestContext, req domrec.Request,
) ([]domrec.Recommendation, error) {
	if req.TooShort() {
		metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return []domrec.Recommendation{}, nil
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, "recommend:"+rc.RateLimitKey()) {
		metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		metrics.RateLimitedTotal.WithLabelValues("recommend").Inc()
		return []domrec.Recommendation{}, fmt.Errorf("recommend: %w", domain.ErrRateLimited)
	}

	recs, err := s.lookup.FindByTitle(ctx, rc, pattern.Contains(req.Text()), req.Limit())
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		logger.FromContextOr(ctx, s.logger).Error("Recommendation lookup failed",
			zap.String("request_id", rc.RequestID),
			zap.Error(err),
		)
		return []domrec.Recommendation{}, fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
	}

	if recs == nil {
		recs = []domrec.Recommendation{}
	}
	if len(recs) > req.Limit() {
		recs = recs[:req.Limit()]
	}
	metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return recs, nil
}

package catalog

import (
	"context"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/pattern"
	"github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
)

// FindByTitle scans products in catalog order with ILIKE semantics.
func (c *Catalog) FindByTitle(
	ctx context.Context, _ domain.RequestContext, likePattern string, limit int,
) ([]recommendation.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 1 {
		return []recommendation.Recommendation{}, nil
	}
	out := make([]recommendation.Recommendation, 0, limit)
	for i := range c.items {
		if len(out) >= limit {
			break
		}
		it := &c.items[i]
		if !it.IsActive || it.StockQuantity <= 0 {
			continue
		}
		if pattern.Match(likePattern, it.Title) {
			out = append(out, it.toRecommendation())
		}
	}
	return out, nil
}

package recommendation

import (
	"context"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
)

// Lookup finds active, in-stock products whose title matches a LIKE pattern.
// The pattern is already escaped; implementations must use '\' as the escape character.
type Lookup interface {
	FindByTitle(ctx context.Context, rc domain.RequestContext, likePattern string, limit int) ([]domrec.Recommendation, error)
}

// Limiter throttles callers by key. Implementations fail open.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

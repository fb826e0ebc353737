package marketsearch

import "github.com/kailas-cloud/marketsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRankingFailed = domain.ErrRankingFailed
	ErrRateLimited   = domain.ErrRateLimited
	ErrLookupFailed  = domain.ErrLookupFailed
)

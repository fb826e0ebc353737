package ratelimit

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/logger"
)

const keyPrefix = "marketsearch:rl:"

// Limiter is a fixed-window request limiter.
// Store failures let the request through; throttling is never worth a failed search.
type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a limiter allowing limit requests per window.
// A nil counter or non-positive limit yields a limiter that allows everything.
func New(counter Counter, limit int, window time.Duration, log *zap.Logger) *Limiter {
	if log == nil {
		log = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		now:     time.Now,
		logger:  log,
	}
}

// Allow reports whether the caller identified by key may proceed in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.counter == nil || l.limit <= 0 {
		return true
	}

	n, err := l.counter.IncrWithExpire(ctx, l.windowKey(key), l.window)
	if err != nil {
		logger.FromContextOr(ctx, l.logger).Warn("Rate limiter unavailable, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	return n <= l.limit
}

// windowKey buckets the key by window start so stale counters never leak into a new window.
func (l *Limiter) windowKey(key string) string {
	bucket := l.now().UnixNano() / int64(l.window)
	return keyPrefix + key + ":" + strconv.FormatInt(bucket, 10)
}

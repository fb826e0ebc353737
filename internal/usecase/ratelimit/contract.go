package ratelimit

import (
	"context"
	"time"
)

// Counter increments a windowed counter, starting its expiry on first use.
type Counter interface {
	IncrWithExpire(ctx context.Context, key string, window time.Duration) (int64, error)
}

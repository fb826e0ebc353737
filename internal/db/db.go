package db

import (
	"context"
	"time"
)

// Store is the Redis facade used by the service: health and rate limit counters.
type Store interface {
	Pinger
	Counter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter provides fixed-window counters.
type Counter interface {
	// IncrWithExpire increments key and starts its TTL on the first increment only.
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

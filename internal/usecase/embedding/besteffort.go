package embedding

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/logger"
	"github.com/kailas-cloud/marketsearch/internal/metrics"
)

// DefaultTimeout bounds a single embedding attempt.
const DefaultTimeout = 3 * time.Second

// Fallback reasons reported to metrics and logs.
const (
	reasonTimeout     = "timeout"
	reasonError       = "error"
	reasonEmptyVector = "empty_vector"
)

// BestEffort turns an Embedder into an optional signal: any failure yields nil
// and the caller degrades to text-only ranking.
type BestEffort struct {
	inner      domain.Embedder
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// Option configures BestEffort.
type Option func(*BestEffort)

// WithTimeout sets the per-attempt deadline. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(b *BestEffort) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithRetries sets how many extra attempts follow a failed one and the pause between them.
func WithRetries(n int, backoff time.Duration) Option {
	return func(b *BestEffort) {
		if n > 0 {
			b.maxRetries = n
		}
		if backoff > 0 {
			b.backoff = backoff
		}
	}
}

// NewBestEffort wraps inner. A nil inner disables embeddings entirely.
func NewBestEffort(inner domain.Embedder, log *zap.Logger, opts ...Option) *BestEffort {
	if log == nil {
		log = zap.NewNop()
	}
	b := &BestEffort{
		inner:   inner,
		timeout: DefaultTimeout,
		backoff: 100 * time.Millisecond,
		logger:  log,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Generate returns the query embedding, or nil when the text is empty or the
// provider could not produce a vector. It never returns an error.
func (b *BestEffort) Generate(ctx context.Context, text string) []float32 {
	if b == nil || b.inner == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	log := logger.FromContextOr(ctx, b.logger)

	var (
		lastErr error
		reason  string
	)
attempts:
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				break attempts
			case <-time.After(b.backoff):
			}
		}

		vec, err := b.attempt(ctx, text)
		if err == nil {
			return vec
		}
		lastErr = err
		reason = classify(err)

		// Caller went away; further attempts cannot succeed.
		if ctx.Err() != nil {
			break attempts
		}
	}

	metrics.EmbeddingFallbacksTotal.WithLabelValues(reason).Inc()
	log.Warn("Embedding unavailable, falling back to text-only ranking",
		zap.String("reason", reason),
		zap.Error(lastErr),
	)
	return nil
}

func (b *BestEffort) attempt(ctx context.Context, text string) ([]float32, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res, err := b.inner.Embed(attemptCtx, text)
	if err != nil {
		return nil, err
	}
	if len(res.Embedding) == 0 {
		return nil, domain.ErrEmptyEmbedding
	}
	return res.Embedding, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, domain.ErrEmptyEmbedding):
		return reasonEmptyVector
	default:
		return reasonError
	}
}

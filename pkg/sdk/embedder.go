package marketsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/marketsearch/internal/domain"
)

// Embedder converts query text to a vector. Failures are tolerated:
// search falls back to text-only ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	v, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

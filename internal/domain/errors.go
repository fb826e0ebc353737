package domain

import "errors"

var (
	// ErrRankingFailed signals that the hybrid ranking backend could not produce results.
	ErrRankingFailed = errors.New("ranking failed")
	// ErrRateLimited signals throttling, either by the ranking backend or by the local limiter.
	ErrRateLimited = errors.New("rate limited")
	// ErrLookupFailed signals a failed recommendation lookup.
	ErrLookupFailed = errors.New("recommendation lookup failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmptyEmbedding signals a provider answer without a usable vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
)

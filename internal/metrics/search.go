package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Search and recommendation Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketsearch",
			Name:      "searches_total",
			Help:      "Hybrid searches by outcome",
		},
		[]string{"outcome", "mode"}, // mode: "hybrid" / "text_only"
	)

	RankingCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marketsearch",
			Name:      "ranking_candidates",
			Help:      "Candidates returned by the ranking backend before post-filtering",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	FilteredOutRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marketsearch",
			Name:      "postfilter_dropped_ratio",
			Help:      "Share of ranked candidates removed by post-filtering",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketsearch",
			Name:      "recommendation_lookups_total",
			Help:      "Autocomplete lookups by outcome",
		},
		[]string{"outcome"},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketsearch",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the local rate limiter",
		},
		[]string{"scope"},
	)
)

var searchMetricsOnce sync.Once

// RegisterSearchMetrics registers search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	searchMetricsOnce.Do(func() {
		prometheus.MustRegister(SearchesTotal)
		prometheus.MustRegister(RankingCandidates)
		prometheus.MustRegister(FilteredOutRatio)
		prometheus.MustRegister(RecommendationsTotal)
		prometheus.MustRegister(RateLimitedTotal)
	})
}

package marketsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn         string
	catalog     []CatalogItem
	catalogFile string

	embedder         Embedder
	embeddingTimeout time.Duration

	redisAddr         string
	redisPassword     string
	requestsPerWindow int
	window            time.Duration

	overfetch int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres ranks through the hybrid_search function of the given database.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithCatalog serves search from an in-memory product list.
func WithCatalog(items []CatalogItem) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = items
	})
}

// WithCatalogFile serves search from a YAML seed file.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogFile = path
	})
}

// WithEmbedder enables semantic ranking. Without it search is text-only.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingTimeout bounds each embedding call. Default: 3s.
func WithEmbeddingTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingTimeout = d
	})
}

// WithRateLimit throttles calls through a Redis fixed-window counter.
func WithRateLimit(addr, password string, requestsPerWindow int, window time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.requestsPerWindow = requestsPerWindow
		c.window = window
	})
}

// WithOverfetchFactor sets how many candidates per result slot are ranked
// before post-filtering. Default: 5.
func WithOverfetchFactor(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.overfetch = n
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

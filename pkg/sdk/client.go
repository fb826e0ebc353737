package marketsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/marketsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/marketsearch/internal/db/redis"
	"github.com/kailas-cloud/marketsearch/internal/domain"
	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/query"
	"github.com/kailas-cloud/marketsearch/internal/repository/catalog"
	productrepo "github.com/kailas-cloud/marketsearch/internal/repository/product"
	rankingrepo "github.com/kailas-cloud/marketsearch/internal/repository/ranking"
	embeddinguc "github.com/kailas-cloud/marketsearch/internal/usecase/embedding"
	"github.com/kailas-cloud/marketsearch/internal/usecase/ratelimit"
	recuc "github.com/kailas-cloud/marketsearch/internal/usecase/recommendation"
	searchuc "github.com/kailas-cloud/marketsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, rc domain.RequestContext, q query.Query) (searchuc.Response, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, rc domain.RequestContext, req domrec.Request) ([]domrec.Recommendation, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the marketsearch SDK entry point. Safe for concurrent use.
type Client struct {
	search    searchUseCase
	recommend recommendUseCase
	pinger    pinger
	closers   []func()
	obs       *observer
}

type backend struct {
	ranker searchuc.Ranker
	lookup recuc.Lookup
	pinger pinger
	close  func()
}

// New creates a Client. Exactly one catalog source is required:
// WithPostgres, WithCatalog or WithCatalogFile.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	closers := []func(){be.close}

	var limiter *ratelimit.Limiter
	if cfg.redisAddr != "" {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			be.close()
			return nil, fmt.Errorf("marketsearch: create redis store: %w", err)
		}
		closers = append(closers, store.Close)
		limiter = ratelimit.New(store, cfg.requestsPerWindow, cfg.window, obs.logger)
	}

	return wireClient(cfg, be, limiter, closers, obs), nil
}

func openBackend(ctx context.Context, cfg *clientConfig) (backend, error) {
	sources := 0
	for _, set := range []bool{cfg.dsn != "", cfg.catalog != nil, cfg.catalogFile != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return backend{}, errors.New(
			"marketsearch: catalog source required (use WithPostgres, WithCatalog or WithCatalogFile)",
		)
	case sources > 1:
		return backend{}, errors.New("marketsearch: only one catalog source may be configured")
	}

	switch {
	case cfg.dsn != "":
		pool, err := postgres.NewPool(ctx, postgres.Config{DSN: cfg.dsn})
		if err != nil {
			return backend{}, fmt.Errorf("marketsearch: create postgres pool: %w", err)
		}
		if err := pool.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			pool.Close()
			return backend{}, fmt.Errorf("marketsearch: database not ready: %w", err)
		}
		return backend{
			ranker: rankingrepo.New(pool.Querier()),
			lookup: productrepo.New(pool.Querier()),
			pinger: pool,
			close:  pool.Close,
		}, nil
	case cfg.catalogFile != "":
		c, err := catalog.Load(cfg.catalogFile)
		if err != nil {
			return backend{}, fmt.Errorf("marketsearch: %w", err)
		}
		return memoryBackend(c), nil
	default:
		return memoryBackend(catalog.New(toCatalogItems(cfg.catalog))), nil
	}
}

func memoryBackend(c *catalog.Catalog) backend {
	return backend{ranker: c, lookup: c, pinger: c, close: func() {}}
}

func wireClient(cfg *clientConfig, be backend, limiter *ratelimit.Limiter, closers []func(), obs *observer) *Client {
	var inner domain.Embedder
	if cfg.embedder != nil {
		inner = &embedderAdapter{inner: cfg.embedder}
	}
	embed := embeddinguc.NewBestEffort(inner, obs.logger, embeddinguc.WithTimeout(cfg.embeddingTimeout))

	searchOpts := []searchuc.Option{searchuc.WithOverfetchFactor(cfg.overfetch)}
	var recLimiter recuc.Limiter
	if limiter != nil {
		searchOpts = append(searchOpts, searchuc.WithLimiter(limiter))
		recLimiter = limiter
	}

	return &Client{
		search:    searchuc.New(be.ranker, embed, obs.logger, searchOpts...),
		recommend: recuc.New(be.lookup, recLimiter, obs.logger),
		pinger:    be.pinger,
		closers:   closers,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Ping checks catalog connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a hybrid search. An empty query returns an empty page without touching the catalog.
func (c *Client) Search(ctx context.Context, p SearchParams) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	r, err := c.search.Search(ctx, domain.RequestContext{}, p.toQuery())
	if err != nil {
		return SearchResponse{Products: []Product{}}, fmt.Errorf("search: %w", err)
	}
	return fromSearchResponse(r), nil
}

// Recommend returns up to limit titles containing text. limit <= 0 uses the default of 5;
// values above 10 are capped. Text shorter than two characters yields an empty list.
func (c *Client) Recommend(ctx context.Context, text string, limit int) (recs []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	out, err := c.recommend.Recommend(ctx, domain.RequestContext{}, domrec.NewRequest(text, formatPositive(limit)))
	if err != nil {
		return []Recommendation{}, fmt.Errorf("recommend: %w", err)
	}
	return fromRecommendations(out), nil
}

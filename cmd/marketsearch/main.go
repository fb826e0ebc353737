package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/config"
	"github.com/kailas-cloud/marketsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/marketsearch/internal/db/redis"
	"github.com/kailas-cloud/marketsearch/internal/domain"
	logpkg "github.com/kailas-cloud/marketsearch/internal/logger"
	"github.com/kailas-cloud/marketsearch/internal/metrics"
	"github.com/kailas-cloud/marketsearch/internal/repository/catalog"
	productrepo "github.com/kailas-cloud/marketsearch/internal/repository/product"
	rankingrepo "github.com/kailas-cloud/marketsearch/internal/repository/ranking"
	chiTransport "github.com/kailas-cloud/marketsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/marketsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/marketsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/marketsearch/internal/usecase/health"
	"github.com/kailas-cloud/marketsearch/internal/usecase/ratelimit"
	recuc "github.com/kailas-cloud/marketsearch/internal/usecase/recommendation"
	searchuc "github.com/kailas-cloud/marketsearch/internal/usecase/search"
	"github.com/kailas-cloud/marketsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting marketsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("embedding_enabled", cfg.Embedding.Enabled()),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	backend, err := openCatalog(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open catalog", zap.Error(err))
	}
	defer backend.close()

	// Rate limiting is optional; without Redis every request is allowed.
	var limiter *ratelimit.Limiter
	var redisPinger healthuc.Pinger
	if len(cfg.Redis.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Warn("Redis not ready, rate limiter fails open until it is", zap.Error(err))
		}
		limiter = ratelimit.New(store, cfg.Redis.RateLimit.RequestsPerWindow, cfg.Redis.RateLimit.Window(), logger)
		redisPinger = store
	}

	queryEmbedder, embeddingChecker := buildEmbedder(cfg.Embedding, logger)

	searchOpts := []searchuc.Option{searchuc.WithOverfetchFactor(cfg.Search.OverfetchFactor)}
	var recLimiter recuc.Limiter
	if limiter != nil {
		searchOpts = append(searchOpts, searchuc.WithLimiter(limiter))
		recLimiter = limiter
	}

	searchSvc := searchuc.New(backend.ranker, queryEmbedder, logger, searchOpts...)
	recSvc := recuc.New(backend.lookup, recLimiter, logger)
	healthSvc := healthuc.New(backend.pinger, redisPinger, embeddingChecker)

	server := chiTransport.NewServer(searchSvc, recSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, logger, chiTransport.RouterOptions{
		APIKeys:      cfg.Auth.APIKeys,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		TrustProxy:   cfg.HTTP.TrustProxy,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// catalogBackend is the product store behind search and autocomplete.
type catalogBackend struct {
	ranker searchuc.Ranker
	lookup recuc.Lookup
	pinger healthuc.Pinger
	close  func()
}

// openCatalog connects the configured driver: Postgres in production, a YAML seed in memory otherwise.
func openCatalog(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (catalogBackend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:             cfg.DSN,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: time.Duration(cfg.MaxConnLifetimeSec) * time.Second,
		})
		if err != nil {
			return catalogBackend{}, fmt.Errorf("create postgres pool: %w", err)
		}
		if err := pool.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			pool.Close()
			return catalogBackend{}, fmt.Errorf("postgres not ready: %w", err)
		}
		logger.Info("Connected to postgres")
		return catalogBackend{
			ranker: rankingrepo.New(pool.Querier()),
			lookup: productrepo.New(pool.Querier()),
			pinger: pool,
			close:  pool.Close,
		}, nil
	case config.DriverMemory:
		c, err := catalog.Load(cfg.SeedFile)
		if err != nil {
			return catalogBackend{}, fmt.Errorf("load seed catalog: %w", err)
		}
		logger.Info("Loaded in-memory catalog",
			zap.String("seed_file", cfg.SeedFile),
			zap.Int("products", c.Len()),
		)
		return catalogBackend{ranker: c, lookup: c, pinger: c, close: func() {}}, nil
	default:
		return catalogBackend{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// buildEmbedder assembles the query embedding chain: OpenAI -> Instruction -> BestEffort.
// Without an API key search runs text-only and the health check skips the provider.
func buildEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) (searchuc.Embedder, healthuc.EmbeddingChecker) {
	if !cfg.Enabled() {
		logger.Info("Embedding provider not configured, search runs text-only")
		return embeddinguc.NewBestEffort(nil, logger), nil
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(base, cfg.QueryInstruction)
	}

	logger.Info("Embedder created",
		zap.String("model", cfg.Model),
		zap.Int("dimensions", cfg.Dimensions),
		zap.Duration("timeout", cfg.Timeout()),
		zap.Int("max_retries", cfg.MaxRetries),
	)

	return embeddinguc.NewBestEffort(embedder, logger,
		embeddinguc.WithTimeout(cfg.Timeout()),
		embeddinguc.WithRetries(cfg.MaxRetries, cfg.RetryBackoff()),
	), base
}

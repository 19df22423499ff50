package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mkarpova/enrichment-service/internal/analytics"
	"github.com/mkarpova/enrichment-service/internal/cache"
	"github.com/mkarpova/enrichment-service/internal/config"
	"github.com/mkarpova/enrichment-service/internal/enrich"
	"github.com/mkarpova/enrichment-service/internal/handler"
	"github.com/mkarpova/enrichment-service/internal/logging"
	"github.com/mkarpova/enrichment-service/internal/repository"
	"github.com/mkarpova/enrichment-service/internal/router"
	"github.com/mkarpova/enrichment-service/internal/service"
	"github.com/mkarpova/enrichment-service/internal/textgen"
	"github.com/mkarpova/enrichment-service/internal/watcher"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL (optional) ---------------
	var repo *repository.Repository
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Error("invalid database config", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.DBPoolSize)
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Error("cannot connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo = repository.New(pool)
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("enrichment history persistence enabled")
	} else {
		logger.Info("no DATABASE_URL configured, history persistence disabled")
	}

	// ------------ Redis (optional) ---------------
	var resultCache *cache.ResultCache
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis config", "error", err)
			os.Exit(1)
		}
		resultCache = cache.NewResultCache(goredis.NewClient(opts), cfg.CacheTTL)
		if err := resultCache.Ping(ctx); err != nil {
			logger.Error("cannot connect to redis", "error", err)
			os.Exit(1)
		}
		logger.Info("result cache enabled", "ttl", cfg.CacheTTL)
	} else {
		logger.Info("no REDIS_URL configured, result cache disabled")
	}

	// ------------ Pipeline ---------------
	var generator textgen.Generator
	if cfg.TextGen.APIKey != "" {
		generator = textgen.NewOpenAIGenerator(cfg.TextGen.Endpoint, cfg.TextGen.Model, cfg.TextGen.APIKey)
		logger.Info("remote text generation enabled", "model", cfg.TextGen.Model)
	}

	registry := enrich.NewDefaultRegistry(generator)
	orchestrator := enrich.NewOrchestrator(registry, logger.With("component", "orchestrator"))
	coordinator := enrich.NewCoordinator(orchestrator, cfg.BatchWorkers, logger.With("component", "batch"))
	aggregator := analytics.NewAggregator()

	svc := service.New(orchestrator, coordinator, aggregator, resultCache, repo, logger.With("component", "service"))

	// ------------ Feed watcher (optional) ---------------
	if cfg.FeedDir != "" {
		fw, err := watcher.New(cfg.FeedDir, svc, cfg.Defaults, logger.With("component", "watcher"))
		if err != nil {
			logger.Error("cannot create feed watcher", "error", err)
			os.Exit(1)
		}
		defer fw.Stop()
		if err := fw.Start(ctx); err != nil {
			logger.Error("cannot watch feed directory", "dir", cfg.FeedDir, "error", err)
			os.Exit(1)
		}
	}

	// ---------------- Server --------------------
	h := handler.NewHandler(svc, cfg.Defaults, cfg.MaxBatchSize)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.Setup(h),
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

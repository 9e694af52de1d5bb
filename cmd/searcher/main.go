package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/cache"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/executor"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/handler"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/reloader"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/health"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/logger"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/middleware"
	pkgredis "github.com/imamaawais/Boolean-Retrieval-Model/pkg/redis"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "index_path", cfg.Indexer.IndexPath())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	var (
		queryCache  *cache.QueryCache
		redisClient *pkgredis.Client
	)
	if cfg.Redis.Enabled {
		err := resilience.Retry(ctx, "redis-connect", resilience.RetryConfig{}, func() error {
			var err error
			redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
			return err
		})
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m).
				WithBreaker(resilience.NewBreaker("redis-cache", 5, 30*time.Second))
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	exec := executor.New(cfg.Search, executor.WithMetrics(m))
	var invalidator reloader.Invalidator
	if queryCache != nil {
		invalidator = queryCache
	}
	reload := reloader.New(exec, invalidator, cfg.Indexer.LoadTimeout)

	path := cfg.Indexer.IndexPath()
	if segment.Exists(path) {
		if _, err := reload.LoadPath(ctx, path); err != nil {
			slog.Error("failed to load index, serving not-ready until the next build", "path", path, "error", err)
		}
	} else {
		slog.Warn("no index on disk yet, waiting for a build", "path", path)
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete, indexer.IndexBuiltEventType, reload.HandleMessage)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("index event consumer error", "error", err)
			}
		}()
		slog.Info("listening for index events", "topic", cfg.Kafka.Topics.IndexComplete)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) (string, error) {
		snap := exec.Snapshot()
		if snap == nil {
			return "", errors.New("no snapshot installed")
		}
		return fmt.Sprintf("version %d, %d documents, %d terms", snap.Version, snap.DocCount(), snap.TermCount()), nil
	})
	if redisClient != nil {
		checker.RegisterOptional("redis", func(ctx context.Context) (string, error) {
			return cfg.Redis.Addr, redisClient.Ping(ctx)
		})
	}

	mux := http.NewServeMux()
	handler.New(exec, queryCache).Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

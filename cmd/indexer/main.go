package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/feed"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/logger"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
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
	slog.Info("starting indexer",
		"source", cfg.Indexer.Source,
		"num_shards", cfg.Indexer.NumShards,
		"index_path", cfg.Indexer.IndexPath(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []indexer.Option{indexer.WithMetrics(metrics.New(nil))}
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
		defer producer.Close()
		opts = append(opts, indexer.WithPublisher(producer))
		slog.Info("index events enabled", "topic", cfg.Kafka.Topics.IndexComplete)
	}

	src, closeSrc, err := feed.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document source", "error", err)
		os.Exit(1)
	}
	defer closeSrc()

	report, err := indexer.NewEngine(src, cfg.Indexer, opts...).Run(ctx)
	if err != nil {
		slog.Error("index build failed", "error", err)
		stop()
		os.Exit(1)
	}

	slog.Info("indexer finished",
		"version", report.Version,
		"path", report.Path,
		"documents", report.Documents,
		"terms", report.Terms,
		"published", report.Published,
	)
}

// Package indexer runs a full index build: fetch the corpus, normalize it,
// build the snapshot across shards, persist it and announce it.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/feed"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/shard"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/tokenizer"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/resilience"
)

// Publisher announces built snapshots. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// ProgressFunc is told how many documents will be normalized and returns
// the callback invoked after each one.
type ProgressFunc func(total int) (step func())

type Engine struct {
	source    feed.Source
	cfg       config.IndexerConfig
	normalize feed.NormalizeFunc
	publisher Publisher
	metrics   *metrics.Metrics
	progress  ProgressFunc
	logger    *slog.Logger
}

type Option func(*Engine)

func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithProgress(p ProgressFunc) Option {
	return func(e *Engine) { e.progress = p }
}

// WithNormalizer replaces the default tokenizer.Normalize.
func WithNormalizer(n feed.NormalizeFunc) Option {
	return func(e *Engine) { e.normalize = n }
}

func NewEngine(source feed.Source, cfg config.IndexerConfig, opts ...Option) *Engine {
	e := &Engine{
		source:    source,
		cfg:       cfg,
		normalize: tokenizer.Normalize,
		logger:    slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildReport describes a completed Run.
type BuildReport struct {
	Version   int64         `json:"version"`
	Path      string        `json:"path"`
	Documents int           `json:"documents"`
	Terms     int           `json:"terms"`
	Duration  time.Duration `json:"duration"`
	Published bool          `json:"published"`
}

// Build fetches and normalizes the corpus and indexes it in memory.
func (e *Engine) Build(ctx context.Context) (*index.Snapshot, error) {
	raws, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching corpus from %s: %w", e.source.Name(), err)
	}
	var step func()
	if e.progress != nil {
		step = e.progress(len(raws))
	}
	docs, err := feed.Normalize(raws, e.normalize, step)
	if err != nil {
		return nil, fmt.Errorf("normalizing corpus: %w", err)
	}
	snap, err := shard.BuildParallel(ctx, docs, e.cfg.NumShards)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	e.logger.Info("index built in memory",
		"source", e.source.Name(),
		"documents", snap.DocCount(),
		"terms", snap.TermCount(),
		"version", snap.Version,
	)
	return snap, nil
}

// Persist writes snap to the configured index path and returns that path.
func (e *Engine) Persist(snap *index.Snapshot) (string, error) {
	path := e.cfg.IndexPath()
	if err := segment.Save(path, snap); err != nil {
		return "", fmt.Errorf("persisting index: %w", err)
	}
	e.logger.Info("index persisted", "path", path, "files", segment.Files(path))
	return path, nil
}

// Run performs a full build, persists the snapshot and publishes an
// IndexBuiltEvent when a publisher is configured. A failed publish does not
// fail the build: the snapshot is already on disk.
func (e *Engine) Run(ctx context.Context) (*BuildReport, error) {
	start := time.Now()
	snap, err := e.Build(ctx)
	if err != nil {
		e.metrics.ObserveBuild("failed", time.Since(start))
		return nil, err
	}
	path, err := e.Persist(snap)
	if err != nil {
		e.metrics.ObserveBuild("failed", time.Since(start))
		return nil, err
	}

	report := &BuildReport{
		Version:   snap.Version,
		Path:      path,
		Documents: snap.DocCount(),
		Terms:     snap.TermCount(),
	}
	if e.publisher != nil {
		event := IndexBuiltEvent{
			Version:   snap.Version,
			Path:      path,
			Documents: report.Documents,
			Terms:     report.Terms,
			BuiltAt:   snap.BuiltAt,
		}
		err := resilience.Retry(ctx, "publish-index-built", resilience.RetryConfig{MaxAttempts: 3}, func() error {
			return e.publisher.Publish(ctx, kafka.Event{
				Key:   strconv.FormatInt(snap.Version, 10),
				Type:  IndexBuiltEventType,
				Value: event,
			})
		})
		if err != nil {
			e.logger.Error("failed to publish index built event", "version", snap.Version, "error", err)
		} else {
			report.Published = true
		}
	}

	report.Duration = time.Since(start)
	e.metrics.ObserveBuild("success", report.Duration)
	e.logger.Info("index build complete",
		"version", report.Version,
		"documents", report.Documents,
		"terms", report.Terms,
		"published", report.Published,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

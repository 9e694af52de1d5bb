// Package shard builds an index in parallel. The feed is cut into
// contiguous runs, one per shard, each shard is indexed by its own
// Builder, and the shard snapshots are merged into one.
package shard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
)

// Partition cuts docs into at most numShards contiguous runs of near-equal
// length. Because the feed is sorted by ID, each run covers an ID range.
func Partition(docs []index.Document, numShards int) [][]index.Document {
	if numShards < 1 {
		numShards = 1
	}
	if numShards > len(docs) {
		numShards = max(len(docs), 1)
	}
	size := (len(docs) + numShards - 1) / numShards
	parts := make([][]index.Document, 0, numShards)
	for start := 0; start < len(docs); start += size {
		parts = append(parts, docs[start:min(start+size, len(docs))])
	}
	return parts
}

// BuildParallel indexes docs across numShards goroutines and merges the
// result. The output is identical to index.Build(docs).
func BuildParallel(ctx context.Context, docs []index.Document, numShards int) (*index.Snapshot, error) {
	if numShards <= 1 {
		return index.Build(docs), nil
	}
	logger := slog.Default().With("component", "shard-builder")
	start := time.Now()

	parts := Partition(docs, numShards)
	snaps := make([]*index.Snapshot, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			b := index.NewBuilder()
			for n, doc := range part {
				if n%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return fmt.Errorf("building shard %d: %w", i, err)
					}
				}
				b.Add(doc.ID, doc.Terms)
			}
			snaps[i] = b.Build()
			logger.Debug("shard built",
				"shard_id", i,
				"documents", len(part),
				"terms", snaps[i].TermCount(),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := index.Merge(snaps...)
	logger.Info("parallel build complete",
		"num_shards", numShards,
		"documents", merged.DocCount(),
		"terms", merged.TermCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return merged, nil
}

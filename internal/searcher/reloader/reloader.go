// Package reloader keeps a searcher's snapshot current. It loads the
// persisted index at startup and, on every index-built event, loads the new
// snapshot off the query path and installs it in one atomic swap.
package reloader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/resilience"
)

// Installer receives loaded snapshots. *executor.Executor satisfies it.
type Installer interface {
	Install(snap *index.Snapshot)
	Snapshot() *index.Snapshot
}

// Invalidator drops cached results. *cache.QueryCache satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// LoadFunc reads a persisted snapshot.
type LoadFunc func(path string) (*index.Snapshot, error)

type Reloader struct {
	installer   Installer
	invalidator Invalidator
	load        LoadFunc
	timeout     time.Duration
	mu          sync.Mutex
	logger      *slog.Logger
}

// New creates a Reloader. invalidator may be nil. timeout bounds a single
// load; zero means no limit.
func New(installer Installer, invalidator Invalidator, timeout time.Duration) *Reloader {
	return &Reloader{
		installer:   installer,
		invalidator: invalidator,
		load:        segment.Load,
		timeout:     timeout,
		logger:      slog.Default().With("component", "snapshot-reloader"),
	}
}

// WithLoader replaces segment.Load, mainly for tests.
func (r *Reloader) WithLoader(load LoadFunc) *Reloader {
	r.load = load
	return r
}

// LoadPath loads the snapshot at path and installs it unless a snapshot of
// the same or a newer version is already installed. It reports whether a
// swap happened.
func (r *Reloader) LoadPath(ctx context.Context, path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var snap *index.Snapshot
	err := resilience.WithTimeout(ctx, r.timeout, "load-snapshot", func(context.Context) error {
		var err error
		snap, err = r.load(path)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("loading snapshot %s: %w", path, err)
	}

	if cur := r.installer.Snapshot(); cur != nil && cur.Version >= snap.Version {
		r.logger.Info("ignoring stale snapshot",
			"path", path,
			"version", snap.Version,
			"installed_version", cur.Version,
		)
		return false, nil
	}
	r.installer.Install(snap)

	if r.invalidator != nil {
		if err := r.invalidator.Invalidate(ctx); err != nil {
			r.logger.Warn("cache invalidation after reload failed", "error", err)
		}
	}
	return true, nil
}

// HandleMessage is a kafka.MessageHandler for IndexBuiltEvent messages.
// Events older than the installed snapshot are acknowledged and skipped.
func (r *Reloader) HandleMessage(ctx context.Context, key, value []byte) error {
	event, err := kafka.DecodeJSON[indexer.IndexBuiltEvent](value)
	if err != nil {
		r.logger.Error("dropping malformed index event", "key", string(key), "error", err)
		return nil
	}
	if cur := r.installer.Snapshot(); cur != nil && cur.Version >= event.Version {
		r.logger.Debug("index event already applied", "version", event.Version)
		return nil
	}
	swapped, err := r.LoadPath(ctx, event.Path)
	if err != nil {
		return err
	}
	r.logger.Info("index event processed",
		"version", event.Version,
		"path", event.Path,
		"documents", event.Documents,
		"swapped", swapped,
	)
	return nil
}

// Package cache memoizes query results in Redis. Keys include the snapshot
// version, so results computed against an older index are never served
// after a new snapshot is installed; Invalidate additionally drops them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/executor"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/parser"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
	pkgredis "github.com/imamaawais/Boolean-Retrieval-Model/pkg/redis"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/resilience"
)

const keyPrefix = "brm:query:"

// Store is the key-value backend. *pkgredis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	breaker *resilience.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// WithBreaker guards Get and Set with b. While it is open lookups are
// misses and stores are skipped, so an unreachable Redis costs nothing per
// query.
func (c *QueryCache) WithBreaker(b *resilience.Breaker) *QueryCache {
	c.breaker = b
	return c
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Total   int64   `json:"total"`
	HitRate float64 `json:"hit_rate"`
}

func (c *QueryCache) Get(ctx context.Context, version int64, query string) (*executor.SearchResult, bool) {
	key := buildKey(version, query)
	var data string
	err := c.guard(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		return err
	})
	if err != nil {
		c.logStoreError("cache get failed", key, err)
		c.miss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	result.Query = query
	c.hits.Add(1)
	c.metrics.CacheHit()
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, version int64, query string, result *executor.SearchResult) {
	key := buildKey(version, query)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.guard(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil {
		c.logStoreError("cache set failed", key, err)
	}
}

// GetOrCompute returns the cached result for query at version, computing
// and storing it on a miss. Concurrent misses for the same key share one
// computation. Errors are returned, never cached. The returned Query is
// always the caller's own spelling, even when the entry was computed for an
// equivalent one.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	version int64,
	query string,
	compute func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, version, query); ok {
		return result, true, nil
	}
	key := buildKey(version, query)
	val, err, _ := c.group.Do(key, func() (any, error) {
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, version, query, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	// Callers joining the flight may have spelled the query differently.
	result := *val.(*executor.SearchResult)
	result.Query = query
	return &result, false, nil
}

// Invalidate deletes every cached query result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	s.Total = s.Hits + s.Misses
	if s.Total > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Total)
	}
	return s
}

func (c *QueryCache) guard(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Do(fn, func(err error) bool { return !pkgredis.IsNilError(err) })
}

func (c *QueryCache) logStoreError(msg, key string, err error) {
	switch {
	case pkgredis.IsNilError(err):
	case errors.Is(err, resilience.ErrBreakerOpen):
		c.logger.Debug(msg, "key", key, "error", err)
	default:
		c.logger.Error(msg, "key", key, "error", err)
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	c.metrics.CacheMiss()
}

// buildKey canonicalizes query the way the executor tokenizes it, so
// "(Cat AND dog)" and "( cat and dog )" share an entry.
func buildKey(version int64, query string) string {
	normalized := strings.Join(parser.SplitTokens(strings.ToLower(query)), " ")
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s%d:%x", keyPrefix, version, hash[:16])
}

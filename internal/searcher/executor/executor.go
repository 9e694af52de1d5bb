// Package executor evaluates queries against the installed index snapshot.
// Queries are classified as empty, single-term, proximity or boolean and
// routed accordingly. Snapshots are swapped atomically, so a query always
// sees exactly one complete index.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/tokenizer"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/parser"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/logger"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/tracing"
)

// SearchResult is the answer to one query. Documents is ascending and never
// nil.
type SearchResult struct {
	Query     string        `json:"query"`
	Kind      QueryKind     `json:"kind"`
	TotalHits int           `json:"total_hits"`
	Documents []index.DocID `json:"documents"`
	Version   int64         `json:"index_version"`
	ElapsedMs float64       `json:"elapsed_ms"`
}

type Executor struct {
	snap    atomic.Pointer[index.Snapshot]
	stem    StemFunc
	cfg     config.SearchConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Executor)

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithStemmer replaces tokenizer.Stem. It must match the normalization used
// when the index was built.
func WithStemmer(stem StemFunc) Option {
	return func(e *Executor) { e.stem = stem }
}

func New(cfg config.SearchConfig, opts ...Option) *Executor {
	e := &Executor{
		stem:   tokenizer.Stem,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Install makes snap the snapshot seen by subsequent queries. Queries
// already running finish on the snapshot they started with.
func (e *Executor) Install(snap *index.Snapshot) {
	prev := e.snap.Swap(snap)
	e.metrics.ObserveSnapshot(snap.Version, snap.TermCount(), snap.DocCount())
	attrs := []any{"version", snap.Version, "terms", snap.TermCount(), "documents", snap.DocCount()}
	if prev != nil {
		attrs = append(attrs, "previous_version", prev.Version)
	}
	e.logger.Info("snapshot installed", attrs...)
}

// Snapshot returns the installed snapshot, or nil before the first Install.
func (e *Executor) Snapshot() *index.Snapshot {
	return e.snap.Load()
}

func (e *Executor) Ready() bool {
	return e.snap.Load() != nil
}

// Execute classifies and evaluates query. Parse and validation failures are
// returned as *parser.ParseError and *ValidationError; a query for absent
// terms is an empty result, not an error.
func (e *Executor) Execute(ctx context.Context, query string) (*SearchResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := e.snap.Load()
	if snap == nil {
		return nil, apperrors.New(apperrors.ErrIndexNotBuilt, http.StatusServiceUnavailable, "no index snapshot installed")
	}

	_, classify := tracing.Child(ctx, "classify")
	tokens := parser.SplitTokens(strings.ToLower(query))
	kind := Classify(tokens)
	classify.Set("kind", kind.String(), "tokens", len(tokens))
	classify.End()

	_, eval := tracing.Child(ctx, "evaluate")
	docs, err := e.route(kind, tokens, snap)
	eval.Set("version", snap.Version, "results", len(docs))
	eval.End()
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.ObserveQuery(kind.String(), "error", elapsed, 0)
		return nil, err
	}

	docs = slices.Clone(docs)
	if docs == nil {
		docs = []index.DocID{}
	}
	slices.Sort(docs)
	e.metrics.ObserveQuery(kind.String(), "ok", elapsed, len(docs))
	logger.FromContext(ctx).Debug("query executed",
		"query", query,
		"kind", kind.String(),
		"results", len(docs),
		"version", snap.Version,
	)
	return &SearchResult{
		Query:     query,
		Kind:      kind,
		TotalHits: len(docs),
		Documents: docs,
		Version:   snap.Version,
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
	}, nil
}

func (e *Executor) route(kind QueryKind, tokens []string, snap *index.Snapshot) ([]index.DocID, error) {
	if limit := e.cfg.MaxQueryTokens; limit > 0 && len(tokens) > limit {
		return nil, &ValidationError{Field: "query", Reason: fmt.Sprintf("has %d tokens, limit is %d", len(tokens), limit)}
	}
	switch kind {
	case KindEmpty:
		return nil, nil
	case KindTerm:
		return snap.Docs(e.stem(tokens[0])), nil
	case KindProximity:
		pq, err := ParseProximity(tokens, e.cfg.DefaultDistance)
		if err != nil {
			return nil, err
		}
		return Proximity(e.stem(pq.Term1), e.stem(pq.Term2), pq.Distance, snap)
	default:
		postfix, err := parser.ToPostfix(tokens)
		if err != nil {
			return nil, err
		}
		return Evaluate(postfix, snap, e.stem), nil
	}
}

// Package handler exposes the query executor over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/cache"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/executor"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/logger"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/tracing"
)

// SearchExecutor is the part of *executor.Executor the handler needs.
type SearchExecutor interface {
	Execute(ctx context.Context, query string) (*executor.SearchResult, error)
	Snapshot() *index.Snapshot
}

type Handler struct {
	executor SearchExecutor
	cache    *cache.QueryCache
	logger   *slog.Logger
}

// New creates a Handler. queryCache may be nil when caching is disabled.
func New(exec SearchExecutor, queryCache *cache.QueryCache) *Handler {
	return &Handler{
		executor: exec,
		cache:    queryCache,
		logger:   slog.Default().With("component", "search-handler"),
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.Start(r.Context(), "search", logger.RequestID(r.Context()))
	log := logger.FromContext(ctx)
	defer func() {
		span.End()
		span.Log(ctx, log)
	}()

	if !r.URL.Query().Has("q") {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	query := r.URL.Query().Get("q")

	var (
		result   *executor.SearchResult
		err      error
		cacheHit bool
	)
	snap := h.executor.Snapshot()
	if h.cache != nil && snap != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, snap.Version, query, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, query)
		})
		span.Set("cache_hit", cacheHit)
	} else {
		result, err = h.executor.Execute(ctx, query)
	}

	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if apperrors.IsClientError(err) {
			log.Info("query rejected", "query", query, "error", err)
			h.writeError(w, status, err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrIndexNotBuilt) {
			h.writeError(w, status, "index not built yet")
			return
		}
		log.Error("search execution failed", "query", query, "error", err)
		h.writeError(w, status, "search failed")
		return
	}

	log.Info("search completed",
		"query", query,
		"kind", result.Kind.String(),
		"total_hits", result.TotalHits,
		"cache_hit", cacheHit,
		"elapsed_ms", result.ElapsedMs,
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	snap := h.executor.Snapshot()
	if snap == nil {
		h.writeError(w, http.StatusServiceUnavailable, "index not built yet")
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Stats())
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.cache.Stats())
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveQuery("boolean", "ok", 2*time.Millisecond, 3)
	m.ObserveQuery("boolean", "parse_error", time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("boolean", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("boolean", "parse_error")))
}

func TestObserveSnapshot(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSnapshot(42, 120, 30)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.SnapshotVersion))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.IndexTerms))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.IndexDocuments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotSwapsTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("term", "ok", time.Millisecond, 1)
		m.ObserveBuild("ok", time.Second)
		m.ObserveSnapshot(1, 1, 1)
		m.CacheHit()
		m.CacheMiss()
	})
}

func TestMuxServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveBuild("success", time.Second)
	mux := Mux(reg)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `retrieval_index_builds_total{status="success"} 1`))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/metrics", rec.Header().Get("Location"))
}

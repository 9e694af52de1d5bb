// Package middleware holds the searcher's HTTP middleware: request IDs,
// Prometheus request metrics and per-request deadlines.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
)

// unmatchedRoute labels requests no ServeMux pattern claimed, so probes for
// arbitrary paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// Metrics counts requests by method, route pattern and status and observes
// their latency. It must wrap the ServeMux directly: r.Pattern is only set
// on the request the mux routed. A nil m returns next unchanged.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		})
	}
}

// statusRecorder remembers the first status written. Zero means the handler
// wrote nothing explicit, which net/http sends as 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

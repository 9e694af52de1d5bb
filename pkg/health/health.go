// Package health runs registered dependency checks concurrently and serves
// the aggregate as liveness and readiness probes. A failing required check
// takes the service down; a failing optional one only degrades it.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Check probes one dependency. The detail string is reported as-is when the
// check passes.
type Check func(ctx context.Context) (detail string, err error)

type ComponentHealth struct {
	Status    Status  `json:"status"`
	Required  bool    `json:"required"`
	Detail    string  `json:"detail,omitempty"`
	LatencyMs float64 `json:"latency_ms"`
}

type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	CheckedAt  time.Time                  `json:"checked_at"`
}

type entry struct {
	check    Check
	required bool
}

type Checker struct {
	mu     sync.RWMutex
	checks map[string]entry
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]entry)}
}

// Register adds or replaces a required check.
func (c *Checker) Register(name string, check Check) {
	c.add(name, entry{check: check, required: true})
}

// RegisterOptional adds or replaces a check whose failure only degrades the
// service.
func (c *Checker) RegisterOptional(name string, check Check) {
	c.add(name, entry{check: check})
}

func (c *Checker) add(name string, e entry) {
	c.mu.Lock()
	c.checks[name] = e
	c.mu.Unlock()
}

// Run executes every check concurrently and folds the results into the
// worst status.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	entries := make([]entry, len(names))
	sort.Strings(names)
	for i, name := range names {
		entries[i] = c.checks[name]
	}
	c.mu.RUnlock()

	results := make([]ComponentHealth, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = probe(ctx, e)
		}()
	}
	wg.Wait()

	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(names)),
		CheckedAt:  time.Now().UTC(),
	}
	for i, name := range names {
		report.Components[name] = results[i]
		report.Status = worse(report.Status, results[i].Status)
	}
	return report
}

func probe(ctx context.Context, e entry) ComponentHealth {
	start := time.Now()
	detail, err := e.check(ctx)
	h := ComponentHealth{
		Status:    StatusUp,
		Required:  e.required,
		Detail:    detail,
		LatencyMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		h.Status = StatusDegraded
		if e.required {
			h.Status = StatusDown
		}
		h.Detail = err.Error()
	}
	return h
}

func worse(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusDown:
			return 2
		case StatusDegraded:
			return 1
		}
		return 0
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// LiveHandler answers liveness probes. Responding at all is the check.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers readiness probes with the full report: 503 when a
// required check fails, 200 otherwise.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		status := http.StatusOK
		if report.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

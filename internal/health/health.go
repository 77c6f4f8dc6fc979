// Package health serves the liveness and readiness endpoints. Readiness
// is gated on an explicit ready flag plus any registered dependency checks,
// so a replica that lost leadership or its database reports not_ready.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/clock"
)

const checkTimeout = 5 * time.Second

// Status is the JSON body of a health response.
type Status struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Checker defines a named health check function.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler provides HTTP health check endpoints.
type Handler struct {
	mu       sync.RWMutex
	ready    bool
	checkers []Checker
	clock    clock.Clock
}

// NewHandler creates a health handler with the given checkers.
func NewHandler(clk clock.Clock, checkers ...Checker) *Handler {
	return &Handler{checkers: checkers, clock: clk}
}

// SetReady marks the service as ready to receive traffic.
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// LivenessHandler returns HTTP 200 whenever the process is alive.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeStatus(w, http.StatusOK, "ok", nil)
	}
}

// ReadinessHandler returns HTTP 200 only when the ready flag is set and
// every registered checker passes.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		ready := h.ready
		h.mu.RUnlock()

		if !ready {
			h.writeStatus(w, http.StatusServiceUnavailable, "not_ready", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		checks, ok := h.runChecks(ctx)
		if !ok {
			h.writeStatus(w, http.StatusServiceUnavailable, "not_ready", checks)
			return
		}
		h.writeStatus(w, http.StatusOK, "ready", checks)
	}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, len(h.checkers))
	ok := true
	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			checks[c.Name] = err.Error()
			ok = false
			continue
		}
		checks[c.Name] = "ok"
	}
	return checks, ok
}

func (h *Handler) writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Status{
		Status:    status,
		Checks:    checks,
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}

package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Health states reported by the readiness probe.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency of the daemon.
type CheckFunc func(ctx context.Context) error

// HealthChecker provides liveness and readiness probes with pluggable checks.
type HealthChecker struct {
	mu     sync.Mutex
	checks map[string]CheckFunc
}

// NewHealthChecker creates a checker with no registered checks; liveness is
// always healthy, readiness is healthy until a failing check is added.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]CheckFunc)}
}

// AddCheck registers a named readiness check.
func (h *HealthChecker) AddCheck(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

// HealthStatus is the readiness probe response body.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness always returns 200 while the process is serving.
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness runs every registered check and returns 503 if any fails.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}

// Check runs every registered check.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	names := make([]string, 0, len(h.checks))
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, fn := range h.checks {
		names = append(names, name)
		checks[name] = fn
	}
	h.mu.Unlock()
	sort.Strings(names)

	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = StatusHealthy
	}
	return status
}

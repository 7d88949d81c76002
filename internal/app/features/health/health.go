// internal/app/features/health/health.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger is anything that can report whether its backend is reachable.
// Every landing page store adapter satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is one named dependency check.
type Check struct {
	Name   string
	Pinger Pinger
}

// Handler provides health check endpoints.
type Handler struct {
	checks  []Check
	logger  *zap.Logger
	timeout time.Duration
}

// NewHandler creates a new health check Handler over the given checks.
func NewHandler(logger *zap.Logger, checks ...Check) *Handler {
	return &Handler{
		checks:  checks,
		logger:  logger,
		timeout: timeouts.Ping(),
	}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready and /livez endpoints directly on the root router.
// This is the standard convention for Kubernetes health checks:
//   - /ready (or /readyz) - readiness check
//   - /livez - liveness check
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// collect pings every check and reports per-service status.
func (h *Handler) collect(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp := Response{Status: "ok", Services: make(map[string]string, len(h.checks))}
	for _, c := range h.checks {
		if err := c.Pinger.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services[c.Name] = "unavailable"
			h.logger.Warn("health check: ping failed", zap.String("service", c.Name), zap.Error(err))
			continue
		}
		resp.Services[c.Name] = "ok"
	}
	return resp
}

// Check performs a full health check including the page store.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := h.collect(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Ready checks if the service is ready to accept requests.
// Used by Kubernetes readiness checks.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if resp := h.collect(r.Context()); resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// Live checks if the service is alive.
// Used by Kubernetes liveness checks.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"alive"}`))
}

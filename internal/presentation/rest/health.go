package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// ReadinessCheck returns nil when the dependency it guards can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides HTTP health check endpoints for the churn service.
type HealthHandler struct {
	logger    *slog.Logger
	service   string
	startTime time.Time
	checks    map[string]ReadinessCheck
	metrics   http.Handler
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(service string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		service:   service,
		startTime: time.Now(),
		checks:    map[string]ReadinessCheck{},
	}
}

// AddCheck registers a named readiness check, e.g. "database" or "artifacts".
func (h *HealthHandler) AddCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// WithMetrics serves handler on /metrics.
func (h *HealthHandler) WithMetrics(handler http.Handler) *HealthHandler {
	h.metrics = handler
	return h
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// Readyz runs every registered check and answers 503 if any of them fails.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := ReadinessResponse{Status: "ready", Service: h.service, Checks: make(map[string]string, len(names))}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			resp.Checks[name] = err.Error()
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	h.writeJSON(w, code, resp)
}

func (h *HealthHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write health response", slog.String("error", err.Error()))
	}
}

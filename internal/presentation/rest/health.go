package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	serviceName      = "heartrisk"
	readinessTimeout = 2 * time.Second
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	checks    map[string]ReadinessCheck
}

// NewHealthHandler creates a new health check handler. Each entry in checks
// is run on every readiness probe.
func NewHealthHandler(logger *slog.Logger, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		checks:    checks,
	}
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
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz runs every check concurrently under one deadline. Any failure turns
// the response into 503.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := ReadinessResponse{
		Status:  "ready",
		Service: serviceName,
		Checks:  make(map[string]string, len(h.checks)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
				resp.Checks[name] = "failing"
				resp.Status = "not_ready"
				return
			}
			resp.Checks[name] = "ok"
		}()
	}
	wg.Wait()

	code := http.StatusOK
	if resp.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

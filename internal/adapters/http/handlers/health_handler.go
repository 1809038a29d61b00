package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/health"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler over registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, dto.HealthResponse{Status: dto.HealthOK})
}

// Readiness handles GET /health/ready. It is 503 until the loop has run a
// cycle, while the solver breaker is open and while the recorder cannot
// reach its database.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())
	resp, ready := dto.ToReadinessResponse(results)
	if ready {
		respond(w, r, http.StatusOK, resp)
		return
	}
	logging.FromContext(r.Context()).WarnContext(r.Context(), "not ready",
		slog.Any("unhealthy", health.Unhealthy(results)),
	)
	respond(w, r, http.StatusServiceUnavailable, resp)
}

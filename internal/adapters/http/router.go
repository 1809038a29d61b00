// Package http is the inbound HTTP adapter: read-only access to the running
// control loop plus health probes and the metrics scrape endpoint.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/handlers"
)

// NewRouter registers every route. metrics may be nil, in which case
// /metrics is not served.
func NewRouter(
	controlHandler *handlers.ControlHandler,
	healthHandler *handlers.HealthHandler,
	metrics http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", controlHandler.Snapshot)
		r.Get("/stack", controlHandler.Stack)
		r.Get("/cycles", controlHandler.Cycles)
	})

	return r
}

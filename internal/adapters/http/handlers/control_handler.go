package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/http/dto"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// ControlHandler exposes the running control loop read-only.
type ControlHandler struct {
	snapshots ports.SnapshotProvider
	history   ports.CycleHistory
}

// NewControlHandler creates a handler over the loop. history may be nil when
// no recorder is configured, in which case /cycles answers 404.
func NewControlHandler(snapshots ports.SnapshotProvider, history ports.CycleHistory) *ControlHandler {
	return &ControlHandler{snapshots: snapshots, history: history}
}

// Snapshot handles GET /api/v1/snapshot. Returns 503 until the first cycle
// completes.
func (h *ControlHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshots.Latest()
	if !ok {
		dto.WriteErrorResponse(w, r, fmt.Errorf("%w: no cycle completed yet", domain.ErrUnavailable))
		return
	}
	respond(w, r, http.StatusOK, dto.ToSnapshotResponse(snap))
}

// Stack handles GET /api/v1/stack.
func (h *ControlHandler) Stack(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, dto.ToStackResponse(h.snapshots.Stack()))
}

// Cycles handles GET /api/v1/cycles?limit=N, newest first.
func (h *ControlHandler) Cycles(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		dto.WriteErrorResponse(w, r, fmt.Errorf("cycle history: %w: recorder disabled", domain.ErrNotFound))
		return
	}
	q, err := dto.ParseCyclesQuery(r.URL.Query())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	snaps, err := h.history.Recent(r.Context(), q.Limit)
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to read cycle history",
			slog.String("operation", "Cycles"),
			slog.Int("limit", q.Limit),
			slog.Any("error", err),
		)
		dto.WriteErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.ToCycleListResponse(snaps))
}

// Package dto holds the JSON bodies of the HTTP adapter and RFC 9457
// problem details for errors.
package dto

import (
	"time"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// LevelResponse is the outcome of one priority level in a cycle.
type LevelResponse struct {
	Level      int     `json:"level"`
	TaskID     string  `json:"task_id"`
	Rows       int     `json:"rows"`
	Status     string  `json:"status"`
	Iterations int     `json:"iterations"`
	Objective  float64 `json:"objective"`
	Active     int     `json:"active_constraints"`
}

// SnapshotResponse is one control cycle.
type SnapshotResponse struct {
	Cycle      uint64          `json:"cycle"`
	Time       string          `json:"time"`
	DurationMS float64         `json:"duration_ms"`
	State      []float64       `json:"state"`
	Command    []float64       `json:"command"`
	Levels     []LevelResponse `json:"levels"`
	Fallback   bool            `json:"fallback"`
	Error      string          `json:"error,omitempty"`
}

// ToSnapshotResponse converts a snapshot. Nil slices become empty lists.
func ToSnapshotResponse(s domain.Snapshot) SnapshotResponse {
	levels := make([]LevelResponse, len(s.Levels))
	for i, l := range s.Levels {
		levels[i] = LevelResponse{
			Level:      l.Level,
			TaskID:     l.TaskID,
			Rows:       l.Rows,
			Status:     l.Status.String(),
			Iterations: l.Iterations,
			Objective:  l.Objective,
			Active:     l.Active,
		}
	}
	return SnapshotResponse{
		Cycle:      s.Cycle,
		Time:       s.Time.UTC().Format(time.RFC3339Nano),
		DurationMS: float64(s.Duration) / float64(time.Millisecond),
		State:      nonNil(s.State),
		Command:    nonNil(s.Command),
		Levels:     levels,
		Fallback:   s.Fallback,
		Error:      s.Error,
	}
}

// CycleListResponse is a page of recorded cycles, newest first.
type CycleListResponse struct {
	Cycles []SnapshotResponse `json:"cycles"`
	Count  int                `json:"count"`
}

// ToCycleListResponse converts recorded snapshots.
func ToCycleListResponse(snaps []domain.Snapshot) CycleListResponse {
	items := make([]SnapshotResponse, len(snaps))
	for i := range snaps {
		items[i] = ToSnapshotResponse(snaps[i])
	}
	return CycleListResponse{Cycles: items, Count: len(items)}
}

// ConstraintResponse is the structure of one constraint.
type ConstraintResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
}

// StackLevelResponse is the structure of one priority level.
type StackLevelResponse struct {
	Level       int                  `json:"level"`
	TaskID      string               `json:"task_id"`
	Rows        int                  `json:"rows"`
	Lambda      float64              `json:"lambda"`
	Constraints []ConstraintResponse `json:"constraints"`
}

// StackResponse is the structure of the controlled stack.
type StackResponse struct {
	XSize          int                  `json:"x_size"`
	Levels         []StackLevelResponse `json:"levels"`
	Bounds         []ConstraintResponse `json:"bounds"`
	Regularisation string               `json:"regularisation,omitempty"`
}

// ToStackResponse converts a stack description.
func ToStackResponse(d domain.StackDescription) StackResponse {
	levels := make([]StackLevelResponse, len(d.Levels))
	for i, l := range d.Levels {
		levels[i] = StackLevelResponse{
			Level:       l.Level,
			TaskID:      l.TaskID,
			Rows:        l.Rows,
			Lambda:      l.Lambda,
			Constraints: toConstraints(l.Constraints),
		}
	}
	return StackResponse{
		XSize:          d.XSize,
		Levels:         levels,
		Bounds:         toConstraints(d.Bounds),
		Regularisation: d.Regularisation,
	}
}

func toConstraints(cs []domain.ConstraintDescription) []ConstraintResponse {
	out := make([]ConstraintResponse, len(cs))
	for i, c := range cs {
		out[i] = ConstraintResponse{ID: c.ID, Kind: c.Kind.String(), Rows: c.Rows}
	}
	return out
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

// Probe statuses.
const (
	HealthOK       = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
)

// HealthResponse is the body of the liveness and readiness probes. Checks
// maps each component to "ok" or its error and is omitted for liveness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ToReadinessResponse converts health check results. ready is false when
// any result is non-nil.
func ToReadinessResponse(results map[string]error) (resp HealthResponse, ready bool) {
	resp = HealthResponse{Status: HealthReady, Checks: make(map[string]string, len(results))}
	ready = true
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
			ready = false
			continue
		}
		resp.Checks[name] = HealthOK
	}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}

package domain

import "time"

// LevelReport summarizes one solved level of a cycle.
type LevelReport struct {
	Level      int     `json:"level"`
	TaskID     string  `json:"task_id"`
	Rows       int     `json:"rows"`
	Status     Status  `json:"status"`
	Iterations int     `json:"iterations"`
	Objective  float64 `json:"objective"`
	Active     int     `json:"active_constraints"`
}

// Snapshot is the control loop's published view of the latest cycle. It is
// copied by value out of the loop; slices are never shared with the loop.
type Snapshot struct {
	Cycle    uint64        `json:"cycle"`
	Time     time.Time     `json:"time"`
	Duration time.Duration `json:"duration_ns"`
	State    []float64     `json:"state"`
	Command  []float64     `json:"command"`
	Levels   []LevelReport `json:"levels"`
	Fallback bool          `json:"fallback"`
	Error    string        `json:"error,omitempty"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.State = append([]float64(nil), s.State...)
	out.Command = append([]float64(nil), s.Command...)
	out.Levels = append([]LevelReport(nil), s.Levels...)
	return out
}

// ConstraintDescription is the structural summary of one constraint.
type ConstraintDescription struct {
	ID   string         `json:"id"`
	Kind ConstraintKind `json:"kind"`
	Rows int            `json:"rows"`
}

// LevelDescription is the structural summary of one priority level.
type LevelDescription struct {
	Level       int                     `json:"level"`
	TaskID      string                  `json:"task_id"`
	Rows        int                     `json:"rows"`
	Lambda      float64                 `json:"lambda"`
	Constraints []ConstraintDescription `json:"constraints"`
}

// StackDescription is the structural summary of a stack of tasks.
type StackDescription struct {
	XSize          int                     `json:"x_size"`
	Levels         []LevelDescription      `json:"levels"`
	Bounds         []ConstraintDescription `json:"bounds"`
	Regularisation string                  `json:"regularisation,omitempty"`
}

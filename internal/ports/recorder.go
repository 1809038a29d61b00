package ports

import (
	"context"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// CycleRecorder persists control cycle snapshots outside the control path.
// Implemented by outbound storage adapters; a failing recorder never stops
// the loop.
type CycleRecorder interface {
	Record(ctx context.Context, s domain.Snapshot) error
	Close() error
}

// CycleHistory reads back recorded snapshots, newest first.
type CycleHistory interface {
	Recent(ctx context.Context, limit int) ([]domain.Snapshot, error)
}

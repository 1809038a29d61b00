package ports

import "github.com/jsamuelsen11/stack-of-tasks/internal/domain"

// SnapshotProvider exposes the latest control cycle to inbound adapters.
// Implemented by the control loop; safe for concurrent use.
type SnapshotProvider interface {
	// Latest returns a copy of the most recent snapshot. The boolean is false
	// until the first cycle completes.
	Latest() (domain.Snapshot, bool)

	// Stack returns the structure of the controlled stack.
	Stack() domain.StackDescription
}

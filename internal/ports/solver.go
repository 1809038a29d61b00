package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// StackSolver runs one cascade over an updated stack. Implemented by the
// cascaded solver; driven by a single goroutine.
type StackSolver interface {
	// Solve returns the command for the current stack data.
	Solve(ctx context.Context) (*mat.VecDense, error)

	// Reports returns one report per level from the last Solve.
	Reports() []domain.LevelReport
}

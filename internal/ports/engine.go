package ports

import "github.com/jsamuelsen11/stack-of-tasks/internal/domain"

// QPEngine solves one level of the cascade. An engine carries warm-start
// state between calls and therefore belongs to exactly one level of exactly
// one solver.
type QPEngine interface {
	// Init solves p from a cold start and captures its shape. Any previous
	// state is discarded.
	Init(p *domain.Problem) (*domain.Solution, error)

	// Resolve solves p warm-started from the previous solution. The shape of
	// p must match the one given to Init; engines return an error wrapping
	// domain.ErrShapeMismatch otherwise.
	Resolve(p *domain.Problem) (*domain.Solution, error)

	// ActiveSet reports the activity of bounds and rows at the last solution.
	ActiveSet() domain.ActiveSet

	// Reset drops all warm-start state.
	Reset()
}

// EngineFactory builds the engine for the given level index.
type EngineFactory func(level int) QPEngine

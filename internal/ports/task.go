package ports

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Task is a weighted least-squares objective ‖A·x − b‖²_W over the decision
// variable x. Leaf plugins, aggregates and row views all implement it.
//
// Matrices returned by A, B and Weight are owned by the task and must be
// treated as read-only. They are refreshed by Update.
type Task interface {
	// ID is a human-readable name used in logs and lookups. It is not an
	// identity key.
	ID() string

	// XSize is the length of the decision variable.
	XSize() int

	// Rows is the number of output rows of A and b.
	Rows() int

	// Update recomputes A and b from the current state. Calling it twice with
	// the same x yields the same data. A state of the wrong length returns an
	// error wrapping domain.ErrShapeMismatch.
	Update(x mat.Vector) error

	A() *mat.Dense
	B() *mat.VecDense
	Weight() *mat.Dense

	// SetWeight replaces W. Shapes other than Rows()×Rows() are rejected with
	// domain.ErrShapeMismatch at the call site.
	SetWeight(w mat.Matrix) error

	Lambda() float64

	// SetLambda sets the task gain. Negative or non-finite gains are rejected
	// with domain.ErrInvalidGain.
	SetLambda(l float64) error

	// Constraints are the task's own mutable attachments.
	Constraints() ConstraintList

	// ActiveConstraints is what a solver must enforce when this task is
	// solved. For aggregates it includes every child's constraints.
	ActiveConstraints() []Constraint

	// CheckConsistency verifies the shape invariants and returns every
	// violation joined.
	CheckConsistency() error
}

// Constraint restricts the decision variable. Exactly one of the three
// accessors succeeds, matching Kind; the others return an error wrapping
// domain.ErrWrongConstraintKind.
type Constraint interface {
	// Handle is the identity used for de-duplication.
	Handle() domain.Handle
	ID() string
	XSize() int
	Rows() int
	Kind() domain.ConstraintKind

	Update(x mat.Vector) error

	// Bounds returns l ≤ x ≤ u, both of length XSize.
	Bounds() (l, u *mat.VecDense, err error)

	// Inequality returns lA ≤ A·x ≤ uA.
	Inequality() (a *mat.Dense, lA, uA *mat.VecDense, err error)

	// Equality returns A·x = b.
	Equality() (a *mat.Dense, b *mat.VecDense, err error)

	CheckConsistency() error
}

// ConstraintList is an ordered set of constraints keyed by handle.
type ConstraintList interface {
	// Add appends c unless a constraint with the same handle is present.
	// It reports whether c was added.
	Add(c Constraint) bool
	Remove(h domain.Handle) bool
	Contains(h domain.Handle) bool
	Items() []Constraint
	Len() int
	Clear()
}

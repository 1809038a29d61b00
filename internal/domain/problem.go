package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Status is the outcome of a single QP solve.
type Status string

const (
	StatusUnsolved      Status = "unsolved"
	StatusSolved        Status = "solved"
	StatusInfeasible    Status = "infeasible"
	StatusDegenerate    Status = "degenerate"
	StatusMaxIterations Status = "max_iterations"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnsolved, StatusSolved, StatusInfeasible, StatusDegenerate, StatusMaxIterations:
		return true
	default:
		return false
	}
}

// OK reports whether the solution can be used as a command.
func (s Status) OK() bool {
	return s == StatusSolved
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Problem is one level of the cascade in engine form:
//
//	min ½xᵀHx + gᵀx  s.t.  lA ≤ A·x ≤ uA,  l ≤ x ≤ u
//
// N is the number of variables and M the number of general constraint rows.
// When M is zero A, LA and UA are ignored. Infinite entries in the bounds
// mean "unbounded on that side"; equal lower and upper entries encode an
// equality row.
type Problem struct {
	N int
	M int

	H *mat.SymDense
	G *mat.VecDense

	A  *mat.Dense
	LA *mat.VecDense
	UA *mat.VecDense

	L *mat.VecDense
	U *mat.VecDense
}

// Shape identifies the structural dimensions of a problem. Engines must be
// re-initialized whenever the shape changes between two solves.
type Shape struct {
	N int
	M int
}

// Shape returns the structural dimensions of p.
func (p *Problem) Shape() Shape {
	return Shape{N: p.N, M: p.M}
}

// Validate checks that every operand agrees with N and M and that no lower
// bound exceeds its upper bound.
func (p *Problem) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("problem: %w: no variables", ErrShapeMismatch)
	}
	if p.H == nil || p.H.SymmetricDim() != p.N {
		got := 0
		if p.H != nil {
			got = p.H.SymmetricDim()
		}
		return NewShapeError("problem H", p.N, p.N, got, got)
	}
	if err := checkVec("problem g", p.G, p.N); err != nil {
		return err
	}
	if err := checkVec("problem l", p.L, p.N); err != nil {
		return err
	}
	if err := checkVec("problem u", p.U, p.N); err != nil {
		return err
	}
	if err := checkOrdered("problem bounds", p.L, p.U); err != nil {
		return err
	}
	if p.M == 0 {
		return nil
	}
	if p.A == nil {
		return NewShapeError("problem A", p.M, p.N, 0, 0)
	}
	if r, c := p.A.Dims(); r != p.M || c != p.N {
		return NewShapeError("problem A", p.M, p.N, r, c)
	}
	if err := checkVec("problem lA", p.LA, p.M); err != nil {
		return err
	}
	if err := checkVec("problem uA", p.UA, p.M); err != nil {
		return err
	}
	return checkOrdered("problem constraint bounds", p.LA, p.UA)
}

func checkVec(op string, v *mat.VecDense, n int) error {
	if v == nil {
		return NewLengthError(op, n, 0)
	}
	if v.Len() != n {
		return NewLengthError(op, n, v.Len())
	}
	return nil
}

func checkOrdered(op string, lo, hi *mat.VecDense) error {
	for i := range lo.Len() {
		l, u := lo.AtVec(i), hi.AtVec(i)
		if math.IsNaN(l) || math.IsNaN(u) {
			return &ValidationError{Fields: map[string]string{op: fmt.Sprintf("NaN at row %d", i)}}
		}
		if l > u {
			return &ValidationError{Fields: map[string]string{op: fmt.Sprintf("lower %g exceeds upper %g at row %d", l, u, i)}}
		}
	}
	return nil
}

// ActiveState is the per-row activity of a constraint at the solution.
type ActiveState int8

const (
	ActiveLower    ActiveState = -1
	Inactive       ActiveState = 0
	ActiveUpper    ActiveState = 1
	ActiveEquality ActiveState = 2
)

// ActiveSet records which bounds and constraint rows were active at the last
// solution, in problem row order.
type ActiveSet struct {
	Bounds      []ActiveState
	Constraints []ActiveState
}

// Count returns the number of active entries across bounds and rows.
func (a ActiveSet) Count() int {
	n := 0
	for _, s := range a.Bounds {
		if s != Inactive {
			n++
		}
	}
	for _, s := range a.Constraints {
		if s != Inactive {
			n++
		}
	}
	return n
}

// Solution is what an engine returns for one solve.
type Solution struct {
	X          *mat.VecDense
	Status     Status
	Iterations int
	Objective  float64
	PrimalRes  float64
	DualRes    float64
}

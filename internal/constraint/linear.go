package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
)

// Bound is a state-independent box l ≤ x ≤ u.
type Bound struct {
	Base
}

// NewBound returns a box constraint. l and u must have equal length and
// l ≤ u entrywise; infinite entries leave that side open.
func NewBound(id string, l, u *mat.VecDense) (*Bound, error) {
	b := &Bound{Base: newBase(id, linalg.Len(l), domain.KindBound)}
	if err := b.SetBounds(l, u); err != nil {
		return nil, err
	}
	return b, nil
}

// SetBounds replaces the box. The length must stay XSize.
func (b *Bound) SetBounds(l, u *mat.VecDense) error {
	if linalg.Len(l) != b.xSize {
		return domain.NewLengthError(b.id+" lower bound", b.xSize, linalg.Len(l))
	}
	if err := checkOrdered(b.id, l, u); err != nil {
		return err
	}
	b.l = linalg.CloneVec(l)
	b.u = linalg.CloneVec(u)
	return nil
}

// Update only validates the state length; the box does not depend on it.
func (b *Bound) Update(x mat.Vector) error {
	return linalg.CheckState(b.id, x, b.xSize)
}

// Inequality is a state-independent lA ≤ A·x ≤ uA.
type Inequality struct {
	Base
}

// NewInequality returns a linear inequality over the columns of a.
func NewInequality(id string, a *mat.Dense, lA, uA *mat.VecDense) (*Inequality, error) {
	if linalg.Rows(a) == 0 {
		return nil, fmt.Errorf("inequality %s: %w: no rows", id, domain.ErrShapeMismatch)
	}
	rows, cols := a.Dims()
	if linalg.Len(lA) != rows {
		return nil, domain.NewLengthError(id+" lower", rows, linalg.Len(lA))
	}
	if err := checkOrdered(id, lA, uA); err != nil {
		return nil, err
	}
	c := &Inequality{Base: newBase(id, cols, domain.KindInequality)}
	c.a = linalg.Clone(a)
	c.lA = linalg.CloneVec(lA)
	c.uA = linalg.CloneVec(uA)
	return c, nil
}

func (c *Inequality) Update(x mat.Vector) error {
	return linalg.CheckState(c.id, x, c.xSize)
}

// Equality is a state-independent A·x = b.
type Equality struct {
	Base
}

// NewEquality returns a linear equality over the columns of a.
func NewEquality(id string, a *mat.Dense, b *mat.VecDense) (*Equality, error) {
	if linalg.Rows(a) == 0 {
		return nil, fmt.Errorf("equality %s: %w: no rows", id, domain.ErrShapeMismatch)
	}
	rows, cols := a.Dims()
	if linalg.Len(b) != rows {
		return nil, domain.NewLengthError(id+" rhs", rows, linalg.Len(b))
	}
	c := &Equality{Base: newBase(id, cols, domain.KindEquality)}
	c.a = linalg.Clone(a)
	c.lA = linalg.CloneVec(b)
	return c, nil
}

func (c *Equality) Update(x mat.Vector) error {
	return linalg.CheckState(c.id, x, c.xSize)
}

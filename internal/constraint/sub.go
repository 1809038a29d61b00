package constraint

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Constraint = (*SubConstraint)(nil)

// SubConstraint is a read-only view on selected rows of a parent. A view on
// a Bound becomes an Inequality over the selected identity rows; views on
// inequalities and equalities keep their kind.
type SubConstraint struct {
	Base
	parent ports.Constraint
	idx    []int
}

// NewSubConstraint returns the view of parent restricted to idx, which must
// be strictly increasing and address rows of the parent.
func NewSubConstraint(parent ports.Constraint, idx []int) (*SubConstraint, error) {
	if err := CheckIndices(parent.ID(), idx, parent.Rows()); err != nil {
		return nil, err
	}
	sorted := slices.Clone(idx)
	kind := parent.Kind()
	if kind == domain.KindBound {
		kind = domain.KindInequality
	}
	c := &SubConstraint{
		Base:   newBase(fmt.Sprintf("%s%v", parent.ID(), sorted), parent.XSize(), kind),
		parent: parent,
		idx:    sorted,
	}
	if err := c.project(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parent returns the viewed constraint.
func (c *SubConstraint) Parent() ports.Constraint { return c.parent }

// Indices returns a copy of the selected rows.
func (c *SubConstraint) Indices() []int { return slices.Clone(c.idx) }

// Update refreshes the parent, then reprojects. A parent that shrank below
// the selected rows fails with domain.ErrIndexOutOfRange.
func (c *SubConstraint) Update(x mat.Vector) error {
	if err := c.parent.Update(x); err != nil {
		return err
	}
	if err := CheckIndices(c.parent.ID(), c.idx, c.parent.Rows()); err != nil {
		return err
	}
	return c.project()
}

func (c *SubConstraint) project() error {
	switch c.parent.Kind() {
	case domain.KindBound:
		l, u, err := c.parent.Bounds()
		if err != nil {
			return err
		}
		c.a = linalg.SelectRows(linalg.Identity(c.xSize), c.idx)
		c.lA = linalg.SelectElems(l, c.idx)
		c.uA = linalg.SelectElems(u, c.idx)
	case domain.KindInequality:
		a, lA, uA, err := c.parent.Inequality()
		if err != nil {
			return err
		}
		c.a = linalg.SelectRows(a, c.idx)
		c.lA = linalg.SelectElems(lA, c.idx)
		c.uA = linalg.SelectElems(uA, c.idx)
	case domain.KindEquality:
		a, b, err := c.parent.Equality()
		if err != nil {
			return err
		}
		c.a = linalg.SelectRows(a, c.idx)
		c.lA = linalg.SelectElems(b, c.idx)
	}
	return nil
}

// CheckIndices verifies a row selection against a row count. The selection
// must be non-empty and strictly increasing.
func CheckIndices(owner string, idx []int, rows int) error {
	if len(idx) == 0 {
		return fmt.Errorf("%s: %w: empty row selection", owner, domain.ErrIndexOutOfRange)
	}
	if len(idx) > rows {
		return &domain.IndexError{Owner: owner, Index: len(idx) - 1, Limit: rows}
	}
	for k, i := range idx {
		if i < 0 || i >= rows {
			return &domain.IndexError{Owner: owner, Index: i, Limit: rows}
		}
		if k > 0 && i <= idx[k-1] {
			return fmt.Errorf("%s: %w: row selection %v is not strictly increasing",
				owner, domain.ErrIndexOutOfRange, idx)
		}
	}
	return nil
}

package constraint

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
)

// Base carries the identity and data shared by every constraint kind.
// Plugins embed it and refresh the data fields in Update.
type Base struct {
	handle domain.Handle
	id     string
	xSize  int
	kind   domain.ConstraintKind

	// bound data
	l, u *mat.VecDense

	// inequality or equality data; for equalities lA holds the right-hand side
	a      *mat.Dense
	lA, uA *mat.VecDense
}

func newBase(id string, xSize int, kind domain.ConstraintKind) Base {
	return Base{
		handle: domain.NewHandle(),
		id:     id,
		xSize:  xSize,
		kind:   kind,
		l:      &mat.VecDense{},
		u:      &mat.VecDense{},
		a:      &mat.Dense{},
		lA:     &mat.VecDense{},
		uA:     &mat.VecDense{},
	}
}

func (c *Base) Handle() domain.Handle { return c.handle }
func (c *Base) ID() string { return c.id }
func (c *Base) XSize() int { return c.xSize }
func (c *Base) Kind() domain.ConstraintKind { return c.kind }

// Rows is XSize for bounds and the row count of A otherwise.
func (c *Base) Rows() int {
	if c.kind == domain.KindBound {
		return c.xSize
	}
	return linalg.Rows(c.a)
}

func (c *Base) Bounds() (l, u *mat.VecDense, err error) {
	if c.kind != domain.KindBound {
		return nil, nil, c.wrongKind("bounds")
	}
	return c.l, c.u, nil
}

func (c *Base) Inequality() (a *mat.Dense, lA, uA *mat.VecDense, err error) {
	if c.kind != domain.KindInequality {
		return nil, nil, nil, c.wrongKind("inequality")
	}
	return c.a, c.lA, c.uA, nil
}

func (c *Base) Equality() (a *mat.Dense, b *mat.VecDense, err error) {
	if c.kind != domain.KindEquality {
		return nil, nil, c.wrongKind("equality")
	}
	return c.a, c.lA, nil
}

func (c *Base) wrongKind(accessor string) error {
	return fmt.Errorf("constraint %s is %s, not %s: %w", c.id, c.kind, accessor, domain.ErrWrongConstraintKind)
}

// CheckConsistency verifies the shape invariants of the current data.
func (c *Base) CheckConsistency() error {
	var errs []error
	switch c.kind {
	case domain.KindBound:
		if n := linalg.Len(c.l); n != c.xSize {
			errs = append(errs, domain.NewLengthError(c.id+" lower bound", c.xSize, n))
		}
		if n := linalg.Len(c.u); n != c.xSize {
			errs = append(errs, domain.NewLengthError(c.id+" upper bound", c.xSize, n))
		}
	case domain.KindInequality, domain.KindEquality:
		rows := linalg.Rows(c.a)
		if rows > 0 {
			if _, cols := c.a.Dims(); cols != c.xSize {
				errs = append(errs, domain.NewShapeError(c.id+" A", rows, c.xSize, rows, cols))
			}
		}
		if n := linalg.Len(c.lA); n != rows {
			errs = append(errs, domain.NewLengthError(c.id+" lower", rows, n))
		}
		if c.kind == domain.KindInequality {
			if n := linalg.Len(c.uA); n != rows {
				errs = append(errs, domain.NewLengthError(c.id+" upper", rows, n))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("constraint %s: unknown kind %q: %w", c.id, c.kind, domain.ErrWrongConstraintKind))
	}
	return errors.Join(errs...)
}

func checkOrdered(id string, lo, hi *mat.VecDense) error {
	if linalg.Len(lo) != linalg.Len(hi) {
		return domain.NewLengthError(id+" bounds", linalg.Len(lo), linalg.Len(hi))
	}
	for i := range linalg.Len(lo) {
		if lo.AtVec(i) > hi.AtVec(i) {
			return &domain.ValidationError{Fields: map[string]string{
				id: fmt.Sprintf("lower %g exceeds upper %g at row %d", lo.AtVec(i), hi.AtVec(i), i),
			}}
		}
	}
	return nil
}

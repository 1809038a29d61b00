package task

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// Base holds the data of a leaf task. Plugins embed it and refresh A and b
// in their Update through setData.
type Base struct {
	id          string
	xSize       int
	a           *mat.Dense
	b           *mat.VecDense
	w           *mat.Dense
	lambda      float64
	constraints *constraint.List
}

func newBase(id string, xSize, rows int) Base {
	return Base{
		id:          id,
		xSize:       xSize,
		a:           linalg.Dense(rows, xSize, nil),
		b:           linalg.Vec(rows, nil),
		w:           linalg.Identity(rows),
		lambda:      1,
		constraints: constraint.NewList(),
	}
}

func (t *Base) ID() string { return t.id }
func (t *Base) XSize() int { return t.xSize }
func (t *Base) Rows() int { return linalg.Rows(t.a) }
func (t *Base) A() *mat.Dense { return t.a }
func (t *Base) B() *mat.VecDense { return t.b }
func (t *Base) Weight() *mat.Dense { return t.w }
func (t *Base) Lambda() float64 { return t.lambda }
func (t *Base) Constraints() ports.ConstraintList { return t.constraints }

// ActiveConstraints returns the task's own attachments.
func (t *Base) ActiveConstraints() []ports.Constraint { return t.constraints.Items() }

// SetWeight replaces W with a copy of w.
func (t *Base) SetWeight(w mat.Matrix) error {
	if err := ValidateWeight(t.id, w, t.Rows()); err != nil {
		return err
	}
	t.w = mat.DenseCopyOf(w)
	return nil
}

func (t *Base) SetLambda(l float64) error {
	if err := ValidateLambda(t.id, l); err != nil {
		return err
	}
	t.lambda = l
	return nil
}

// setData installs fresh task data. W is reset to identity only when the
// row count changes.
func (t *Base) setData(a *mat.Dense, b *mat.VecDense) {
	if linalg.Rows(a) != linalg.Rows(t.w) {
		t.w = linalg.Identity(linalg.Rows(a))
	}
	t.a, t.b = a, b
}

func (t *Base) CheckConsistency() error {
	return CheckShapes(t.id, t.xSize, t.a, t.b, t.w)
}

// ValidateWeight checks that w is a finite symmetric rows×rows matrix with a
// non-negative diagonal.
func ValidateWeight(id string, w mat.Matrix, rows int) error {
	if w == nil {
		return fmt.Errorf("%s weight: %w: nil", id, domain.ErrInvalidWeight)
	}
	if err := linalg.CheckSquare(id+" weight", w, rows); err != nil {
		return err
	}
	for i := range rows {
		if d := w.At(i, i); d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%s weight: %w: diagonal %g at %d", id, domain.ErrInvalidWeight, d, i)
		}
		for j := i + 1; j < rows; j++ {
			if math.Abs(w.At(i, j)-w.At(j, i)) > 1e-12*(1+math.Abs(w.At(i, j))) {
				return fmt.Errorf("%s weight: %w: not symmetric at (%d, %d)", id, domain.ErrInvalidWeight, i, j)
			}
		}
	}
	return nil
}

// ValidateLambda rejects negative and non-finite gains.
func ValidateLambda(id string, l float64) error {
	if l < 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fmt.Errorf("%s lambda %g: %w", id, l, domain.ErrInvalidGain)
	}
	return nil
}

// CheckShapes verifies A.rows == len(b) == W.rows == W.cols and
// A.cols == xSize, joining every violation.
func CheckShapes(id string, xSize int, a *mat.Dense, b *mat.VecDense, w *mat.Dense) error {
	var errs []error
	rows := linalg.Rows(a)
	if rows > 0 {
		if _, c := a.Dims(); c != xSize {
			errs = append(errs, domain.NewShapeError(id+" A", rows, xSize, rows, c))
		}
	}
	if n := linalg.Len(b); n != rows {
		errs = append(errs, domain.NewLengthError(id+" b", rows, n))
	}
	wr, wc := 0, 0
	if linalg.Rows(w) > 0 {
		wr, wc = w.Dims()
	}
	if wr != rows || wc != rows {
		errs = append(errs, domain.NewShapeError(id+" weight", rows, rows, wr, wc))
	}
	return errors.Join(errs...)
}

package task

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Task = (*Linear)(nil)

// Linear is a state-independent task ‖A·x − b‖²_W.
type Linear struct {
	Base
}

// NewLinear returns a task over the columns of a.
func NewLinear(id string, a *mat.Dense, b *mat.VecDense) (*Linear, error) {
	if linalg.Rows(a) == 0 {
		return nil, fmt.Errorf("task %s: %w: no rows", id, domain.ErrShapeMismatch)
	}
	rows, cols := a.Dims()
	t := &Linear{Base: newBase(id, cols, rows)}
	if err := t.SetData(a, b); err != nil {
		return nil, err
	}
	return t, nil
}

// SetData replaces A and b. The column count must stay XSize.
func (t *Linear) SetData(a *mat.Dense, b *mat.VecDense) error {
	if linalg.Rows(a) == 0 {
		return fmt.Errorf("task %s: %w: no rows", t.id, domain.ErrShapeMismatch)
	}
	rows, cols := a.Dims()
	if cols != t.xSize {
		return domain.NewShapeError(t.id+" A", rows, t.xSize, rows, cols)
	}
	if linalg.Len(b) != rows {
		return domain.NewLengthError(t.id+" b", rows, linalg.Len(b))
	}
	t.setData(linalg.Clone(a), linalg.CloneVec(b))
	return nil
}

func (t *Linear) Update(x mat.Vector) error {
	return linalg.CheckState(t.id, x, t.xSize)
}

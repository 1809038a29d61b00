package task

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Task = (*SubTask)(nil)

// SubTask is a view on selected rows of a parent task. Its weight is the
// (idx, idx) block of the parent's weight; its gain and constraints are the
// parent's.
type SubTask struct {
	parent ports.Task
	idx    []int
	a      *mat.Dense
	b      *mat.VecDense
}

// NewSubTask returns the view of parent restricted to idx, which must be
// strictly increasing and address rows of the parent.
func NewSubTask(parent ports.Task, idx []int) (*SubTask, error) {
	if err := constraint.CheckIndices(parent.ID(), idx, parent.Rows()); err != nil {
		return nil, err
	}
	t := &SubTask{parent: parent, idx: slices.Clone(idx)}
	t.project()
	return t, nil
}

// ID is the parent's ID followed by the selected rows, e.g. "ee[2 4]".
func (t *SubTask) ID() string { return fmt.Sprintf("%s%v", t.parent.ID(), t.idx) }
func (t *SubTask) XSize() int { return t.parent.XSize() }
func (t *SubTask) Rows() int { return len(t.idx) }
func (t *SubTask) A() *mat.Dense { return t.a }
func (t *SubTask) B() *mat.VecDense { return t.b }
func (t *SubTask) Lambda() float64 { return t.parent.Lambda() }
func (t *SubTask) Parent() ports.Task { return t.parent }

// Indices returns a copy of the selected rows.
func (t *SubTask) Indices() []int { return slices.Clone(t.idx) }

// Update refreshes the parent, then reprojects. A parent that shrank below
// the selected rows fails with domain.ErrIndexOutOfRange and the view must
// be rebuilt.
func (t *SubTask) Update(x mat.Vector) error {
	if err := t.parent.Update(x); err != nil {
		return err
	}
	if err := constraint.CheckIndices(t.parent.ID(), t.idx, t.parent.Rows()); err != nil {
		return err
	}
	t.project()
	return nil
}

func (t *SubTask) project() {
	t.a = linalg.SelectRows(t.parent.A(), t.idx)
	t.b = linalg.SelectElems(t.parent.B(), t.idx)
}

// Weight returns a copy of the (idx, idx) block of the parent weight.
func (t *SubTask) Weight() *mat.Dense {
	return linalg.SelectBlock(t.parent.Weight(), t.idx)
}

// SetWeight writes w into the (idx, idx) block of the parent weight.
func (t *SubTask) SetWeight(w mat.Matrix) error {
	if err := ValidateWeight(t.ID(), w, len(t.idx)); err != nil {
		return err
	}
	pw := linalg.Clone(t.parent.Weight())
	linalg.SetBlock(pw, t.idx, w)
	return t.parent.SetWeight(pw)
}

// SetLambda sets the parent's gain.
func (t *SubTask) SetLambda(l float64) error {
	return t.parent.SetLambda(l)
}

// Constraints are the parent's attachments.
func (t *SubTask) Constraints() ports.ConstraintList { return t.parent.Constraints() }

func (t *SubTask) ActiveConstraints() []ports.Constraint { return t.parent.ActiveConstraints() }

func (t *SubTask) CheckConsistency() error {
	if err := constraint.CheckIndices(t.parent.ID(), t.idx, t.parent.Rows()); err != nil {
		return err
	}
	return CheckShapes(t.ID(), t.XSize(), t.a, t.b, t.Weight())
}

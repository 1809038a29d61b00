package task

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
)

// Postural drives the state toward a reference posture:
// A = I, b = λ·(qRef − q).
type Postural struct {
	Base
	ref *mat.VecDense
}

// NewPostural returns a postural task with gain 1. Until the first Update
// b is λ·qRef.
func NewPostural(ref *mat.VecDense) (*Postural, error) {
	n := linalg.Len(ref)
	if n == 0 {
		return nil, fmt.Errorf("postural: %w: empty reference", domain.ErrShapeMismatch)
	}
	t := &Postural{Base: newBase("postural", n, n), ref: linalg.CloneVec(ref)}
	t.a = linalg.Identity(n)
	t.b = linalg.CloneVec(ref)
	return t, nil
}

// SetReference replaces the target posture.
func (t *Postural) SetReference(ref *mat.VecDense) error {
	if linalg.Len(ref) != t.xSize {
		return domain.NewLengthError("postural reference", t.xSize, linalg.Len(ref))
	}
	t.ref = linalg.CloneVec(ref)
	return nil
}

// Reference returns the target posture.
func (t *Postural) Reference() *mat.VecDense { return t.ref }

func (t *Postural) Update(x mat.Vector) error {
	if err := linalg.CheckState(t.id, x, t.xSize); err != nil {
		return err
	}
	b := mat.NewVecDense(t.xSize, nil)
	b.SubVec(t.ref, x)
	b.ScaleVec(t.lambda, b)
	t.b = b
	return nil
}

// MinimumVelocity penalizes the command itself: A = I, b = 0. It is the
// usual regularisation task.
type MinimumVelocity struct {
	Base
}

// NewMinimumVelocity returns a minimum velocity task over xSize variables.
func NewMinimumVelocity(xSize int) (*MinimumVelocity, error) {
	if xSize <= 0 {
		return nil, fmt.Errorf("minimum_velocity: %w: x size %d", domain.ErrShapeMismatch, xSize)
	}
	t := &MinimumVelocity{Base: newBase("minimum_velocity", xSize, xSize)}
	t.a = linalg.Identity(xSize)
	return t, nil
}

func (t *MinimumVelocity) Update(x mat.Vector) error {
	return linalg.CheckState(t.id, x, t.xSize)
}

package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// TaskToConstraint enforces a task exactly: A·x = b.
type TaskToConstraint struct {
	Base
	task ports.Task
}

// NewTaskToConstraint wraps t. The wrapped task is updated by the
// constraint, so t may be shared with a stack level.
func NewTaskToConstraint(t ports.Task) (*TaskToConstraint, error) {
	if t == nil {
		return nil, fmt.Errorf("task to constraint: %w: nil task", domain.ErrValidation)
	}
	c := &TaskToConstraint{
		Base: newBase("task_to_constraint_"+t.ID(), t.XSize(), domain.KindEquality),
		task: t,
	}
	c.a = linalg.Clone(t.A())
	c.lA = linalg.CloneVec(t.B())
	return c, nil
}

// Task returns the wrapped task.
func (c *TaskToConstraint) Task() ports.Task { return c.task }

func (c *TaskToConstraint) Update(x mat.Vector) error {
	if err := c.task.Update(x); err != nil {
		return fmt.Errorf("%s: %w", c.id, err)
	}
	c.a = linalg.Clone(c.task.A())
	c.lA = linalg.CloneVec(c.task.B())
	return nil
}

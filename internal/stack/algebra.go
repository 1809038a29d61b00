package stack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
	"github.com/jsamuelsen11/stack-of-tasks/internal/task"
)

// Weight scales the weight of t by k and returns t.
func Weight(t ports.Task, k float64) (ports.Task, error) {
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("weight %s by %g: %w", t.ID(), k, domain.ErrInvalidWeight)
	}
	w := mat.DenseCopyOf(t.Weight())
	w.Scale(k, w)
	if err := t.SetWeight(w); err != nil {
		return nil, err
	}
	return t, nil
}

// WeightMatrix replaces the weight of t with w and returns t.
func WeightMatrix(t ports.Task, w mat.Matrix) (ports.Task, error) {
	if err := t.SetWeight(w); err != nil {
		return nil, err
	}
	return t, nil
}

// Merge combines two tasks into one level. Aggregates whose gain equals the
// other operand's gain are flattened into their children; otherwise they are
// kept as a nested child so that gains are never averaged. Children keep
// their own gains. A flattened aggregate with an explicit weight keeps it as
// its block of the merged weight.
func Merge(a, b ports.Task) (*task.Aggregated, error) {
	if a.XSize() != b.XSize() {
		return nil, domain.NewLengthError("merge "+b.ID(), a.XSize(), b.XSize())
	}
	var (
		children []ports.Task
		own      []ports.Constraint
		blocks   []*mat.Dense
		weighted bool
	)
	for _, t := range []ports.Task{a, b} {
		other := b
		if t == b {
			other = a
		}
		blocks = append(blocks, mat.DenseCopyOf(t.Weight()))
		agg, ok := t.(*task.Aggregated)
		if ok && agg.Lambda() == other.Lambda() {
			children = append(children, agg.Children()...)
			own = append(own, agg.Constraints().Items()...)
			weighted = weighted || agg.HasExplicitWeight()
			continue
		}
		children = append(children, t)
	}
	merged, err := task.NewAggregated(children...)
	if err != nil {
		return nil, err
	}
	for _, c := range own {
		merged.Constraints().Add(c)
	}
	if weighted {
		if err := merged.SetWeight(linalg.BlockDiag(blocks...)); err != nil {
			return nil, fmt.Errorf("merge %s: %w", merged.ID(), err)
		}
	}
	return merged, nil
}

// Levels builds a stack with one level per task, highest priority first.
func Levels(ts ...ports.Task) (*AutoStack, error) {
	return NewStack(ts)
}

// AppendLevel returns a new stack with t below every level of s.
func AppendLevel(s *AutoStack, t ports.Task) (*AutoStack, error) {
	return s.derive(append(s.Levels(), t), s.BoundsList())
}

// PrependLevel returns a new stack with t above every level of s.
func PrependLevel(t ports.Task, s *AutoStack) (*AutoStack, error) {
	return s.derive(append([]ports.Task{t}, s.levels...), s.BoundsList())
}

// Concat returns the levels of a followed by the levels of b, with the union
// of both bounds. b's regularisation wins when both are set.
func Concat(a, b *AutoStack) (*AutoStack, error) {
	out, err := a.derive(append(a.Levels(), b.levels...), append(a.BoundsList(), b.BoundsList()...))
	if err != nil {
		return nil, err
	}
	if b.regularisation != nil {
		if err := out.SetRegularisation(b.regularisation); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Extend appends t to s in place. A nil s starts a new stack.
func Extend(s *AutoStack, t ports.Task) (*AutoStack, error) {
	if s == nil {
		return New(t)
	}
	if t.XSize() != s.xSize {
		return nil, domain.NewLengthError("stack level "+t.ID(), s.xSize, t.XSize())
	}
	s.levels = append(s.levels, t)
	s.updated = false
	return s, nil
}

func (s *AutoStack) derive(levels []ports.Task, bounds []ports.Constraint) (*AutoStack, error) {
	out, err := NewStack(levels, bounds...)
	if err != nil {
		return nil, err
	}
	out.regularisation = s.regularisation
	return out, nil
}

// Attach adds c to the constraints of t and returns t. A stack holding t
// reports itself stale until its next Update refreshes c.
func Attach(t ports.Task, c ports.Constraint) (ports.Task, error) {
	if c.XSize() != t.XSize() {
		return nil, domain.NewLengthError("attach "+c.ID()+" to "+t.ID(), t.XSize(), c.XSize())
	}
	t.Constraints().Add(c)
	return t, nil
}

// AttachTask enforces ct exactly as a constraint of t.
func AttachTask(t, ct ports.Task) (ports.Task, error) {
	c, err := constraint.NewTaskToConstraint(ct)
	if err != nil {
		return nil, err
	}
	return Attach(t, c)
}

// AttachBound adds c to the global bounds of s. A constraint already
// present is not added twice.
func AttachBound(s *AutoStack, c ports.Constraint) (*AutoStack, error) {
	if err := s.bounds.Add(c); err != nil {
		return nil, err
	}
	s.updated = false
	return s, nil
}

// AttachBoundTask enforces ct exactly on every level of s.
func AttachBoundTask(s *AutoStack, ct ports.Task) (*AutoStack, error) {
	c, err := constraint.NewTaskToConstraint(ct)
	if err != nil {
		return nil, err
	}
	return AttachBound(s, c)
}

// SelectRows returns a view on the rows idx of t.
func SelectRows(t ports.Task, idx []int) (*task.SubTask, error) {
	return task.NewSubTask(t, idx)
}

// SelectConstraintRows returns a view on the rows idx of c.
func SelectConstraintRows(c ports.Constraint, idx []int) (*constraint.SubConstraint, error) {
	return constraint.NewSubConstraint(c, idx)
}

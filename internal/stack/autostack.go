package stack

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
	"github.com/jsamuelsen11/stack-of-tasks/internal/task"
)

// AutoStack is a strictly ordered list of levels, level 0 first, plus the
// global bounds applied to every level and an optional regularisation task
// solved last. Every member shares XSize.
type AutoStack struct {
	xSize          int
	levels         []ports.Task
	bounds         *constraint.Aggregated
	regularisation ports.Task
	updated        bool
	refreshed      *constraint.List
}

// New returns a single-level stack.
func New(t ports.Task) (*AutoStack, error) {
	return NewStack([]ports.Task{t})
}

// NewStack returns a stack over levels with the given global bounds.
func NewStack(levels []ports.Task, bounds ...ports.Constraint) (*AutoStack, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("stack: %w: no levels", domain.ErrValidation)
	}
	xSize := levels[0].XSize()
	for _, t := range levels {
		if t == nil {
			return nil, fmt.Errorf("stack: %w: nil level", domain.ErrValidation)
		}
		if t.XSize() != xSize {
			return nil, domain.NewLengthError("stack level "+t.ID(), xSize, t.XSize())
		}
	}
	agg, err := constraint.NewAggregated(xSize, bounds...)
	if err != nil {
		return nil, err
	}
	return &AutoStack{
		xSize:  xSize,
		levels: append([]ports.Task(nil), levels...),
		bounds: agg,
	}, nil
}

// XSize is the length of the decision variable shared by every level.
func (s *AutoStack) XSize() int { return s.xSize }

// Levels returns the levels in priority order.
func (s *AutoStack) Levels() []ports.Task {
	return append([]ports.Task(nil), s.levels...)
}

// Bounds returns the global bounds aggregation.
func (s *AutoStack) Bounds() *constraint.Aggregated { return s.bounds }

// BoundsList returns the constraints in the global bounds aggregation.
func (s *AutoStack) BoundsList() []ports.Constraint { return s.bounds.Members() }

// Regularisation returns the regularisation task, or nil.
func (s *AutoStack) Regularisation() ports.Task { return s.regularisation }

// SetRegularisation installs t as the final, lowest priority level. A nil
// task removes it.
func (s *AutoStack) SetRegularisation(t ports.Task) error {
	if t != nil && t.XSize() != s.xSize {
		return domain.NewLengthError("regularisation "+t.ID(), s.xSize, t.XSize())
	}
	s.regularisation = t
	return nil
}

// Updated reports whether Update succeeded since the structure last changed.
// A constraint attached to a level after the last Update counts as a change.
func (s *AutoStack) Updated() bool {
	if !s.updated {
		return false
	}
	all := s.levels
	if s.regularisation != nil {
		all = append(s.Levels(), s.regularisation)
	}
	for _, t := range all {
		for _, c := range t.ActiveConstraints() {
			if !s.refreshed.Contains(c.Handle()) {
				return false
			}
		}
	}
	return true
}

// Update refreshes the bounds, every level in priority order, then the
// regularisation task.
func (s *AutoStack) Update(x mat.Vector) error {
	s.updated = false
	if err := linalg.CheckState("stack", x, s.xSize); err != nil {
		return err
	}
	if err := s.bounds.Update(x); err != nil {
		return fmt.Errorf("update bounds: %w", err)
	}
	seen := constraint.NewList(s.bounds.Members()...)
	for i, t := range s.levels {
		if err := t.Update(x); err != nil {
			return fmt.Errorf("update level %d (%s): %w", i, t.ID(), err)
		}
		if err := updateConstraints(t, x, seen); err != nil {
			return fmt.Errorf("update level %d (%s): %w", i, t.ID(), err)
		}
	}
	if s.regularisation != nil {
		if err := s.regularisation.Update(x); err != nil {
			return fmt.Errorf("update regularisation (%s): %w", s.regularisation.ID(), err)
		}
		if err := updateConstraints(s.regularisation, x, seen); err != nil {
			return fmt.Errorf("update regularisation (%s): %w", s.regularisation.ID(), err)
		}
	}
	s.refreshed = seen
	s.updated = true
	return nil
}

// updateConstraints refreshes the constraints of t not already refreshed
// this cycle, in attachment order.
func updateConstraints(t ports.Task, x mat.Vector, seen *constraint.List) error {
	for _, c := range t.ActiveConstraints() {
		if !seen.Add(c) {
			continue
		}
		if err := c.Update(x); err != nil {
			return fmt.Errorf("constraint %s: %w", c.ID(), err)
		}
	}
	return nil
}

// Task looks a task up by ID across levels, through nested aggregates, and
// the regularisation task.
func (s *AutoStack) Task(id string) (ports.Task, bool) {
	all := append(s.Levels(), s.regularisation)
	for _, t := range all {
		if found, ok := findTask(t, id); ok {
			return found, true
		}
	}
	return nil, false
}

func findTask(t ports.Task, id string) (ports.Task, bool) {
	if t == nil {
		return nil, false
	}
	if t.ID() == id {
		return t, true
	}
	if agg, ok := t.(*task.Aggregated); ok {
		for _, c := range agg.Children() {
			if found, ok := findTask(c, id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// CheckConsistency checks every level, the bounds and the regularisation
// task, returning every violation joined.
func (s *AutoStack) CheckConsistency() error {
	var errs []error
	for i, t := range s.levels {
		if t.XSize() != s.xSize {
			errs = append(errs, domain.NewLengthError(fmt.Sprintf("level %d", i), s.xSize, t.XSize()))
		}
		if err := t.CheckConsistency(); err != nil {
			errs = append(errs, fmt.Errorf("level %d (%s): %w", i, t.ID(), err))
		}
		for _, c := range t.ActiveConstraints() {
			if c.XSize() != s.xSize {
				errs = append(errs, domain.NewLengthError(fmt.Sprintf("level %d constraint %s", i, c.ID()), s.xSize, c.XSize()))
			}
		}
	}
	if err := s.bounds.CheckConsistency(); err != nil {
		errs = append(errs, fmt.Errorf("bounds: %w", err))
	}
	if s.regularisation != nil {
		if err := s.regularisation.CheckConsistency(); err != nil {
			errs = append(errs, fmt.Errorf("regularisation: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Describe summarizes the stack structure.
func (s *AutoStack) Describe() domain.StackDescription {
	desc := domain.StackDescription{
		XSize:  s.xSize,
		Levels: make([]domain.LevelDescription, len(s.levels)),
		Bounds: describeConstraints(s.bounds.Members()),
	}
	for i, t := range s.levels {
		desc.Levels[i] = domain.LevelDescription{
			Level:       i,
			TaskID:      t.ID(),
			Rows:        t.Rows(),
			Lambda:      t.Lambda(),
			Constraints: describeConstraints(t.ActiveConstraints()),
		}
	}
	if s.regularisation != nil {
		desc.Regularisation = s.regularisation.ID()
	}
	return desc
}

func describeConstraints(cs []ports.Constraint) []domain.ConstraintDescription {
	out := make([]domain.ConstraintDescription, len(cs))
	for i, c := range cs {
		out[i] = domain.ConstraintDescription{ID: c.ID(), Kind: c.Kind(), Rows: c.Rows()}
	}
	return out
}

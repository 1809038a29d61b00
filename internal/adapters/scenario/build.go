package scenario

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/model"
	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
	"github.com/jsamuelsen11/stack-of-tasks/internal/stack"
	"github.com/jsamuelsen11/stack-of-tasks/internal/task"
)

// Scenario is a built scenario, ready for a control loop.
type Scenario struct {
	Spec  *Spec
	Stack *stack.AutoStack
	State *mat.VecDense
	Dt    float64

	// Model is nil unless the scenario declares one.
	Model *model.Static
}

// Build constructs the stack described by s.
func Build(s *Spec) (*Scenario, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &builder{xSize: s.XSize}
	if s.Model != nil {
		m, err := buildModel(s.Model)
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		b.model = m
	}

	levels := make([]ports.Task, 0, len(s.Levels))
	for i, l := range s.Levels {
		t, err := b.level(l)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		levels = append(levels, t)
	}
	bounds := make([]ports.Constraint, 0, len(s.Bounds))
	for i, cs := range s.Bounds {
		c, err := b.constraint(cs)
		if err != nil {
			return nil, fmt.Errorf("bounds[%d]: %w", i, err)
		}
		bounds = append(bounds, c)
	}
	st, err := stack.NewStack(levels, bounds...)
	if err != nil {
		return nil, err
	}
	if s.Regularisation != nil {
		reg, err := b.task(*s.Regularisation)
		if err != nil {
			return nil, fmt.Errorf("regularisation: %w", err)
		}
		if err := st.SetRegularisation(reg); err != nil {
			return nil, err
		}
	}
	if err := st.CheckConsistency(); err != nil {
		return nil, err
	}

	state := mat.NewVecDense(s.XSize, nil)
	if len(s.State) > 0 {
		state = linalg.Vec(s.XSize, append([]float64(nil), s.State...))
	}
	return &Scenario{Spec: s, Stack: st, State: state, Dt: s.Dt, Model: b.model}, nil
}

// LoadAndBuild loads the scenario at path and builds it.
func LoadAndBuild(path string) (*Scenario, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	sc, err := Build(s)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

type builder struct {
	xSize int
	model *model.Static
}

func (b *builder) level(l LevelSpec) (ports.Task, error) {
	var acc ports.Task
	for _, ts := range l.Tasks {
		t, err := b.task(ts)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = t
			continue
		}
		if acc, err = stack.Merge(acc, t); err != nil {
			return nil, err
		}
	}
	if l.Weight > 0 {
		return stack.Weight(acc, l.Weight)
	}
	return acc, nil
}

func (b *builder) task(ts TaskSpec) (ports.Task, error) {
	var (
		t   ports.Task
		err error
	)
	switch ts.Type {
	case TaskLinear:
		var a *mat.Dense
		if a, err = matrix(ts.A); err != nil {
			return nil, fmt.Errorf("task %s: %w", ts.ID, err)
		}
		t, err = task.NewLinear(ts.ID, a, vector(ts.B))
	case TaskPostural:
		t, err = task.NewPostural(vector(ts.Reference))
	case TaskMinimumVelocity:
		t, err = task.NewMinimumVelocity(b.xSize)
	default:
		return nil, fmt.Errorf("%w: unknown task type %q", domain.ErrValidation, ts.Type)
	}
	if err != nil {
		return nil, err
	}
	if ts.Lambda != nil {
		if err := t.SetLambda(*ts.Lambda); err != nil {
			return nil, err
		}
	}
	for i, cs := range ts.Constraints {
		c, err := b.constraint(cs)
		if err != nil {
			return nil, fmt.Errorf("task %s constraint %d: %w", t.ID(), i, err)
		}
		if t, err = stack.Attach(t, c); err != nil {
			return nil, err
		}
	}
	if len(ts.Rows) > 0 {
		if t, err = stack.SelectRows(t, ts.Rows); err != nil {
			return nil, err
		}
	}
	if ts.Weight > 0 {
		return stack.Weight(t, ts.Weight)
	}
	return t, nil
}

func (b *builder) constraint(cs ConstraintSpec) (ports.Constraint, error) {
	c, err := b.baseConstraint(cs)
	if err != nil {
		return nil, err
	}
	if len(cs.Rows) > 0 {
		return stack.SelectConstraintRows(c, cs.Rows)
	}
	return c, nil
}

func (b *builder) baseConstraint(cs ConstraintSpec) (ports.Constraint, error) {
	switch cs.Type {
	case ConstraintBound:
		return constraint.NewBound(cs.ID, vector(cs.Lower), vector(cs.Upper))
	case ConstraintInequality:
		a, err := matrix(cs.A)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", cs.ID, err)
		}
		return constraint.NewInequality(cs.ID, a, vector(cs.LowerA), vector(cs.UpperA))
	case ConstraintEquality:
		a, err := matrix(cs.A)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", cs.ID, err)
		}
		return constraint.NewEquality(cs.ID, a, vector(cs.B))
	case ConstraintJointLimits:
		jl, err := constraint.NewJointLimits(vector(cs.QMin), vector(cs.QMax))
		if err != nil {
			return nil, err
		}
		if cs.BoundScaling > 0 {
			if err := jl.SetBoundScaling(cs.BoundScaling); err != nil {
				return nil, err
			}
		}
		return jl, nil
	case ConstraintVelocityLimits:
		dt := cs.Dt
		if dt == 0 {
			dt = 1
		}
		return constraint.NewVelocityLimits(b.xSize, cs.Limit, dt)
	case ConstraintTorqueLimits:
		return b.torqueLimits(cs)
	case ConstraintTask:
		t, err := b.task(*cs.Task)
		if err != nil {
			return nil, err
		}
		return constraint.NewTaskToConstraint(t)
	default:
		return nil, fmt.Errorf("%w: unknown constraint type %q", domain.ErrValidation, cs.Type)
	}
}

func (b *builder) torqueLimits(cs ConstraintSpec) (ports.Constraint, error) {
	if b.model == nil {
		return nil, fmt.Errorf("%w: torque_limits needs a model", domain.ErrValidation)
	}
	contacts := make([]constraint.Contact, len(cs.Contacts))
	for i, c := range cs.Contacts {
		contacts[i] = constraint.Contact{Link: c.Link, Rows: c.Rows}
	}
	tl, err := constraint.NewTorqueLimits(b.model, contacts, vector(cs.TauMax))
	if err != nil {
		return nil, err
	}
	for _, link := range cs.Disabled {
		if !tl.DisableContact(link) {
			return nil, fmt.Errorf("torque_limits: disable %q: %w", link, domain.ErrNotFound)
		}
	}
	return tl, nil
}

func buildModel(ms *ModelSpec) (*model.Static, error) {
	m, err := model.NewStatic(ms.DoF)
	if err != nil {
		return nil, err
	}
	if len(ms.Inertia) > 0 {
		inertia, err := matrix(ms.Inertia)
		if err != nil {
			return nil, fmt.Errorf("inertia: %w", err)
		}
		if err := m.SetInertia(inertia); err != nil {
			return nil, err
		}
	}
	if len(ms.Nonlinear) > 0 {
		if err := m.SetNonlinearTerm(vector(ms.Nonlinear)); err != nil {
			return nil, err
		}
	}
	for link, rows := range ms.Jacobians {
		jac, err := matrix(rows)
		if err != nil {
			return nil, fmt.Errorf("jacobian %s: %w", link, err)
		}
		if err := m.SetJacobian(link, jac); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// matrix converts row-major YAML rows into a dense matrix.
func matrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return &mat.Dense{}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, domain.NewLengthError(fmt.Sprintf("matrix row %d", i), cols, len(r))
		}
		data = append(data, r...)
	}
	return linalg.Dense(len(rows), cols, data), nil
}

func vector(v []float64) *mat.VecDense {
	return linalg.Vec(len(v), append([]float64(nil), v...))
}

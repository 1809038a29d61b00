// Package model provides robot model adapters for the ports.Model interface.
package model

import (
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Model = (*Static)(nil)

// Static is a model whose inertia, nonlinear term and Jacobians do not
// depend on the state. It stands in for a kinematic library in tools and
// tests.
type Static struct {
	dof       int
	q, qdot   *mat.VecDense
	inertia   *mat.Dense
	nonlinear *mat.VecDense
	jacobians map[string]*mat.Dense
}

// NewStatic returns a model with dof joints, identity inertia and a zero
// nonlinear term.
func NewStatic(dof int) (*Static, error) {
	if dof <= 0 {
		return nil, &domain.ValidationError{Fields: map[string]string{"dof": fmt.Sprintf("%d must be positive", dof)}}
	}
	return &Static{
		dof:       dof,
		q:         mat.NewVecDense(dof, nil),
		qdot:      mat.NewVecDense(dof, nil),
		inertia:   linalg.Identity(dof),
		nonlinear: mat.NewVecDense(dof, nil),
		jacobians: make(map[string]*mat.Dense),
	}, nil
}

// SetInertia replaces the joint-space inertia matrix.
func (m *Static) SetInertia(inertia *mat.Dense) error {
	if inertia == nil {
		return domain.NewShapeError("model inertia", m.dof, m.dof, 0, 0)
	}
	if err := linalg.CheckSquare("model inertia", inertia, m.dof); err != nil {
		return err
	}
	m.inertia = linalg.Clone(inertia)
	return nil
}

// SetNonlinearTerm replaces the Coriolis and gravity vector.
func (m *Static) SetNonlinearTerm(h *mat.VecDense) error {
	if linalg.Len(h) != m.dof {
		return domain.NewLengthError("model nonlinear term", m.dof, linalg.Len(h))
	}
	m.nonlinear = linalg.CloneVec(h)
	return nil
}

// SetJacobian installs the 6×dof Jacobian of link.
func (m *Static) SetJacobian(link string, jac *mat.Dense) error {
	if link == "" {
		return &domain.ValidationError{Fields: map[string]string{"link": "must not be empty"}}
	}
	if jac == nil {
		return domain.NewShapeError("model jacobian "+link, 6, m.dof, 0, 0)
	}
	if r, c := jac.Dims(); r != 6 || c != m.dof {
		return domain.NewShapeError("model jacobian "+link, 6, m.dof, r, c)
	}
	m.jacobians[link] = linalg.Clone(jac)
	return nil
}

// Links returns the links with a Jacobian, sorted.
func (m *Static) Links() []string {
	return slices.Sorted(maps.Keys(m.jacobians))
}

func (m *Static) DoF() int { return m.dof }

func (m *Static) SetState(q, qdot mat.Vector) error {
	if err := linalg.CheckState("model q", q, m.dof); err != nil {
		return err
	}
	if err := linalg.CheckState("model qdot", qdot, m.dof); err != nil {
		return err
	}
	m.q = linalg.ToVec(q)
	m.qdot = linalg.ToVec(qdot)
	return nil
}

func (m *Static) JointPosition() *mat.VecDense { return linalg.CloneVec(m.q) }

func (m *Static) JointVelocity() *mat.VecDense { return linalg.CloneVec(m.qdot) }

func (m *Static) Jacobian(link string) (*mat.Dense, error) {
	jac, ok := m.jacobians[link]
	if !ok {
		return nil, fmt.Errorf("jacobian of link %q: %w", link, domain.ErrNotFound)
	}
	return linalg.Clone(jac), nil
}

func (m *Static) InertiaMatrix() *mat.Dense { return linalg.Clone(m.inertia) }

func (m *Static) NonlinearTerm() *mat.VecDense { return linalg.CloneVec(m.nonlinear) }

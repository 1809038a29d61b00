package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
)

func TestNewStatic(t *testing.T) {
	t.Parallel()

	m, err := NewStatic(2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.DoF())
	assert.True(t, mat.Equal(linalg.Identity(2), m.InertiaMatrix()))
	assert.Equal(t, []float64{0, 0}, m.NonlinearTerm().RawVector().Data)

	_, err = NewStatic(0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatic_SetState(t *testing.T) {
	t.Parallel()

	m, err := NewStatic(2)
	require.NoError(t, err)

	require.NoError(t, m.SetState(linalg.Vec(2, []float64{1, 2}), linalg.Vec(2, []float64{3, 4})))
	assert.Equal(t, []float64{1, 2}, m.JointPosition().RawVector().Data)
	assert.Equal(t, []float64{3, 4}, m.JointVelocity().RawVector().Data)

	// The returned state is a copy.
	m.JointPosition().SetVec(0, 99)
	assert.InDelta(t, 1.0, m.JointPosition().AtVec(0), 0)

	err = m.SetState(linalg.Vec(3, []float64{1, 2, 3}), linalg.Vec(2, nil))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestStatic_Jacobian(t *testing.T) {
	t.Parallel()

	m, err := NewStatic(2)
	require.NoError(t, err)

	jac := mat.NewDense(6, 2, nil)
	jac.Set(0, 0, 1)
	require.NoError(t, m.SetJacobian("foot", jac))
	assert.Equal(t, []string{"foot"}, m.Links())

	got, err := m.Jacobian("foot")
	require.NoError(t, err)
	assert.True(t, mat.Equal(jac, got))

	_, err = m.Jacobian("hand")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = m.SetJacobian("hand", mat.NewDense(3, 2, nil))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestStatic_Dynamics(t *testing.T) {
	t.Parallel()

	m, err := NewStatic(2)
	require.NoError(t, err)

	inertia := linalg.Dense(2, 2, []float64{2, 0, 0, 3})
	require.NoError(t, m.SetInertia(inertia))
	require.NoError(t, m.SetNonlinearTerm(linalg.Vec(2, []float64{1, -1})))
	assert.True(t, mat.Equal(inertia, m.InertiaMatrix()))
	assert.Equal(t, []float64{1, -1}, m.NonlinearTerm().RawVector().Data)

	assert.ErrorIs(t, m.SetInertia(linalg.Identity(3)), domain.ErrShapeMismatch)
	assert.ErrorIs(t, m.SetNonlinearTerm(linalg.Vec(1, []float64{0})), domain.ErrShapeMismatch)
}

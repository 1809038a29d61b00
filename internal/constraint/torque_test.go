package constraint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// stubModel is a two-joint model with one contact link.
type stubModel struct{}

func (stubModel) DoF() int { return 2 }
func (stubModel) SetState(_, _ mat.Vector) error { return nil }
func (stubModel) JointPosition() *mat.VecDense { return mat.NewVecDense(2, nil) }
func (stubModel) JointVelocity() *mat.VecDense { return mat.NewVecDense(2, nil) }
func (stubModel) InertiaMatrix() *mat.Dense { return mat.NewDense(2, 2, []float64{2, 0, 0, 3}) }
func (stubModel) NonlinearTerm() *mat.VecDense { return mat.NewVecDense(2, []float64{1, -1}) }
func (stubModel) Jacobian(link string) (*mat.Dense, error) {
	if link != "foot" {
		return nil, fmt.Errorf("link %s: %w", link, domain.ErrNotFound)
	}
	j := mat.NewDense(6, 2, nil)
	j.Set(0, 0, 1)
	j.Set(1, 1, 1)
	j.Set(2, 0, 4)
	return j, nil
}

func TestTorqueLimits_Update(t *testing.T) {
	t.Parallel()

	tl, err := NewTorqueLimits(stubModel{}, []Contact{{Link: "foot", Rows: 3}}, vec(10, 20))
	require.NoError(t, err)
	assert.Equal(t, 5, tl.XSize())
	assert.Equal(t, domain.KindInequality, tl.Kind())

	require.NoError(t, tl.Update(mat.NewVecDense(5, nil)))
	a, lA, uA, err := tl.Inequality()
	require.NoError(t, err)

	want := mat.NewDense(2, 5, []float64{
		2, 0, -1, 0, -4,
		0, 3, 0, -1, 0,
	})
	assert.True(t, mat.Equal(a, want), "A = %v", mat.Formatted(a))
	assert.Equal(t, []float64{-11, -19}, lA.RawVector().Data)
	assert.Equal(t, []float64{9, 21}, uA.RawVector().Data)
}

func TestTorqueLimits_DisableContact(t *testing.T) {
	t.Parallel()

	tl, err := NewTorqueLimits(stubModel{}, []Contact{{Link: "foot", Rows: 3}}, vec(10, 20))
	require.NoError(t, err)

	assert.True(t, tl.DisableContact("foot"))
	assert.False(t, tl.DisableContact("hand"))
	assert.Equal(t, []bool{false}, tl.EnabledContacts())

	require.NoError(t, tl.Update(mat.NewVecDense(5, nil)))
	a, _, _, err := tl.Inequality()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 0, 0, 0}, a.RawRowView(0))

	assert.True(t, tl.EnableContact("foot"))
	assert.Equal(t, []bool{true}, tl.EnabledContacts())
}

func TestTorqueLimits_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTorqueLimits(stubModel{}, nil, vec(1))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = NewTorqueLimits(stubModel{}, []Contact{{Link: "foot", Rows: 7}}, vec(1, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

package constraint

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

func vec(vs ...float64) *mat.VecDense { return mat.NewVecDense(len(vs), vs) }

func ids(cs []ports.Constraint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID()
	}
	return out
}

func mustBound(t *testing.T, id string, l, u *mat.VecDense) *Bound {
	t.Helper()
	b, err := NewBound(id, l, u)
	require.NoError(t, err)
	return b
}

func TestBound_Accessors(t *testing.T) {
	t.Parallel()

	b := mustBound(t, "box", vec(-1, -1), vec(1, 1))
	require.NoError(t, b.Update(vec(0, 0)))

	assert.Equal(t, domain.KindBound, b.Kind())
	assert.Equal(t, 2, b.Rows())

	l, u, err := b.Bounds()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1}, l.RawVector().Data)
	assert.Equal(t, []float64{1, 1}, u.RawVector().Data)

	_, _, _, err = b.Inequality()
	assert.ErrorIs(t, err, domain.ErrWrongConstraintKind)
	_, _, err = b.Equality()
	assert.ErrorIs(t, err, domain.ErrWrongConstraintKind)
}

func TestBound_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		l, u    *mat.VecDense
		wantErr error
	}{
		{name: "crossed", l: vec(1), u: vec(0), wantErr: domain.ErrValidation},
		{name: "length mismatch", l: vec(0, 0), u: vec(1), wantErr: domain.ErrShapeMismatch},
		{name: "infinite sides", l: vec(math.Inf(-1)), u: vec(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBound("b", tt.l, tt.u)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBound_UpdateShapeMismatch(t *testing.T) {
	t.Parallel()

	b := mustBound(t, "box", vec(-1, -1), vec(1, 1))
	assert.ErrorIs(t, b.Update(vec(0, 0, 0)), domain.ErrShapeMismatch)
}

func TestList_DeduplicatesByHandle(t *testing.T) {
	t.Parallel()

	a := mustBound(t, "box", vec(-1), vec(1))
	twin := mustBound(t, "box", vec(-1), vec(1))

	l := NewList(a, a, twin)
	assert.Equal(t, 2, l.Len(), "structurally equal constraints with distinct handles stay distinct")
	assert.True(t, l.Contains(a.Handle()))

	assert.True(t, l.Remove(a.Handle()))
	assert.False(t, l.Remove(a.Handle()))
	assert.Equal(t, []string{"box"}, ids(l.Items()))
	assert.True(t, l.Contains(twin.Handle()))

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains(twin.Handle()))
}

func TestJointLimits_Update(t *testing.T) {
	t.Parallel()

	jl, err := NewJointLimits(vec(-1, -2), vec(1, 2))
	require.NoError(t, err)
	require.NoError(t, jl.SetBoundScaling(0.5))
	require.NoError(t, jl.Update(vec(0.5, -1)))

	l, u, err := jl.Bounds()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.75, -0.5}, l.RawVector().Data, 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 1.5}, u.RawVector().Data, 1e-12)

	assert.ErrorIs(t, jl.SetBoundScaling(0), domain.ErrValidation)
}

func TestVelocityLimits(t *testing.T) {
	t.Parallel()

	vl, err := NewVelocityLimits(3, 2, 0.01)
	require.NoError(t, err)
	require.NoError(t, vl.Update(vec(0, 0, 0)))

	l, u, err := vl.Bounds()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.02, -0.02, -0.02}, l.RawVector().Data, 1e-12)
	assert.InDeltaSlice(t, []float64{0.02, 0.02, 0.02}, u.RawVector().Data, 1e-12)

	_, err = NewVelocityLimits(3, 1, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubConstraint_OfBoundIsInequality(t *testing.T) {
	t.Parallel()

	b := mustBound(t, "box", vec(-1, -2, -3), vec(1, 2, 3))
	sub, err := NewSubConstraint(b, []int{0, 2})
	require.NoError(t, err)

	assert.Equal(t, domain.KindInequality, sub.Kind())
	assert.Equal(t, []int{0, 2}, sub.Indices())
	assert.Equal(t, 2, sub.Rows())

	a, lA, uA, err := sub.Inequality()
	require.NoError(t, err)
	assert.True(t, mat.Equal(a, mat.NewDense(2, 3, []float64{1, 0, 0, 0, 0, 1})))
	assert.Equal(t, []float64{-1, -3}, lA.RawVector().Data)
	assert.Equal(t, []float64{1, 3}, uA.RawVector().Data)
}

func TestSubConstraint_OutOfRange(t *testing.T) {
	t.Parallel()

	eq, err := NewEquality("eq", mat.NewDense(2, 2, []float64{1, 0, 0, 1}), vec(1, 2))
	require.NoError(t, err)

	_, err = NewSubConstraint(eq, []int{2})
	var ierr *domain.IndexError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 2, ierr.Index)

	_, err = NewSubConstraint(eq, []int{1, 1})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	_, err = NewSubConstraint(eq, []int{1, 0})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	sub, err := NewSubConstraint(eq, []int{1})
	require.NoError(t, err)
	a, b, err := sub.Equality()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, a.RawRowView(0))
	assert.Equal(t, []float64{2}, b.RawVector().Data)
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	b1 := mustBound(t, "b1", vec(-1, -inf), vec(1, 5))
	b2 := mustBound(t, "b2", vec(-2, -3), vec(0.5, inf))
	ineq, err := NewInequality("sum", mat.NewDense(1, 2, []float64{1, 1}), vec(-inf), vec(1))
	require.NoError(t, err)
	eq, err := NewEquality("fix", mat.NewDense(1, 2, []float64{1, -1}), vec(0))
	require.NoError(t, err)

	asm, err := Assemble(2, []ports.Constraint{b1, ineq, b2, eq})
	require.NoError(t, err)

	assert.Equal(t, []float64{-1, -3}, asm.L.RawVector().Data)
	assert.Equal(t, []float64{0.5, 5}, asm.U.RawVector().Data)
	assert.Equal(t, 2, asm.M)
	assert.Equal(t, []float64{-inf, 0}, asm.LA.RawVector().Data)
	assert.Equal(t, []float64{1, 0}, asm.UA.RawVector().Data)
	assert.Equal(t, -1, asm.Crossed())
}

func TestAssemble_Crossed(t *testing.T) {
	t.Parallel()

	asm, err := Assemble(1, []ports.Constraint{
		mustBound(t, "low", vec(1), vec(2)),
		mustBound(t, "high", vec(3), vec(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, asm.Crossed())
}

func TestAggregated_KindFollowsMembers(t *testing.T) {
	t.Parallel()

	b := mustBound(t, "box", vec(-1, -1), vec(1, 1))
	agg, err := NewAggregated(2, b, b)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Len())
	assert.Equal(t, domain.KindBound, agg.Kind())

	ineq, err := NewInequality("sum", mat.NewDense(1, 2, []float64{1, 1}), vec(0), vec(1))
	require.NoError(t, err)
	require.NoError(t, agg.Add(ineq))
	assert.Equal(t, domain.KindInequality, agg.Kind())

	require.NoError(t, agg.Update(vec(0, 0)))
	assert.Equal(t, 3, agg.Rows())
	_, lA, uA, err := agg.Inequality()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, 0}, lA.RawVector().Data)
	assert.Equal(t, []float64{1, 1, 1}, uA.RawVector().Data)
	require.NoError(t, agg.CheckConsistency())

	assert.True(t, agg.Remove(ineq.Handle()))
	assert.Equal(t, domain.KindBound, agg.Kind())
}

func TestAggregated_RejectsWrongSize(t *testing.T) {
	t.Parallel()

	agg, err := NewAggregated(2)
	require.NoError(t, err)
	err = agg.Add(mustBound(t, "box", vec(0), vec(1)))
	assert.True(t, errors.Is(err, domain.ErrShapeMismatch))
}

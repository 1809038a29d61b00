package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/task"
)

func vec(vs ...float64) *mat.VecDense { return mat.NewVecDense(len(vs), vs) }

func linear(t *testing.T, id string, rows, cols int) *task.Linear {
	t.Helper()
	a := mat.NewDense(rows, cols, nil)
	for i := range rows {
		a.Set(i, i%cols, 1)
	}
	lt, err := task.NewLinear(id, a, mat.NewVecDense(rows, nil))
	require.NoError(t, err)
	return lt
}

func box(t *testing.T, id string, n int, lim float64) *constraint.Bound {
	t.Helper()
	l := mat.NewVecDense(n, nil)
	u := mat.NewVecDense(n, nil)
	for i := range n {
		l.SetVec(i, -lim)
		u.SetVec(i, lim)
	}
	b, err := constraint.NewBound(id, l, u)
	require.NoError(t, err)
	return b
}

func TestWeight_RoundTrip(t *testing.T) {
	t.Parallel()

	lt := linear(t, "lin", 3, 3)
	require.NoError(t, lt.SetWeight(mat.NewDiagDense(3, []float64{1, 2, 3})))
	before := mat.DenseCopyOf(lt.Weight())

	_, err := Weight(lt, 4)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, lt.Weight().At(1, 1), 1e-12)

	_, err = Weight(lt, 0.25)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(before, lt.Weight(), 1e-12))

	_, err = Weight(lt, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
}

func TestWeightMatrix_ShapeMismatch(t *testing.T) {
	t.Parallel()

	lt := linear(t, "lin", 2, 3)
	_, err := WeightMatrix(lt, mat.NewDiagDense(3, []float64{1, 1, 1}))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestMerge_GainRule(t *testing.T) {
	t.Parallel()

	t1, t2, t3, t4 := linear(t, "t1", 1, 2), linear(t, "t2", 1, 2), linear(t, "t3", 1, 2), linear(t, "t4", 1, 2)

	a12, err := Merge(t1, t2)
	require.NoError(t, err)
	a34, err := Merge(t3, t4)
	require.NoError(t, err)

	flat, err := Merge(a12, a34)
	require.NoError(t, err)
	assert.Len(t, flat.Children(), 4, "equal gains flatten")
	assert.Equal(t, "t1+t2+t3+t4", flat.ID())

	require.NoError(t, a34.SetLambda(0.5))
	nested, err := Merge(a12, a34)
	require.NoError(t, err)
	children := nested.Children()
	require.Len(t, children, 2, "different gains nest")
	assert.Same(t, a12, children[0])
	assert.Same(t, a34, children[1])
	assert.InDelta(t, 0.5, t3.Lambda(), 0, "children keep their gains")
	assert.InDelta(t, 1.0, t1.Lambda(), 0)

	leafFlat, err := Merge(a12, linear(t, "t5", 1, 2))
	require.NoError(t, err)
	assert.Len(t, leafFlat.Children(), 3)

	_, err = Merge(t1, linear(t, "wide", 1, 3))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestMerge_KeepsAggregateWeight(t *testing.T) {
	t.Parallel()

	a, b, c := linear(t, "a", 1, 3), linear(t, "b", 1, 3), linear(t, "c", 1, 3)
	ab, err := Merge(a, b)
	require.NoError(t, err)
	_, err = Weight(ab, 3)
	require.NoError(t, err)

	abc, err := Merge(ab, c)
	require.NoError(t, err)
	require.Len(t, abc.Children(), 3)
	require.NoError(t, abc.Update(vec(0, 0, 0)))

	want := mat.NewDiagDense(3, []float64{3, 3, 1})
	assert.True(t, mat.EqualApprox(want, abc.Weight(), 1e-12), "weight = %v", mat.Formatted(abc.Weight()))
	assert.InDelta(t, 1.0, a.Weight().At(0, 0), 0, "children keep their own weight")

	plain, err := Merge(linear(t, "d", 1, 3), c)
	require.NoError(t, err)
	assert.False(t, plain.HasExplicitWeight())
}

func TestLevels_AppendPrependConcat(t *testing.T) {
	t.Parallel()

	t1, t2, t3 := linear(t, "t1", 1, 2), linear(t, "t2", 1, 2), linear(t, "t3", 1, 2)
	shared := box(t, "shared", 2, 1)

	s, err := Levels(t1, t2)
	require.NoError(t, err)
	_, err = AttachBound(s, shared)
	require.NoError(t, err)
	_, err = AttachBound(s, shared)
	require.NoError(t, err)
	assert.Len(t, s.BoundsList(), 1, "bounds are identity-deduplicated")

	appended, err := AppendLevel(s, t3)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, levelIDs(appended))
	assert.Equal(t, []string{"t1", "t2"}, levelIDs(s), "original stack is unchanged")

	prepended, err := PrependLevel(t3, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t1", "t2"}, levelIDs(prepended))

	other, err := New(t3)
	require.NoError(t, err)
	_, err = AttachBound(other, shared)
	require.NoError(t, err)
	_, err = AttachBound(other, box(t, "other", 2, 2))
	require.NoError(t, err)

	joined, err := Concat(s, other)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, levelIDs(joined))
	assert.Len(t, joined.BoundsList(), 2)

	_, err = AppendLevel(s, linear(t, "wide", 1, 3))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestExtend_NilSafe(t *testing.T) {
	t.Parallel()

	var s *AutoStack
	s, err := Extend(s, linear(t, "t1", 1, 2))
	require.NoError(t, err)
	s, err = Extend(s, linear(t, "t2", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, levelIDs(s))
}

func TestAttach(t *testing.T) {
	t.Parallel()

	lt := linear(t, "lin", 1, 2)
	_, err := Attach(lt, box(t, "box", 2, 1))
	require.NoError(t, err)
	_, err = AttachTask(lt, linear(t, "fixed", 1, 2))
	require.NoError(t, err)

	active := lt.ActiveConstraints()
	require.Len(t, active, 2)
	assert.Equal(t, domain.KindBound, active[0].Kind())
	assert.Equal(t, domain.KindEquality, active[1].Kind())

	_, err = Attach(lt, box(t, "wide", 3, 1))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestAttach_AfterUpdateMarksStackStale(t *testing.T) {
	t.Parallel()

	lt := linear(t, "lin", 2, 2)
	s, err := New(lt)
	require.NoError(t, err)
	require.NoError(t, s.Update(vec(0, 0)))
	require.True(t, s.Updated())

	_, err = Attach(lt, box(t, "late", 2, 1))
	require.NoError(t, err)
	assert.False(t, s.Updated(), "new attachment has not been refreshed")

	require.NoError(t, s.Update(vec(0, 0)))
	assert.True(t, s.Updated())
}

func TestAutoStack_UpdateAndLookup(t *testing.T) {
	t.Parallel()

	t1, t2, t3 := linear(t, "t1", 1, 2), linear(t, "t2", 1, 2), linear(t, "t3", 1, 2)
	agg, err := Merge(t2, t3)
	require.NoError(t, err)
	s, err := Levels(t1, agg)
	require.NoError(t, err)
	reg, err := task.NewMinimumVelocity(2)
	require.NoError(t, err)
	require.NoError(t, s.SetRegularisation(reg))

	assert.False(t, s.Updated())
	require.NoError(t, s.Update(vec(0, 0)))
	assert.True(t, s.Updated())

	found, ok := s.Task("t3")
	require.True(t, ok)
	assert.Same(t, t3, found)
	found, ok = s.Task("minimum_velocity")
	require.True(t, ok)
	assert.Same(t, reg, found)
	_, ok = s.Task("missing")
	assert.False(t, ok)

	require.NoError(t, s.CheckConsistency())

	assert.ErrorIs(t, s.Update(vec(0)), domain.ErrShapeMismatch)
	assert.False(t, s.Updated())

	desc := s.Describe()
	assert.Equal(t, 2, desc.XSize)
	require.Len(t, desc.Levels, 2)
	assert.Equal(t, "t2+t3", desc.Levels[1].TaskID)
	assert.Equal(t, "minimum_velocity", desc.Regularisation)
}

func TestSelectRows(t *testing.T) {
	t.Parallel()

	lt := linear(t, "lin", 5, 5)
	sub, err := SelectRows(lt, []int{2, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Rows())

	_, err = SelectRows(lt, []int{5})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	subC, err := SelectConstraintRows(box(t, "box", 5, 1), []int{0})
	require.NoError(t, err)
	assert.Equal(t, domain.KindInequality, subC.Kind())
}

func levelIDs(s *AutoStack) []string {
	ls := s.Levels()
	out := make([]string, len(ls))
	for i, t := range ls {
		out[i] = t.ID()
	}
	return out
}

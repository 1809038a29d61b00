// Package linalg holds the small dense helpers shared by tasks, constraints
// and the solver. gonum refuses zero-sized matrices, so every helper here
// represents "no rows" with an empty receiver and reports sizes through Rows
// and Len instead of Dims.
package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Rows returns the row count of m, zero for nil or empty matrices.
func Rows(m *mat.Dense) int {
	if m == nil || m.IsEmpty() {
		return 0
	}
	r, _ := m.Dims()
	return r
}

// Len returns the length of v, zero for nil or empty vectors.
func Len(v *mat.VecDense) int {
	if v == nil || v.IsEmpty() {
		return 0
	}
	return v.Len()
}

// Dense returns an r×c matrix, or an empty one when r or c is zero.
func Dense(r, c int, data []float64) *mat.Dense {
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(r, c, data)
}

// Vec returns a vector of length n, or an empty one when n is zero.
func Vec(n int, data []float64) *mat.VecDense {
	if n == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(n, data)
}

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	m := Dense(n, n, nil)
	for i := range n {
		m.Set(i, i, 1)
	}
	return m
}

// Filled returns a vector of length n with every entry set to v.
func Filled(n int, v float64) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return Vec(n, data)
}

// Clone returns a deep copy of m, preserving emptiness.
func Clone(m *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	if Rows(m) > 0 {
		out.CloneFrom(m)
	}
	return out
}

// CloneVec returns a deep copy of v, preserving emptiness.
func CloneVec(v *mat.VecDense) *mat.VecDense {
	out := &mat.VecDense{}
	if Len(v) > 0 {
		out.CloneFromVec(v)
	}
	return out
}

// ToVec copies any vector into a VecDense.
func ToVec(v mat.Vector) *mat.VecDense {
	if v == nil || v.Len() == 0 {
		return &mat.VecDense{}
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)
	return out
}

// VStack row-stacks ms, each of which must have cols columns. Empty operands
// contribute no rows.
func VStack(cols int, ms ...*mat.Dense) (*mat.Dense, error) {
	total := 0
	for i, m := range ms {
		r := Rows(m)
		if r == 0 {
			continue
		}
		if _, c := m.Dims(); c != cols {
			return nil, domain.NewShapeError(fmt.Sprintf("vstack operand %d", i), r, cols, r, c)
		}
		total += r
	}
	out := Dense(total, cols, nil)
	row := 0
	for _, m := range ms {
		r := Rows(m)
		if r == 0 {
			continue
		}
		out.Slice(row, row+r, 0, cols).(*mat.Dense).Copy(m)
		row += r
	}
	return out, nil
}

// VCat concatenates vectors end to end.
func VCat(vs ...*mat.VecDense) *mat.VecDense {
	total := 0
	for _, v := range vs {
		total += Len(v)
	}
	data := make([]float64, 0, total)
	for _, v := range vs {
		for i := range Len(v) {
			data = append(data, v.AtVec(i))
		}
	}
	return Vec(total, data)
}

// BlockDiag places square or rectangular blocks along the diagonal.
func BlockDiag(ms ...*mat.Dense) *mat.Dense {
	rows, cols := 0, 0
	for _, m := range ms {
		if Rows(m) == 0 {
			continue
		}
		r, c := m.Dims()
		rows += r
		cols += c
	}
	out := Dense(rows, cols, nil)
	r0, c0 := 0, 0
	for _, m := range ms {
		if Rows(m) == 0 {
			continue
		}
		r, c := m.Dims()
		out.Slice(r0, r0+r, c0, c0+c).(*mat.Dense).Copy(m)
		r0 += r
		c0 += c
	}
	return out
}

// SelectRows returns the rows of m listed in idx, in idx order.
func SelectRows(m *mat.Dense, idx []int) *mat.Dense {
	if Rows(m) == 0 || len(idx) == 0 {
		return &mat.Dense{}
	}
	_, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, k := range idx {
		out.SetRow(i, m.RawRowView(k))
	}
	return out
}

// SelectBlock returns the (idx, idx) principal block of a square matrix.
func SelectBlock(m *mat.Dense, idx []int) *mat.Dense {
	if Rows(m) == 0 || len(idx) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(idx), len(idx), nil)
	for i, ri := range idx {
		for j, cj := range idx {
			out.Set(i, j, m.At(ri, cj))
		}
	}
	return out
}

// SetBlock writes b into the (idx, idx) principal block of m.
func SetBlock(m *mat.Dense, idx []int, b mat.Matrix) {
	for i, ri := range idx {
		for j, cj := range idx {
			m.Set(ri, cj, b.At(i, j))
		}
	}
}

// SelectElems returns the entries of v listed in idx, in idx order.
func SelectElems(v *mat.VecDense, idx []int) *mat.VecDense {
	data := make([]float64, len(idx))
	for i, k := range idx {
		data[i] = v.AtVec(k)
	}
	return Vec(len(idx), data)
}

// CheckSquare verifies that m is n×n.
func CheckSquare(op string, m mat.Matrix, n int) error {
	r, c := m.Dims()
	if r != n || c != n {
		return domain.NewShapeError(op, n, n, r, c)
	}
	return nil
}

// CheckState verifies the length of a state vector.
func CheckState(op string, x mat.Vector, n int) error {
	if x == nil {
		return domain.NewLengthError(op, n, 0)
	}
	if x.Len() != n {
		return domain.NewLengthError(op, n, x.Len())
	}
	return nil
}

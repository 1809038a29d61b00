package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

// costTerms returns H = AᵀWA + εI and g = −AᵀWb for t.
func costTerms(t ports.Task, xSize int, eps float64) (*mat.SymDense, *mat.VecDense) {
	h := mat.NewSymDense(xSize, nil)
	g := mat.NewVecDense(xSize, nil)
	if t.Rows() > 0 {
		var wa mat.Dense
		wa.Mul(t.Weight(), t.A())
		var ata mat.Dense
		ata.Mul(t.A().T(), &wa)
		for i := range xSize {
			for j := i; j < xSize; j++ {
				h.SetSym(i, j, 0.5*(ata.At(i, j)+ata.At(j, i)))
			}
		}
		g.MulVec(wa.T(), t.B())
		g.ScaleVec(-1, g)
	}
	for i := range xSize {
		h.SetSym(i, i, h.At(i, i)+eps)
	}
	return h, g
}

// priorityRows returns the rows A_j of every higher level together with the
// band A_j·x_prev ± relaxation that keeps their achieved values.
func priorityRows(higher []ports.Task, xSize int, xPrev *mat.VecDense, relaxation float64) (*mat.Dense, *mat.VecDense, *mat.VecDense, error) {
	as := make([]*mat.Dense, 0, len(higher))
	for _, t := range higher {
		as = append(as, t.A())
	}
	a, err := linalg.VStack(xSize, as...)
	if err != nil {
		return nil, nil, nil, err
	}
	rows := linalg.Rows(a)
	if rows == 0 {
		return a, &mat.VecDense{}, &mat.VecDense{}, nil
	}
	target := mat.NewVecDense(rows, nil)
	target.MulVec(a, xPrev)
	lo := mat.NewVecDense(rows, nil)
	hi := mat.NewVecDense(rows, nil)
	for i := range rows {
		lo.SetVec(i, target.AtVec(i)-relaxation)
		hi.SetVec(i, target.AtVec(i)+relaxation)
	}
	return a, lo, hi, nil
}

// buildProblem assembles level task t with the constraints cs and, when
// xPrev is set, the priority rows of higher.
func buildProblem(t ports.Task, xSize int, cs []ports.Constraint, higher []ports.Task, xPrev *mat.VecDense, opts Options) (*domain.Problem, constraint.Assembly, error) {
	asm, err := constraint.Assemble(xSize, cs)
	if err != nil {
		return nil, constraint.Assembly{}, err
	}
	h, g := costTerms(t, xSize, opts.Regularization)

	a, lA, uA := asm.A, asm.LA, asm.UA
	if xPrev != nil && len(higher) > 0 {
		pa, plo, phi, err := priorityRows(higher, xSize, xPrev, opts.Relaxation)
		if err != nil {
			return nil, constraint.Assembly{}, err
		}
		if a, err = linalg.VStack(xSize, asm.A, pa); err != nil {
			return nil, constraint.Assembly{}, err
		}
		lA = linalg.VCat(asm.LA, plo)
		uA = linalg.VCat(asm.UA, phi)
	}
	return &domain.Problem{
		N:  xSize,
		M:  linalg.Rows(a),
		H:  h,
		G:  g,
		A:  a,
		LA: lA,
		UA: uA,
		L:  asm.L,
		U:  asm.U,
	}, asm, nil
}

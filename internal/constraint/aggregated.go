package constraint

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Constraint = (*Aggregated)(nil)

// Assembly is a set of constraints in solver form: the intersection of every
// box, and every inequality and equality stacked as lA ≤ A·x ≤ uA rows with
// lA = uA for equalities.
type Assembly struct {
	N  int
	M  int
	L  *mat.VecDense
	U  *mat.VecDense
	A  *mat.Dense
	LA *mat.VecDense
	UA *mat.VecDense
}

// Assemble merges cs, which must already be updated, into solver form.
// Sides without any bound are ±Inf.
func Assemble(xSize int, cs []ports.Constraint) (Assembly, error) {
	asm := Assembly{
		N: xSize,
		L: linalg.Filled(xSize, math.Inf(-1)),
		U: linalg.Filled(xSize, math.Inf(1)),
	}
	var (
		as       []*mat.Dense
		los, his []*mat.VecDense
	)
	for _, c := range cs {
		if c.XSize() != xSize {
			return Assembly{}, domain.NewLengthError("assemble "+c.ID(), xSize, c.XSize())
		}
		switch c.Kind() {
		case domain.KindBound:
			l, u, err := c.Bounds()
			if err != nil {
				return Assembly{}, err
			}
			for i := range xSize {
				asm.L.SetVec(i, math.Max(asm.L.AtVec(i), l.AtVec(i)))
				asm.U.SetVec(i, math.Min(asm.U.AtVec(i), u.AtVec(i)))
			}
		case domain.KindInequality:
			a, lA, uA, err := c.Inequality()
			if err != nil {
				return Assembly{}, err
			}
			as, los, his = append(as, a), append(los, lA), append(his, uA)
		case domain.KindEquality:
			a, b, err := c.Equality()
			if err != nil {
				return Assembly{}, err
			}
			as, los, his = append(as, a), append(los, b), append(his, b)
		default:
			return Assembly{}, fmt.Errorf("assemble %s: %w", c.ID(), domain.ErrWrongConstraintKind)
		}
	}
	a, err := linalg.VStack(xSize, as...)
	if err != nil {
		return Assembly{}, err
	}
	asm.A = a
	asm.LA = linalg.VCat(los...)
	asm.UA = linalg.VCat(his...)
	asm.M = linalg.Rows(a)
	return asm, nil
}

// Crossed returns the first box or row whose lower side exceeds its upper
// side, or -1 when the assembly is consistent.
func (a Assembly) Crossed() int {
	for i := range a.N {
		if a.L.AtVec(i) > a.U.AtVec(i) {
			return i
		}
	}
	for i := range a.M {
		if a.LA.AtVec(i) > a.UA.AtVec(i) {
			return a.N + i
		}
	}
	return -1
}

// Aggregated merges constraints sharing one decision variable. It is a
// Bound while every member is a Bound, and an Inequality otherwise, in
// which case the box becomes leading identity rows.
type Aggregated struct {
	Base
	members *List
	asm     Assembly
}

// NewAggregated returns an aggregation over xSize variables.
func NewAggregated(xSize int, cs ...ports.Constraint) (*Aggregated, error) {
	agg := &Aggregated{
		Base:    newBase("constraints_aggregation", xSize, domain.KindBound),
		members: NewList(),
	}
	for _, c := range cs {
		if err := agg.Add(c); err != nil {
			return nil, err
		}
	}
	agg.asm, _ = Assemble(xSize, nil)
	agg.l, agg.u = agg.asm.L, agg.asm.U
	return agg, nil
}

// Add appends c unless its handle is already present.
func (g *Aggregated) Add(c ports.Constraint) error {
	if c.XSize() != g.xSize {
		return domain.NewLengthError("aggregate "+c.ID(), g.xSize, c.XSize())
	}
	if g.members.Add(c) {
		g.refreshKind()
	}
	return nil
}

// Remove drops the constraint with handle h.
func (g *Aggregated) Remove(h domain.Handle) bool {
	ok := g.members.Remove(h)
	if ok {
		g.refreshKind()
	}
	return ok
}

// Members returns the aggregated constraints in insertion order.
func (g *Aggregated) Members() []ports.Constraint { return g.members.Items() }

// Contains reports whether a constraint with handle h is aggregated.
func (g *Aggregated) Contains(h domain.Handle) bool { return g.members.Contains(h) }

// Len returns the number of aggregated constraints.
func (g *Aggregated) Len() int { return g.members.Len() }

// Assembly returns the solver form computed by the last Update.
func (g *Aggregated) Assembly() Assembly { return g.asm }

func (g *Aggregated) refreshKind() {
	g.kind = domain.KindBound
	for _, c := range g.members.items {
		if c.Kind() != domain.KindBound {
			g.kind = domain.KindInequality
			return
		}
	}
}

// Update refreshes every member in order, then reassembles.
func (g *Aggregated) Update(x mat.Vector) error {
	if err := linalg.CheckState(g.id, x, g.xSize); err != nil {
		return err
	}
	var errs []error
	for _, c := range g.members.items {
		if err := c.Update(x); err != nil {
			errs = append(errs, fmt.Errorf("update %s: %w", c.ID(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	asm, err := Assemble(g.xSize, g.members.items)
	if err != nil {
		return err
	}
	g.asm = asm
	g.l, g.u = asm.L, asm.U
	if g.kind == domain.KindInequality {
		a, err := linalg.VStack(g.xSize, linalg.Identity(g.xSize), asm.A)
		if err != nil {
			return err
		}
		g.a = a
		g.lA = linalg.VCat(asm.L, asm.LA)
		g.uA = linalg.VCat(asm.U, asm.UA)
	}
	return nil
}

// CheckConsistency checks every member and the aggregate itself.
func (g *Aggregated) CheckConsistency() error {
	errs := []error{g.Base.CheckConsistency()}
	for _, c := range g.members.items {
		errs = append(errs, c.CheckConsistency())
	}
	return errors.Join(errs...)
}

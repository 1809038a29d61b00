package task

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Task = (*Aggregated)(nil)

// Aggregated solves several tasks at the same priority. A and b are the
// children's data stacked in child order. W is block-diagonal in the child
// weights unless an explicit weight was set.
//
// Children are shared: updating an aggregate updates every child, and a
// child may belong to several aggregates.
type Aggregated struct {
	xSize    int
	children []ports.Task
	a        *mat.Dense
	b        *mat.VecDense
	w        *mat.Dense
	explicit *mat.Dense
	lambda   float64
	own      *constraint.List
	merged   []ports.Constraint
}

// NewAggregated returns the aggregate of children, which must be non-empty
// and share XSize. Its gain starts at the first child's gain.
func NewAggregated(children ...ports.Task) (*Aggregated, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("aggregated: %w: no children", domain.ErrValidation)
	}
	xSize := children[0].XSize()
	for _, c := range children[1:] {
		if c.XSize() != xSize {
			return nil, domain.NewLengthError("aggregated child "+c.ID(), xSize, c.XSize())
		}
	}
	agg := &Aggregated{
		xSize:    xSize,
		children: append([]ports.Task(nil), children...),
		lambda:   children[0].Lambda(),
		own:      constraint.NewList(),
	}
	if err := agg.rebuild(); err != nil {
		return nil, err
	}
	return agg, nil
}

// ID joins the children's IDs with "+".
func (g *Aggregated) ID() string {
	ids := make([]string, len(g.children))
	for i, c := range g.children {
		ids[i] = c.ID()
	}
	return strings.Join(ids, "+")
}

func (g *Aggregated) XSize() int { return g.xSize }
func (g *Aggregated) Rows() int { return linalg.Rows(g.a) }
func (g *Aggregated) A() *mat.Dense { return g.a }
func (g *Aggregated) B() *mat.VecDense { return g.b }
func (g *Aggregated) Weight() *mat.Dense { return g.w }
func (g *Aggregated) Lambda() float64 { return g.lambda }
func (g *Aggregated) Constraints() ports.ConstraintList { return g.own }

// Children returns the child tasks in order.
func (g *Aggregated) Children() []ports.Task {
	return append([]ports.Task(nil), g.children...)
}

// Update refreshes every child in order, restacks the data and rebuilds the
// merged constraint list.
func (g *Aggregated) Update(x mat.Vector) error {
	if err := linalg.CheckState(g.ID(), x, g.xSize); err != nil {
		return err
	}
	for _, c := range g.children {
		if err := c.Update(x); err != nil {
			return fmt.Errorf("update %s: %w", c.ID(), err)
		}
	}
	return g.rebuild()
}

func (g *Aggregated) rebuild() error {
	as := make([]*mat.Dense, len(g.children))
	bs := make([]*mat.VecDense, len(g.children))
	ws := make([]*mat.Dense, len(g.children))
	for i, c := range g.children {
		as[i], bs[i], ws[i] = c.A(), c.B(), c.Weight()
	}
	a, err := linalg.VStack(g.xSize, as...)
	if err != nil {
		return fmt.Errorf("aggregated %s: %w", g.ID(), err)
	}
	g.a = a
	g.b = linalg.VCat(bs...)
	rows := linalg.Rows(a)
	if g.explicit != nil && linalg.Rows(g.explicit) == rows {
		g.w = g.explicit
	} else {
		g.explicit = nil
		g.w = linalg.BlockDiag(ws...)
	}

	seen := make(map[domain.Handle]struct{})
	g.merged = g.merged[:0]
	for _, c := range g.children {
		for _, k := range c.ActiveConstraints() {
			if _, ok := seen[k.Handle()]; ok {
				continue
			}
			seen[k.Handle()] = struct{}{}
			g.merged = append(g.merged, k)
		}
	}
	return nil
}

// ActiveConstraints returns the children's constraints in first-seen order
// followed by the aggregate's own attachments, without duplicate handles.
func (g *Aggregated) ActiveConstraints() []ports.Constraint {
	out := make([]ports.Constraint, 0, len(g.merged)+g.own.Len())
	seen := make(map[domain.Handle]struct{}, cap(out))
	for _, c := range g.merged {
		seen[c.Handle()] = struct{}{}
		out = append(out, c)
	}
	for _, c := range g.own.Items() {
		if _, ok := seen[c.Handle()]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SetWeight installs an explicit weight over all stacked rows. It survives
// Updates as long as the stacked row count does not change.
func (g *Aggregated) SetWeight(w mat.Matrix) error {
	if err := ValidateWeight(g.ID(), w, g.Rows()); err != nil {
		return err
	}
	g.explicit = mat.DenseCopyOf(w)
	g.w = g.explicit
	return nil
}

// HasExplicitWeight reports whether SetWeight overrides the block-diagonal
// of the child weights.
func (g *Aggregated) HasExplicitWeight() bool { return g.explicit != nil }

// SetLambda sets the aggregate's gain and every child's gain.
func (g *Aggregated) SetLambda(l float64) error {
	if err := ValidateLambda(g.ID(), l); err != nil {
		return err
	}
	for _, c := range g.children {
		if err := c.SetLambda(l); err != nil {
			return err
		}
	}
	g.lambda = l
	return nil
}

// CheckConsistency checks every child and the stacked data.
func (g *Aggregated) CheckConsistency() error {
	errs := make([]error, 0, len(g.children)+1)
	for _, c := range g.children {
		errs = append(errs, c.CheckConsistency())
	}
	errs = append(errs, CheckShapes(g.ID(), g.xSize, g.a, g.b, g.w))
	return errors.Join(errs...)
}

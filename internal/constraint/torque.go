package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.Constraint = (*TorqueLimits)(nil)

// Contact is a link whose wrench is part of the decision variable. Rows is
// the number of wrench components (3 for point contacts, 6 for surfaces).
type Contact struct {
	Link string
	Rows int
}

// TorqueLimits keeps the inverse-dynamics torques inside ±tauMax for a
// decision variable laid out as [q̈; w₁; …; wₖ]:
//
//	−tauMax − h ≤ M·q̈ − Σ Jᵢᵀ·wᵢ ≤ tauMax − h
//
// Disabled contacts contribute no wrench columns.
type TorqueLimits struct {
	Base
	model    ports.Model
	contacts []Contact
	enabled  []bool
	tauMax   *mat.VecDense
}

// NewTorqueLimits returns a torque limit constraint over model. The state
// handed to Update must already be set on the model.
func NewTorqueLimits(model ports.Model, contacts []Contact, tauMax *mat.VecDense) (*TorqueLimits, error) {
	dof := model.DoF()
	if linalg.Len(tauMax) != dof {
		return nil, domain.NewLengthError("torque_limits tau_max", dof, linalg.Len(tauMax))
	}
	xSize := dof
	for _, c := range contacts {
		if c.Rows <= 0 || c.Rows > 6 {
			return nil, &domain.ValidationError{Fields: map[string]string{c.Link: fmt.Sprintf("wrench rows %d not in [1, 6]", c.Rows)}}
		}
		xSize += c.Rows
	}
	tl := &TorqueLimits{
		Base:     newBase("torque_limits", xSize, domain.KindInequality),
		model:    model,
		contacts: append([]Contact(nil), contacts...),
		enabled:  make([]bool, len(contacts)),
		tauMax:   linalg.CloneVec(tauMax),
	}
	for i := range tl.enabled {
		tl.enabled[i] = true
	}
	return tl, nil
}

// EnableContact reports whether link is one of the configured contacts.
func (c *TorqueLimits) EnableContact(link string) bool {
	return c.setContact(link, true)
}

// DisableContact reports whether link is one of the configured contacts.
func (c *TorqueLimits) DisableContact(link string) bool {
	return c.setContact(link, false)
}

// EnabledContacts returns a copy of the per-contact flags in contact order.
func (c *TorqueLimits) EnabledContacts() []bool {
	return append([]bool(nil), c.enabled...)
}

func (c *TorqueLimits) setContact(link string, on bool) bool {
	for i, ct := range c.contacts {
		if ct.Link == link {
			c.enabled[i] = on
			return true
		}
	}
	return false
}

// SetTorqueLimits replaces tauMax.
func (c *TorqueLimits) SetTorqueLimits(tauMax *mat.VecDense) error {
	if linalg.Len(tauMax) != c.tauMax.Len() {
		return domain.NewLengthError("torque_limits tau_max", c.tauMax.Len(), linalg.Len(tauMax))
	}
	c.tauMax = linalg.CloneVec(tauMax)
	return nil
}

func (c *TorqueLimits) Update(x mat.Vector) error {
	if err := linalg.CheckState(c.id, x, c.xSize); err != nil {
		return err
	}
	dof := c.model.DoF()
	inertia := c.model.InertiaMatrix()
	if err := linalg.CheckSquare("torque_limits inertia", inertia, dof); err != nil {
		return err
	}
	h := c.model.NonlinearTerm()
	if linalg.Len(h) != dof {
		return domain.NewLengthError("torque_limits nonlinear term", dof, linalg.Len(h))
	}

	a := mat.NewDense(dof, c.xSize, nil)
	a.Slice(0, dof, 0, dof).(*mat.Dense).Copy(inertia)
	col := dof
	for i, ct := range c.contacts {
		if c.enabled[i] {
			jac, err := c.model.Jacobian(ct.Link)
			if err != nil {
				return fmt.Errorf("torque_limits: jacobian of %s: %w", ct.Link, err)
			}
			if r, cols := jac.Dims(); r < ct.Rows || cols != dof {
				return domain.NewShapeError("torque_limits jacobian "+ct.Link, ct.Rows, dof, r, cols)
			}
			block := a.Slice(0, dof, col, col+ct.Rows).(*mat.Dense)
			block.Scale(-1, jac.Slice(0, ct.Rows, 0, dof).T())
		}
		col += ct.Rows
	}

	lA := mat.NewVecDense(dof, nil)
	uA := mat.NewVecDense(dof, nil)
	for i := range dof {
		lA.SetVec(i, -c.tauMax.AtVec(i)-h.AtVec(i))
		uA.SetVec(i, c.tauMax.AtVec(i)-h.AtVec(i))
	}
	c.a, c.lA, c.uA = a, lA, uA
	return nil
}

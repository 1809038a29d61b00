package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
)

// JointLimits bounds a velocity command so that one step cannot leave
// [qMin, qMax]: scale·(qMin − q) ≤ dq ≤ scale·(qMax − q).
type JointLimits struct {
	Base
	qMin, qMax *mat.VecDense
	scale      float64
}

// NewJointLimits returns joint limits with a bound scaling of 1. Until the
// first Update the bounds are those of the zero state.
func NewJointLimits(qMin, qMax *mat.VecDense) (*JointLimits, error) {
	if err := checkOrdered("joint_limits", qMin, qMax); err != nil {
		return nil, err
	}
	n := linalg.Len(qMin)
	c := &JointLimits{
		Base:  newBase("joint_limits", n, domain.KindBound),
		qMin:  linalg.CloneVec(qMin),
		qMax:  linalg.CloneVec(qMax),
		scale: 1,
	}
	c.l, c.u = linalg.CloneVec(qMin), linalg.CloneVec(qMax)
	return c, nil
}

// SetBoundScaling sets the fraction of the remaining range allowed per step.
func (c *JointLimits) SetBoundScaling(s float64) error {
	if s <= 0 || s > 1 {
		return &domain.ValidationError{Fields: map[string]string{"bound_scaling": fmt.Sprintf("%g not in (0, 1]", s)}}
	}
	c.scale = s
	return nil
}

func (c *JointLimits) Update(x mat.Vector) error {
	if err := linalg.CheckState(c.id, x, c.xSize); err != nil {
		return err
	}
	l := mat.NewVecDense(c.xSize, nil)
	u := mat.NewVecDense(c.xSize, nil)
	l.SubVec(c.qMin, x)
	l.ScaleVec(c.scale, l)
	u.SubVec(c.qMax, x)
	u.ScaleVec(c.scale, u)
	c.l, c.u = l, u
	return nil
}

// VelocityLimits bounds a velocity command integrated over dt:
// −limit·dt ≤ dq ≤ limit·dt.
type VelocityLimits struct {
	Base
}

// NewVelocityLimits returns a uniform velocity limit for xSize joints.
func NewVelocityLimits(xSize int, limit, dt float64) (*VelocityLimits, error) {
	if limit < 0 || dt <= 0 {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"velocity_limits": fmt.Sprintf("limit %g and dt %g must be non-negative and positive", limit, dt),
		}}
	}
	c := &VelocityLimits{Base: newBase("velocity_limits", xSize, domain.KindBound)}
	c.l = linalg.Filled(xSize, -limit*dt)
	c.u = linalg.Filled(xSize, limit*dt)
	return c, nil
}

func (c *VelocityLimits) Update(x mat.Vector) error {
	return linalg.CheckState(c.id, x, c.xSize)
}

package admm

import (
	"fmt"
	"math"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Default engine settings.
const (
	DefaultMaxIterations    = 4000
	DefaultEpsAbs           = 1e-7
	DefaultEpsRel           = 1e-7
	DefaultEpsInfeasible    = 1e-4
	DefaultRho              = 0.1
	DefaultSigma            = 1e-6
	DefaultAlpha            = 1.6
	DefaultCheckInterval    = 10
	DefaultAdaptiveInterval = 50
)

const (
	infinity    = 1e20
	rhoMin      = 1e-6
	rhoMax      = 1e6
	rhoEqScale  = 1e3
	adaptFactor = 5.0
)

// Options configures an Engine.
type Options struct {
	MaxIterations int
	EpsAbs        float64
	EpsRel        float64
	EpsInfeasible float64
	Rho           float64
	Sigma         float64
	Alpha         float64

	// CheckInterval is how often, in iterations, termination is tested.
	CheckInterval int

	// AdaptiveInterval is how often rho is rebalanced. Zero disables it.
	AdaptiveInterval int
}

// DefaultOptions returns the settings used when no options are given.
func DefaultOptions() Options {
	return Options{
		MaxIterations:    DefaultMaxIterations,
		EpsAbs:           DefaultEpsAbs,
		EpsRel:           DefaultEpsRel,
		EpsInfeasible:    DefaultEpsInfeasible,
		Rho:              DefaultRho,
		Sigma:            DefaultSigma,
		Alpha:            DefaultAlpha,
		CheckInterval:    DefaultCheckInterval,
		AdaptiveInterval: DefaultAdaptiveInterval,
	}
}

// Validate reports every invalid setting.
func (o Options) Validate() error {
	fields := make(map[string]string)
	if o.MaxIterations <= 0 {
		fields["max_iterations"] = "must be positive"
	}
	if !positive(o.EpsAbs) && !positive(o.EpsRel) {
		fields["eps_abs"] = "eps_abs or eps_rel must be positive"
	}
	if o.EpsAbs < 0 || o.EpsRel < 0 {
		fields["eps_rel"] = "tolerances must be non-negative"
	}
	if !positive(o.EpsInfeasible) {
		fields["eps_infeasible"] = "must be positive"
	}
	if !positive(o.Rho) {
		fields["rho"] = "must be positive"
	}
	if !positive(o.Sigma) {
		fields["sigma"] = "must be positive"
	}
	if !(o.Alpha > 0 && o.Alpha < 2) {
		fields["alpha"] = fmt.Sprintf("%g not in (0, 2)", o.Alpha)
	}
	if o.CheckInterval <= 0 {
		fields["check_interval"] = "must be positive"
	}
	if o.AdaptiveInterval < 0 {
		fields["adaptive_interval"] = "must be non-negative"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/qp/admm"
	"github.com/jsamuelsen11/stack-of-tasks/internal/adapters/scenario"
	"github.com/jsamuelsen11/stack-of-tasks/internal/app/controlloop"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/config"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/telemetry"
	"github.com/jsamuelsen11/stack-of-tasks/internal/solver"
)

// controller is one scenario wired to its own solver and loop.
type controller struct {
	scenario *scenario.Scenario
	cascade  *solver.Cascade
	loop     *controlloop.Loop
}

func engineOptions(cfg config.SolverConfig) admm.Options {
	opts := admm.DefaultOptions()
	opts.MaxIterations = cfg.MaxIterations
	opts.EpsAbs = cfg.EpsAbs
	opts.EpsRel = cfg.EpsRel
	opts.Rho = cfg.Rho
	opts.Alpha = cfg.Alpha
	return opts
}

func loopSettings(cfg *config.Config) controlloop.Settings {
	return controlloop.Settings{
		Rate:               cfg.Controller.Rate,
		Burst:              cfg.Controller.Burst,
		MaxCycles:          cfg.Controller.MaxCycles,
		BreakerMaxFailures: cfg.Breaker.MaxFailures,
		BreakerTimeout:     cfg.Breaker.Timeout,
		BreakerHalfOpen:    cfg.Breaker.HalfOpenLimit,
	}
}

// newController builds the scenario at path and wires a cascade and a loop
// over it. A zero settings.Dt takes the scenario's dt.
func newController(
	path string,
	cfg *config.Config,
	settings controlloop.Settings,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
	opts ...controlloop.Option,
) (*controller, error) {
	sc, err := scenario.LoadAndBuild(path)
	if err != nil {
		return nil, err
	}

	factory, err := admm.NewFactory(engineOptions(cfg.Solver))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	cascade, err := solver.New(sc.Stack, factory,
		solver.WithOptions(solver.Options{
			Regularization: cfg.Solver.Regularization,
			Relaxation:     cfg.Solver.Relaxation,
		}),
		solver.WithLogger(logger),
		solver.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	if settings.Dt == 0 {
		settings.Dt = sc.Dt
	}
	loopOpts := []controlloop.Option{
		controlloop.WithLogger(logger.With(slog.String("scenario", path))),
		controlloop.WithMetrics(metrics),
	}
	if sc.Model != nil {
		loopOpts = append(loopOpts, controlloop.WithModel(sc.Model))
	}
	loop, err := controlloop.New(sc.Stack, cascade, sc.State, settings, append(loopOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("control loop: %w", err)
	}
	return &controller{scenario: sc, cascade: cascade, loop: loop}, nil
}

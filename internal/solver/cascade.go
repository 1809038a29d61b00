// Package solver implements the cascaded solving discipline: one QP per
// priority level, solved in order, each lower level restricted so that every
// higher level keeps the value it achieved.
package solver

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/constraint"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/telemetry"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
	"github.com/jsamuelsen11/stack-of-tasks/internal/stack"
)

// DefaultRegularization is the ε added to every level's Hessian.
const DefaultRegularization = 1e-6

// Options tunes the problems built for each level.
type Options struct {
	// Regularization is added to the diagonal of every level Hessian.
	Regularization float64

	// Relaxation widens the priority rows into A_j·x_prev ± Relaxation.
	// Zero keeps them as equalities.
	Relaxation float64
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithOptions replaces the problem options.
func WithOptions(o Options) Option {
	return func(c *Cascade) { c.opts = o }
}

// WithLogger sets the logger used for level failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cascade) { c.logger = l }
}

// WithMetrics records per-level iterations and failures. Nil disables it.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Cascade) { c.metrics = m }
}

type level struct {
	index  int
	engine ports.QPEngine
	state  LevelState
	shape  domain.Shape
	report domain.LevelReport
	active domain.ActiveSet
}

// Cascade solves one AutoStack. Every level owns its engine, so warm-start
// state is never shared across levels or stacks. A Cascade is driven by a
// single goroutine.
type Cascade struct {
	stack   *stack.AutoStack
	factory ports.EngineFactory
	levels  []*level
	opts    Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// New returns a solver for st using factory to build one engine per level.
func New(st *stack.AutoStack, factory ports.EngineFactory, opts ...Option) (*Cascade, error) {
	if st == nil || factory == nil {
		return nil, fmt.Errorf("solver: %w: stack and engine factory are required", domain.ErrValidation)
	}
	c := &Cascade{
		stack:   st,
		factory: factory,
		opts:    Options{Regularization: DefaultRegularization},
		logger:  slog.Default(),
		tracer:  otel.GetTracerProvider().Tracer("github.com/jsamuelsen11/stack-of-tasks/internal/solver"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.opts.Regularization < 0 || c.opts.Relaxation < 0 {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"solver": "regularization and relaxation must be non-negative",
		}}
	}
	c.ensureLevels()
	return c, nil
}

// ensureLevels grows or shrinks the per-level engines to match the stack.
func (c *Cascade) ensureLevels() {
	n := len(c.stack.Levels())
	if c.stack.Regularisation() != nil {
		n++
	}
	for len(c.levels) < n {
		i := len(c.levels)
		c.levels = append(c.levels, &level{index: i, engine: c.factory(i)})
	}
	c.levels = c.levels[:n]
}

// State returns the state of level i. The regularisation task, when set,
// is the last level.
func (c *Cascade) State(i int) (LevelState, error) {
	if i < 0 || i >= len(c.levels) {
		return Uninitialized, &domain.IndexError{Owner: "solver levels", Index: i, Limit: len(c.levels)}
	}
	return c.levels[i].state, nil
}

// ActiveSet returns the active set of level i at its last solution.
func (c *Cascade) ActiveSet(i int) (domain.ActiveSet, error) {
	if i < 0 || i >= len(c.levels) {
		return domain.ActiveSet{}, &domain.IndexError{Owner: "solver levels", Index: i, Limit: len(c.levels)}
	}
	return c.levels[i].active, nil
}

// Reports returns one report per level from the last Solve.
func (c *Cascade) Reports() []domain.LevelReport {
	out := make([]domain.LevelReport, len(c.levels))
	for i, l := range c.levels {
		out[i] = l.report
	}
	return out
}

// Solve runs one cascade over the updated stack and returns the command,
// the solution of the last level. A level that cannot be solved stops the
// cascade with a *domain.LevelError and no command.
func (c *Cascade) Solve(ctx context.Context) (*mat.VecDense, error) {
	if !c.stack.Updated() {
		return nil, fmt.Errorf("stack not updated since its last change: %w", domain.ErrStaleState)
	}
	xSize := c.stack.XSize()
	tasks := c.stack.Levels()
	for i, t := range tasks {
		if t.XSize() != xSize {
			return nil, fmt.Errorf("level %d (%s) has x size %d, stack %d: %w", i, t.ID(), t.XSize(), xSize, domain.ErrStaleState)
		}
	}
	if reg := c.stack.Regularisation(); reg != nil {
		tasks = append(tasks, reg)
	}
	c.ensureLevels()
	for _, l := range c.levels {
		l.report = domain.LevelReport{Level: l.index, Status: domain.StatusUnsolved}
	}

	cs := constraint.NewList(c.stack.BoundsList()...)
	var x *mat.VecDense
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, k := range t.ActiveConstraints() {
			cs.Add(k)
		}
		sol, err := c.solveLevel(ctx, c.levels[i], t, cs.Items(), tasks[:i], x)
		if err != nil {
			return nil, err
		}
		x = sol
	}
	return linalg.CloneVec(x), nil
}

func (c *Cascade) solveLevel(ctx context.Context, l *level, t ports.Task, cs []ports.Constraint, higher []ports.Task, xPrev *mat.VecDense) (*mat.VecDense, error) {
	_, span := c.tracer.Start(ctx, "solver.level", trace.WithAttributes(
		attribute.Int("sot.level", l.index),
		attribute.String("sot.task_id", t.ID()),
	))
	defer span.End()

	l.report.TaskID = t.ID()
	l.report.Rows = t.Rows()

	p, asm, err := buildProblem(t, c.stack.XSize(), cs, higher, xPrev, c.opts)
	if err != nil {
		return nil, c.fail(ctx, span, l, domain.StatusUnsolved, err)
	}
	if row := asm.Crossed(); row >= 0 {
		return nil, c.fail(ctx, span, l, domain.StatusInfeasible,
			fmt.Errorf("constraint row %d has lower bound above upper bound", row))
	}

	var sol *domain.Solution
	shape := p.Shape()
	if l.state != Uninitialized && shape != l.shape {
		if err := l.transition(Uninitialized); err != nil {
			return nil, err
		}
		l.engine.Reset()
	}
	if l.state == Uninitialized {
		sol, err = l.engine.Init(p)
		if err == nil {
			if terr := l.transition(Initialized); terr != nil {
				return nil, terr
			}
			l.shape = shape
		}
	} else {
		sol, err = l.engine.Resolve(p)
	}
	if err != nil {
		return nil, c.fail(ctx, span, l, domain.StatusUnsolved, err)
	}

	l.report.Status = sol.Status
	l.report.Iterations = sol.Iterations
	l.report.Objective = sol.Objective
	c.recordIterations(ctx, l, sol.Iterations)

	if !sol.Status.OK() {
		return nil, c.fail(ctx, span, l, sol.Status, nil)
	}
	if err := l.transition(Solved); err != nil {
		return nil, err
	}
	l.active = l.engine.ActiveSet()
	l.report.Active = l.active.Count()
	span.SetAttributes(attribute.Int("sot.iterations", sol.Iterations))
	return sol.X, nil
}

// fail records a failed level, moves it back to Initialized when it had an
// engine state, and builds the LevelError returned to the caller.
func (c *Cascade) fail(ctx context.Context, span trace.Span, l *level, status domain.Status, cause error) error {
	l.report.Status = status
	if l.state == Solved {
		if err := l.transition(Initialized); err != nil {
			return err
		}
	}
	lerr := &domain.LevelError{Level: l.index, TaskID: l.report.TaskID, Status: status, Err: cause}
	span.RecordError(lerr)
	span.SetStatus(codes.Error, lerr.Error())
	c.logger.WarnContext(ctx, "level solve failed",
		logging.Level(l.index),
		logging.Task(l.report.TaskID),
		slog.String("status", status.String()),
		slog.Any("error", lerr),
	)
	if c.metrics != nil && c.metrics.LevelFailures != nil {
		c.metrics.LevelFailures.Add(ctx, 1, metric.WithAttributes(
			telemetry.AttrLevel.Int(l.index),
			telemetry.AttrStatus.String(status.String()),
		))
	}
	return lerr
}

func (c *Cascade) recordIterations(ctx context.Context, l *level, n int) {
	if c.metrics == nil || c.metrics.LevelIterations == nil {
		return
	}
	c.metrics.LevelIterations.Record(ctx, int64(n), metric.WithAttributes(telemetry.AttrLevel.Int(l.index)))
}

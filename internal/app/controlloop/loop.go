// Package controlloop drives a stack of tasks at a fixed rate: each cycle it
// updates the stack at the current state, solves the cascade, integrates
// the command and publishes a snapshot for inbound adapters.
//
// The loop is the single owner of the stack and solver. Readers only ever
// see copies of the published snapshot.
//
//	loop, err := controlloop.New(st, cascade, x0, controlloop.Settings{Rate: 100, Burst: 1})
//	err = loop.Run(ctx)
package controlloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/logging"
	"github.com/jsamuelsen11/stack-of-tasks/internal/platform/telemetry"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
	"github.com/jsamuelsen11/stack-of-tasks/internal/stack"
)

// Cycle results reported in metrics.
const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
)

var (
	_ ports.SnapshotProvider = (*Loop)(nil)
	_ ports.HealthChecker    = (*Loop)(nil)
)

// Settings holds the pacing and breaker settings of a Loop.
type Settings struct {
	// Rate is the cycle frequency in Hz. Zero runs cycles back to back.
	Rate  float64
	Burst int

	// Dt is the cycle period used to derive joint velocities for the model.
	// It defaults to 1/Rate.
	Dt float64

	// MaxCycles stops Run after that many cycles. Zero runs until cancelled.
	MaxCycles uint64

	// BreakerMaxFailures consecutive failed solves open the breaker; while
	// it is open the solver is skipped and the fallback command applied.
	BreakerMaxFailures int
	BreakerTimeout     time.Duration
	BreakerHalfOpen    int
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// WithMetrics records cycle durations and results. Nil disables it.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(lp *Loop) { lp.metrics = m }
}

// WithRecorder persists every snapshot. Recording failures are logged and
// never stop the loop.
func WithRecorder(r ports.CycleRecorder) Option {
	return func(lp *Loop) { lp.recorder = r }
}

// WithModel refreshes the model state before every stack update. The first
// DoF entries of the state are joint positions.
func WithModel(m ports.Model) Option {
	return func(lp *Loop) { lp.model = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(lp *Loop) { lp.now = now }
}

// Loop is the control loop.
type Loop struct {
	stack    *stack.AutoStack
	solver   ports.StackSolver
	model    ports.Model
	recorder ports.CycleRecorder
	breaker  *gobreaker.CircuitBreaker[*mat.VecDense]
	limiter  *rate.Limiter
	settings Settings
	desc     domain.StackDescription

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	now     func() time.Time

	// Owned by the goroutine calling Step.
	x     *mat.VecDense
	last  *mat.VecDense
	cycle uint64

	mu     sync.RWMutex
	latest domain.Snapshot
	ready  bool
}

// New returns a loop over st, solved by solver, starting at x0.
func New(st *stack.AutoStack, solver ports.StackSolver, x0 *mat.VecDense, s Settings, opts ...Option) (*Loop, error) {
	if st == nil || solver == nil {
		return nil, fmt.Errorf("controlloop: %w: stack and solver are required", domain.ErrValidation)
	}
	if linalg.Len(x0) != st.XSize() {
		return nil, domain.NewLengthError("controlloop initial state", st.XSize(), linalg.Len(x0))
	}
	if s.Rate < 0 || s.Dt < 0 {
		return nil, &domain.ValidationError{Fields: map[string]string{"rate": "rate and dt must be non-negative"}}
	}
	if s.Dt == 0 && s.Rate > 0 {
		s.Dt = 1 / s.Rate
	}
	if s.Burst < 1 {
		s.Burst = 1
	}
	if s.BreakerMaxFailures < 1 {
		s.BreakerMaxFailures = 1
	}

	lp := &Loop{
		stack:    st,
		solver:   solver,
		settings: s,
		desc:     st.Describe(),
		logger:   slog.Default(),
		tracer:   otel.GetTracerProvider().Tracer("github.com/jsamuelsen11/stack-of-tasks/internal/app/controlloop"),
		now:      time.Now,
		x:        linalg.CloneVec(x0),
		last:     mat.NewVecDense(st.XSize(), nil),
	}
	for _, opt := range opts {
		opt(lp)
	}

	limit := rate.Inf
	if s.Rate > 0 {
		limit = rate.Limit(s.Rate)
	}
	lp.limiter = rate.NewLimiter(limit, s.Burst)
	lp.breaker = gobreaker.NewCircuitBreaker[*mat.VecDense](gobreaker.Settings{
		Name:        "solver",
		MaxRequests: toUint32(s.BreakerHalfOpen),
		Timeout:     s.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= s.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lp.logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return lp, nil
}

// Run paces Step at the configured rate until ctx is done or MaxCycles is
// reached. Cancellation is not an error.
func (lp *Loop) Run(ctx context.Context) error {
	for lp.settings.MaxCycles == 0 || lp.cycle < lp.settings.MaxCycles {
		if err := lp.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("controlloop: pacing: %w", err)
		}
		if _, err := lp.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
	lp.logger.InfoContext(ctx, "control loop finished", slog.Uint64("cycles", lp.cycle), logging.Vector("state", lp.x))
	return nil
}

// Step runs one cycle and returns its snapshot. A cycle whose update or
// solve fails applies the last good command and is reported as a fallback;
// only cancellation is returned as an error.
func (lp *Loop) Step(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	start := lp.now()
	lp.cycle++
	ctx, span := lp.tracer.Start(ctx, "controlloop.Step", trace.WithAttributes(
		attribute.Int64("sot.cycle", int64(lp.cycle)),
	))
	defer span.End()

	snap := domain.Snapshot{
		Cycle: lp.cycle,
		Time:  start,
		State: linalg.CloneVec(lp.x).RawVector().Data,
	}

	cmd, err := lp.solve(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Snapshot{}, ctx.Err()
		}
		cmd = lp.last
		snap.Fallback = true
		snap.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback")
		lp.logger.WarnContext(ctx, "cycle fell back to last command",
			logging.Cycle(lp.cycle),
			logging.Vector("command", cmd),
			slog.Any("error", err),
		)
	} else {
		lp.last = cmd
	}
	snap.Command = linalg.CloneVec(cmd).RawVector().Data
	snap.Levels = lp.solver.Reports()

	lp.x.AddVec(lp.x, cmd)
	snap.Duration = lp.now().Sub(start)

	lp.publish(snap)
	lp.record(ctx, snap)
	return snap.Clone(), nil
}

func (lp *Loop) solve(ctx context.Context) (*mat.VecDense, error) {
	if err := lp.refreshModel(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if err := lp.stack.Update(lp.x); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return lp.breaker.Execute(func() (*mat.VecDense, error) {
		return lp.solver.Solve(ctx)
	})
}

func (lp *Loop) refreshModel() error {
	if lp.model == nil {
		return nil
	}
	dof := lp.model.DoF()
	if dof > lp.x.Len() {
		return domain.NewLengthError("model dof", lp.x.Len(), dof)
	}
	q := mat.NewVecDense(dof, nil)
	qdot := mat.NewVecDense(dof, nil)
	q.CopyVec(lp.x.SliceVec(0, dof))
	if lp.settings.Dt > 0 {
		qdot.ScaleVec(1/lp.settings.Dt, lp.last.SliceVec(0, dof))
	}
	return lp.model.SetState(q, qdot)
}

func (lp *Loop) publish(s domain.Snapshot) {
	lp.mu.Lock()
	lp.latest = s.Clone()
	lp.ready = true
	lp.mu.Unlock()

	if lp.metrics == nil {
		return
	}
	ctx := context.Background()
	result := ResultOK
	if s.Fallback {
		result = ResultFallback
	}
	if lp.metrics.CycleDuration != nil {
		lp.metrics.CycleDuration.Record(ctx, s.Duration.Seconds())
	}
	if lp.metrics.CycleTotal != nil {
		lp.metrics.CycleTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrResult.String(result)))
	}
}

func (lp *Loop) record(ctx context.Context, s domain.Snapshot) {
	if lp.recorder == nil {
		return
	}
	if err := lp.recorder.Record(ctx, s); err != nil {
		lp.logger.ErrorContext(ctx, "failed to record cycle",
			logging.Cycle(s.Cycle),
			slog.Any("error", err),
		)
	}
}

// State returns a copy of the current state. Like Step, it must be called
// from the goroutine driving the loop.
func (lp *Loop) State() *mat.VecDense { return linalg.CloneVec(lp.x) }

// Latest returns a copy of the most recent snapshot.
func (lp *Loop) Latest() (domain.Snapshot, bool) {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	if !lp.ready {
		return domain.Snapshot{}, false
	}
	return lp.latest.Clone(), true
}

// Stack returns the structure of the controlled stack.
func (lp *Loop) Stack() domain.StackDescription { return lp.desc }

// Name identifies the loop in health reports.
func (lp *Loop) Name() string { return "controlloop" }

// HealthCheck reports the loop unavailable until the first cycle and while
// the solver breaker is open.
func (lp *Loop) HealthCheck(_ context.Context) error {
	if _, ok := lp.Latest(); !ok {
		return fmt.Errorf("controlloop: %w: no cycle completed", domain.ErrUnavailable)
	}
	if st := lp.breaker.State(); st == gobreaker.StateOpen {
		return fmt.Errorf("controlloop: %w: solver breaker %s", domain.ErrUnavailable, st)
	}
	return nil
}

// toUint32 safely converts a non-negative int to uint32, clamping at bounds.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

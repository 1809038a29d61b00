// Package admm provides a dense operator-splitting QP engine.
//
// The engine solves
//
//	minimize ½ 𝐱ᵀ𝐏𝐱 + 𝐪ᵀ𝐱 subject to 𝐥 ≤ 𝐂𝐱 ≤ 𝐮
//
// where 𝐂 = [𝐀; 𝐈] stacks the general rows over the variable bounds. Each
// iteration of the alternating direction method of multipliers is
//
//   - (𝐏 + σ𝐈 + 𝐂ᵀ𝐑𝐂) 𝐱̃ = σ𝐱ᵏ − 𝐪 + 𝐂ᵀ(𝐑𝐳ᵏ − 𝐲ᵏ),  𝐳̃ = 𝐂𝐱̃
//   - 𝐱ᵏ⁺¹ = α𝐱̃ + (1−α)𝐱ᵏ
//   - 𝐳ᵏ⁺¹ = Π[𝐥,𝐮](α𝐳̃ + (1−α)𝐳ᵏ + 𝐑⁻¹𝐲ᵏ)
//   - 𝐲ᵏ⁺¹ = 𝐲ᵏ + 𝐑(α𝐳̃ + (1−α)𝐳ᵏ − 𝐳ᵏ⁺¹)
//
// with 𝐑 = diag(ρ). The matrix on the left is factored once by Cholesky and
// reused until 𝐏, 𝐂 or ρ change.
//
// # Termination
//
// The iterate is optimal when
//   - ‖𝐂𝐱 − 𝐳‖∞ ≤ ε𝑎𝑏𝑠 + ε𝑟𝑒𝑙·max(‖𝐂𝐱‖∞, ‖𝐳‖∞)
//   - ‖𝐏𝐱 + 𝐪 + 𝐂ᵀ𝐲‖∞ ≤ ε𝑎𝑏𝑠 + ε𝑟𝑒𝑙·max(‖𝐏𝐱‖∞, ‖𝐂ᵀ𝐲‖∞, ‖𝐪‖∞)
//
// The problem is primal infeasible when the dual step δ𝐲 satisfies
// ‖𝐂ᵀδ𝐲‖∞ ≤ ε‖δ𝐲‖∞ and 𝐮ᵀmax(δ𝐲,0) + 𝐥ᵀmin(δ𝐲,0) < −ε‖δ𝐲‖∞, and
// unbounded when the primal step δ𝐱 is a descent direction of the
// recession cone. Unbounded problems are reported as degenerate.
//
// # Warm start
//
// Resolve keeps 𝐱, 𝐳, 𝐲 and the adapted ρ from the previous solve, so a
// sequence of slowly changing problems converges in a few iterations.
package admm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
	"github.com/jsamuelsen11/stack-of-tasks/internal/linalg"
	"github.com/jsamuelsen11/stack-of-tasks/internal/ports"
)

var _ ports.QPEngine = (*Engine)(nil)

// Engine is a warm-startable ADMM solver for one problem shape. It is not
// safe for concurrent use.
type Engine struct {
	opts Options

	initialized bool
	shape       domain.Shape
	n, rows     int

	p   *mat.SymDense
	q   []float64
	c   *mat.Dense
	l   []float64
	u   []float64
	rho []float64

	rhoBase  float64
	chol     mat.Cholesky
	factored bool

	x, z, y []float64
	active  domain.ActiveSet
}

// New returns an engine with opts.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("admm options: %w", err)
	}
	return &Engine{opts: opts, rhoBase: opts.Rho}, nil
}

// NewFactory returns an engine factory for the cascaded solver. Every call
// builds an independent engine.
func NewFactory(opts Options) (ports.EngineFactory, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("admm options: %w", err)
	}
	return func(int) ports.QPEngine {
		return &Engine{opts: opts, rhoBase: opts.Rho}
	}, nil
}

// Init solves p from a cold start.
func (e *Engine) Init(p *domain.Problem) (*domain.Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e.Reset()
	e.shape = p.Shape()
	e.n = p.N
	e.rows = p.M + p.N
	e.x = make([]float64, e.n)
	e.z = make([]float64, e.rows)
	e.y = make([]float64, e.rows)
	if err := e.load(p); err != nil {
		return nil, err
	}
	e.initialized = true
	return e.solve(), nil
}

// Resolve solves p warm-started from the previous solve.
func (e *Engine) Resolve(p *domain.Problem) (*domain.Solution, error) {
	if !e.initialized {
		return nil, fmt.Errorf("admm resolve before init: %w", domain.ErrStaleState)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s := p.Shape(); s != e.shape {
		return nil, domain.NewShapeError("admm resolve", e.shape.M, e.shape.N, s.M, s.N)
	}
	if err := e.load(p); err != nil {
		return nil, err
	}
	return e.solve(), nil
}

// Reset drops every warm-start quantity and the cached factorization.
func (e *Engine) Reset() {
	e.initialized = false
	e.factored = false
	e.shape = domain.Shape{}
	e.rhoBase = e.opts.Rho
	e.p, e.c = nil, nil
	e.x, e.z, e.y = nil, nil, nil
	e.active = domain.ActiveSet{}
}

// ActiveSet returns the activity of the general rows and the bounds at the
// last solution.
func (e *Engine) ActiveSet() domain.ActiveSet {
	return domain.ActiveSet{
		Bounds:      append([]domain.ActiveState(nil), e.active.Bounds...),
		Constraints: append([]domain.ActiveState(nil), e.active.Constraints...),
	}
}

// load installs the problem data, keeping the factorization when the
// matrices did not change.
func (e *Engine) load(p *domain.Problem) error {
	var a *mat.Dense
	if p.M > 0 {
		a = p.A
	}
	c, err := linalg.VStack(p.N, a, linalg.Identity(p.N))
	if err != nil {
		return err
	}
	if !e.factored || !mat.Equal(e.p, p.H) || !mat.Equal(e.c, c) {
		e.factored = false
	}
	e.p = mat.NewSymDense(p.N, nil)
	e.p.CopySym(p.H)
	e.c = c
	e.q = e.q[:0]
	for i := range p.N {
		e.q = append(e.q, p.G.AtVec(i))
	}

	l := make([]float64, e.rows)
	u := make([]float64, e.rows)
	for i := range p.M {
		l[i], u[i] = clamp(p.LA.AtVec(i)), clamp(p.UA.AtVec(i))
	}
	for i := range p.N {
		l[p.M+i], u[p.M+i] = clamp(p.L.AtVec(i)), clamp(p.U.AtVec(i))
	}
	if e.factored && !sameRhoClass(e.l, e.u, l, u) {
		e.factored = false
	}
	e.l, e.u = l, u
	if !e.factored {
		e.rho = e.rhoVector(e.rhoBase)
	}
	return nil
}

func clamp(v float64) float64 {
	return math.Max(-infinity, math.Min(infinity, v))
}

func (e *Engine) rhoVector(base float64) []float64 {
	rho := make([]float64, e.rows)
	for i := range rho {
		switch {
		case e.l[i] <= -infinity && e.u[i] >= infinity:
			rho[i] = rhoMin
		case e.u[i]-e.l[i] < 1e-4:
			rho[i] = rhoEqScale * base
		default:
			rho[i] = base
		}
	}
	return rho
}

// sameRhoClass reports whether every row keeps its free, equality or
// inequality classification, so that the per-row ρ stays valid.
func sameRhoClass(l0, u0, l1, u1 []float64) bool {
	if len(l0) != len(l1) {
		return false
	}
	class := func(l, u float64) int {
		switch {
		case l <= -infinity && u >= infinity:
			return 0
		case u-l < 1e-4:
			return 1
		default:
			return 2
		}
	}
	for i := range l0 {
		if class(l0[i], u0[i]) != class(l1[i], u1[i]) {
			return false
		}
	}
	return true
}

// factor builds and factors 𝐏 + σ𝐈 + 𝐂ᵀ𝐑𝐂.
func (e *Engine) factor() bool {
	rc := mat.DenseCopyOf(e.c)
	for j := range e.rows {
		row := rc.RawRowView(j)
		for k := range row {
			row[k] *= e.rho[j]
		}
	}
	var ctrc mat.Dense
	ctrc.Mul(e.c.T(), rc)

	kkt := mat.NewSymDense(e.n, nil)
	for i := range e.n {
		for j := i; j < e.n; j++ {
			v := e.p.At(i, j) + 0.5*(ctrc.At(i, j)+ctrc.At(j, i))
			if i == j {
				v += e.opts.Sigma
			}
			kkt.SetSym(i, j, v)
		}
	}
	e.factored = e.chol.Factorize(kkt)
	return e.factored
}

type residuals struct {
	prim, dual       float64
	epsPrim, epsDual float64
	normCx, normZ    float64
	normPx, normCty  float64
	normQ            float64
}

func (e *Engine) residuals() residuals {
	xv := mat.NewVecDense(e.n, e.x)
	yv := mat.NewVecDense(e.rows, e.y)

	cx := mat.NewVecDense(e.rows, nil)
	cx.MulVec(e.c, xv)
	px := mat.NewVecDense(e.n, nil)
	px.MulVec(e.p, xv)
	cty := mat.NewVecDense(e.n, nil)
	cty.MulVec(e.c.T(), yv)

	var r residuals
	for j := range e.rows {
		r.prim = math.Max(r.prim, math.Abs(cx.AtVec(j)-e.z[j]))
		r.normCx = math.Max(r.normCx, math.Abs(cx.AtVec(j)))
		r.normZ = math.Max(r.normZ, math.Abs(e.z[j]))
	}
	for i := range e.n {
		r.dual = math.Max(r.dual, math.Abs(px.AtVec(i)+e.q[i]+cty.AtVec(i)))
		r.normPx = math.Max(r.normPx, math.Abs(px.AtVec(i)))
		r.normCty = math.Max(r.normCty, math.Abs(cty.AtVec(i)))
		r.normQ = math.Max(r.normQ, math.Abs(e.q[i]))
	}
	r.epsPrim = e.opts.EpsAbs + e.opts.EpsRel*math.Max(r.normCx, r.normZ)
	r.epsDual = e.opts.EpsAbs + e.opts.EpsRel*math.Max(r.normPx, math.Max(r.normCty, r.normQ))
	return r
}

func (e *Engine) solve() *domain.Solution {
	sol := &domain.Solution{Status: domain.StatusMaxIterations}
	if !e.factored && !e.factor() {
		sol.Status = domain.StatusDegenerate
		sol.X = mat.NewVecDense(e.n, append([]float64(nil), e.x...))
		return sol
	}

	alpha, sigma := e.opts.Alpha, e.opts.Sigma
	rhs := mat.NewVecDense(e.n, nil)
	w := mat.NewVecDense(e.rows, nil)
	xt := mat.NewVecDense(e.n, nil)
	zt := mat.NewVecDense(e.rows, nil)
	xPrev := make([]float64, e.n)
	yPrev := make([]float64, e.rows)

	for k := 1; k <= e.opts.MaxIterations; k++ {
		copy(xPrev, e.x)
		copy(yPrev, e.y)

		for j := range e.rows {
			w.SetVec(j, e.rho[j]*e.z[j]-e.y[j])
		}
		rhs.MulVec(e.c.T(), w)
		for i := range e.n {
			rhs.SetVec(i, rhs.AtVec(i)+sigma*e.x[i]-e.q[i])
		}
		if err := e.chol.SolveVecTo(xt, rhs); err != nil {
			sol.Status = domain.StatusDegenerate
			sol.Iterations = k
			break
		}
		zt.MulVec(e.c, xt)

		for i := range e.n {
			e.x[i] = alpha*xt.AtVec(i) + (1-alpha)*e.x[i]
		}
		for j := range e.rows {
			zr := alpha*zt.AtVec(j) + (1-alpha)*e.z[j]
			zn := math.Max(e.l[j], math.Min(e.u[j], zr+e.y[j]/e.rho[j]))
			e.y[j] += e.rho[j] * (zr - zn)
			e.z[j] = zn
		}
		sol.Iterations = k

		if k%e.opts.CheckInterval != 0 && k != e.opts.MaxIterations {
			continue
		}
		r := e.residuals()
		sol.PrimalRes, sol.DualRes = r.prim, r.dual
		if r.prim <= r.epsPrim && r.dual <= r.epsDual {
			sol.Status = domain.StatusSolved
			break
		}
		if e.primalInfeasible(yPrev) {
			sol.Status = domain.StatusInfeasible
			break
		}
		if e.dualInfeasible(xPrev) {
			sol.Status = domain.StatusDegenerate
			break
		}
		if e.opts.AdaptiveInterval > 0 && k%e.opts.AdaptiveInterval == 0 {
			if !e.adaptRho(r) {
				sol.Status = domain.StatusDegenerate
				break
			}
		}
	}

	sol.X = mat.NewVecDense(e.n, append([]float64(nil), e.x...))
	sol.Objective = e.objective()
	e.active = e.activeSet(sol.Status)
	return sol
}

func (e *Engine) objective() float64 {
	xv := mat.NewVecDense(e.n, e.x)
	obj := 0.5 * mat.Inner(xv, e.p, xv)
	for i := range e.n {
		obj += e.q[i] * e.x[i]
	}
	return obj
}

func (e *Engine) primalInfeasible(yPrev []float64) bool {
	dy := make([]float64, e.rows)
	norm := 0.0
	for j := range e.rows {
		d := e.y[j] - yPrev[j]
		if e.u[j] >= infinity {
			d = math.Min(d, 0)
		}
		if e.l[j] <= -infinity {
			d = math.Max(d, 0)
		}
		dy[j] = d
		norm = math.Max(norm, math.Abs(d))
	}
	if norm < 1e-12 {
		return false
	}
	tol := e.opts.EpsInfeasible * norm

	support := 0.0
	for j := range e.rows {
		if dy[j] > 0 {
			support += e.u[j] * dy[j]
		} else {
			support += e.l[j] * dy[j]
		}
	}
	if support >= -tol {
		return false
	}
	ctdy := mat.NewVecDense(e.n, nil)
	ctdy.MulVec(e.c.T(), mat.NewVecDense(e.rows, dy))
	return mat.Norm(ctdy, math.Inf(1)) <= tol
}

func (e *Engine) dualInfeasible(xPrev []float64) bool {
	dx := make([]float64, e.n)
	norm := 0.0
	for i := range e.n {
		dx[i] = e.x[i] - xPrev[i]
		norm = math.Max(norm, math.Abs(dx[i]))
	}
	if norm < 1e-12 {
		return false
	}
	tol := e.opts.EpsInfeasible * norm
	dxv := mat.NewVecDense(e.n, dx)

	descent := 0.0
	for i := range e.n {
		descent += e.q[i] * dx[i]
	}
	if descent > -tol {
		return false
	}
	pdx := mat.NewVecDense(e.n, nil)
	pdx.MulVec(e.p, dxv)
	if mat.Norm(pdx, math.Inf(1)) > tol {
		return false
	}
	cdx := mat.NewVecDense(e.rows, nil)
	cdx.MulVec(e.c, dxv)
	for j := range e.rows {
		v := cdx.AtVec(j)
		switch {
		case e.l[j] <= -infinity && e.u[j] >= infinity:
		case e.u[j] >= infinity:
			if v < -tol {
				return false
			}
		case e.l[j] <= -infinity:
			if v > tol {
				return false
			}
		default:
			if math.Abs(v) > tol {
				return false
			}
		}
	}
	return true
}

// adaptRho rebalances ρ between the primal and dual residuals and refactors
// when the change is large enough to matter.
func (e *Engine) adaptRho(r residuals) bool {
	const tiny = 1e-30
	prim := r.prim / math.Max(math.Max(r.normCx, r.normZ), tiny)
	dual := r.dual / math.Max(math.Max(r.normPx, math.Max(r.normCty, r.normQ)), tiny)
	if prim <= 0 || dual <= 0 {
		return true
	}
	next := e.rhoBase * math.Sqrt(prim/dual)
	next = math.Max(rhoMin, math.Min(rhoMax, next))
	if next < adaptFactor*e.rhoBase && next > e.rhoBase/adaptFactor {
		return true
	}
	e.rhoBase = next
	e.rho = e.rhoVector(next)
	return e.factor()
}

func (e *Engine) activeSet(status domain.Status) domain.ActiveSet {
	m := e.shape.M
	as := domain.ActiveSet{
		Constraints: make([]domain.ActiveState, m),
		Bounds:      make([]domain.ActiveState, e.n),
	}
	if status != domain.StatusSolved {
		return as
	}
	tol := math.Max(1e-9, 1e3*math.Max(e.opts.EpsAbs, e.opts.EpsRel))
	classify := func(j int) domain.ActiveState {
		switch {
		case e.u[j]-e.l[j] < 1e-4:
			return domain.ActiveEquality
		case e.y[j] < -tol:
			return domain.ActiveLower
		case e.y[j] > tol:
			return domain.ActiveUpper
		default:
			return domain.Inactive
		}
	}
	for j := range m {
		as.Constraints[j] = classify(j)
	}
	for i := range e.n {
		as.Bounds[i] = classify(m + i)
	}
	return as
}

package topology

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// MMA is the method of moving asymptotes for N design variables and M
// constraints g_i(x) <= 0. Every update replaces the objective and the
// constraints by convex separable approximations around the current design
// and maximizes their dual with BFGS. The constraints are relaxed by
// artificial variables with linear cost C and quadratic cost D, so the dual
// stays bounded when an approximation has no feasible point.
type MMA struct {
	N, M         int
	XMin, XMax   []float64
	C, D         []float64
	AsymInit     float64 // initial asymptote distance relative to XMax - XMin
	AsymDecrease float64 // asymptote contraction when a variable oscillates
	AsymIncrease float64
	Move         float64 // fraction of the distance to the asymptotes one update may travel
	Tolerance    float64 // relative objective change for IsConvergence
	Iterations   int
	Lambda       []float64 // constraint multipliers of the last update
	L, U         []float64 // current asymptotes
	xold1, xold2 []float64
	prev         float64
	started      bool
}

func NewMMA(n, m int) (mma *MMA) {
	if n < 1 || m < 0 {
		panic(fmt.Errorf("MMA needs at least one variable and no negative constraint count, got %d and %d", n, m))
	}
	mma = &MMA{
		N:            n,
		M:            m,
		XMin:         make([]float64, n),
		XMax:         make([]float64, n),
		C:            make([]float64, m),
		D:            make([]float64, m),
		AsymInit:     0.5,
		AsymDecrease: 0.7,
		AsymIncrease: 1 / 0.7,
		Move:         0.1,
		Tolerance:    1.e-5,
		Lambda:       make([]float64, m),
		L:            make([]float64, n),
		U:            make([]float64, n),
	}
	for j := range mma.XMax {
		mma.XMax[j] = 1
	}
	for i := range mma.C {
		mma.C[i], mma.D[i] = 1000, 1
	}
	return
}

// IsConvergence reports whether f0 is within Tolerance of the objective
// passed in the previous call, relative to their sum.
func (mma *MMA) IsConvergence(f0 float64) (converged bool) {
	converged = mma.started && Converged(f0, mma.prev, mma.Tolerance)
	mma.prev, mma.started = f0, true
	return
}

// UpdateVariables replaces x by the solution of the approximate subproblem
// built from the objective f0, the constraint values g and their gradients
// df0[j] and dg[i][j] at x.
func (mma *MMA) UpdateVariables(x []float64, f0 float64, df0, g []float64, dg [][]float64) (err error) {
	mma.checkSizes(x, df0, g, dg)
	mma.moveAsymptotes(x)
	sp := mma.approximate(x, f0, df0, g, dg)
	lambda, err := sp.solveDual(mma.C, mma.D)
	if err != nil {
		return
	}
	mma.xold2 = mma.xold1
	mma.xold1 = append([]float64{}, x...)
	sp.primal(lambda, x)
	mma.Lambda = lambda
	mma.Iterations++
	return
}

func (mma *MMA) checkSizes(x, df0, g []float64, dg [][]float64) {
	if len(x) != mma.N || len(df0) != mma.N {
		panic(fmt.Errorf("MMA has %d variables, got %d and %d objective sensitivities", mma.N, len(x), len(df0)))
	}
	if len(g) != mma.M || len(dg) != mma.M {
		panic(fmt.Errorf("MMA has %d constraints, got %d values and %d sensitivity sets", mma.M, len(g), len(dg)))
	}
	for i, dgi := range dg {
		if len(dgi) != mma.N {
			panic(fmt.Errorf("constraint %d has %d sensitivities, expected %d", i, len(dgi), mma.N))
		}
	}
	for j, xj := range x {
		if mma.XMin[j] >= mma.XMax[j] || xj < mma.XMin[j] || xj > mma.XMax[j] {
			panic(fmt.Errorf("variable %d = %v outside bounds [%v, %v]", j, xj, mma.XMin[j], mma.XMax[j]))
		}
	}
}

// moveAsymptotes places L and U around x. From the third update on they
// contract for variables whose last two steps changed sign and widen
// otherwise.
func (mma *MMA) moveAsymptotes(x []float64) {
	for j, xj := range x {
		span := mma.XMax[j] - mma.XMin[j]
		if mma.Iterations < 2 {
			mma.L[j] = xj - mma.AsymInit*span
			mma.U[j] = xj + mma.AsymInit*span
			continue
		}
		gamma := 1.
		switch trend := (xj - mma.xold1[j]) * (mma.xold1[j] - mma.xold2[j]); {
		case trend < 0:
			gamma = mma.AsymDecrease
		case trend > 0:
			gamma = mma.AsymIncrease
		}
		mma.L[j] = xj - gamma*(mma.xold1[j]-mma.L[j])
		mma.U[j] = xj + gamma*(mma.U[j]-mma.xold1[j])
		mma.L[j] = math.Max(xj-10*span, math.Min(mma.L[j], xj-0.01*span))
		mma.U[j] = math.Min(xj+10*span, math.Max(mma.U[j], xj+0.01*span))
	}
}

// mmaSubproblem holds the approximations
// f~(x) = r + sum_j p_j/(U_j - x_j) + q_j/(x_j - L_j)
// of the objective and of every constraint, and the box [alpha, beta] the
// next design is drawn from.
type mmaSubproblem struct {
	L, U, alpha, beta, x0 []float64
	p0, q0                []float64
	p, q                  [][]float64
	r0                    float64
	r                     []float64
}

func (mma *MMA) approximate(x []float64, f0 float64, df0, g []float64, dg [][]float64) (sp *mmaSubproblem) {
	sp = &mmaSubproblem{
		L:     mma.L,
		U:     mma.U,
		alpha: make([]float64, mma.N),
		beta:  make([]float64, mma.N),
		x0:    x,
		r0:    f0,
		r:     append([]float64{}, g...),
		p:     make([][]float64, mma.M),
		q:     make([][]float64, mma.M),
	}
	for j, xj := range x {
		sp.alpha[j] = math.Max(mma.XMin[j], mma.L[j]+mma.Move*(xj-mma.L[j]))
		sp.beta[j] = math.Min(mma.XMax[j], mma.U[j]-mma.Move*(mma.U[j]-xj))
	}
	sp.p0, sp.q0, sp.r0 = mma.split(x, df0, sp.r0)
	for i := range dg {
		sp.p[i], sp.q[i], sp.r[i] = mma.split(x, dg[i], sp.r[i])
	}
	return
}

// split divides the gradient df at x into the coefficients of the increasing
// 1/(U - x) and decreasing 1/(x - L) terms. A small share of every
// derivative goes to the opposite term to keep each approximation strictly
// convex.
func (mma *MMA) split(x, df []float64, f float64) (p, q []float64, r float64) {
	p, q, r = make([]float64, len(x)), make([]float64, len(x)), f
	for j, xj := range x {
		var (
			ux, xl = mma.U[j] - xj, xj - mma.L[j]
			pos    = math.Max(df[j], 0)
			neg    = math.Max(-df[j], 0)
			reg    = 1.e-5 / (mma.XMax[j] - mma.XMin[j])
		)
		p[j] = ux * ux * (1.001*pos + 0.001*neg + reg)
		q[j] = xl * xl * (0.001*pos + 1.001*neg + reg)
		r -= p[j]/ux + q[j]/xl
	}
	return
}

// primal writes into x the minimizer of the Lagrangian for multipliers lambda.
func (sp *mmaSubproblem) primal(lambda, x []float64) {
	for j := range x {
		P, Q := sp.p0[j], sp.q0[j]
		for i, li := range lambda {
			P += li * sp.p[i][j]
			Q += li * sp.q[i][j]
		}
		xj := sp.x0[j]
		if P+Q > 0 {
			sP, sQ := math.Sqrt(P), math.Sqrt(Q)
			xj = (sP*sp.L[j] + sQ*sp.U[j]) / (sP + sQ)
		}
		x[j] = math.Min(sp.beta[j], math.Max(sp.alpha[j], xj))
	}
}

// dual returns the dual function at lambda and its gradient, the relaxed
// constraint approximations at the Lagrangian minimizer, which is left in x.
func (sp *mmaSubproblem) dual(lambda, c, d, x, grad []float64) (w float64) {
	sp.primal(lambda, x)
	w = sp.r0
	copy(grad, sp.r)
	for j, xj := range x {
		ux, xl := sp.U[j]-xj, xj-sp.L[j]
		w += sp.p0[j]/ux + sp.q0[j]/xl
		for i := range grad {
			grad[i] += sp.p[i][j]/ux + sp.q[i][j]/xl
		}
	}
	for i, li := range lambda {
		w += li * grad[i]
		if y := (li - c[i]) / d[i]; y > 0 {
			w -= 0.5 * d[i] * y * y
			grad[i] -= y
		}
	}
	return
}

// solveDual maximizes the dual over lambda >= 0 with lambda = exp(z), which
// leaves an unconstrained problem in z.
func (sp *mmaSubproblem) solveDual(c, d []float64) (lambda []float64, err error) {
	var (
		m    = len(sp.r)
		x    = make([]float64, len(sp.x0))
		grad = make([]float64, m)
	)
	lambda = make([]float64, m)
	if m == 0 {
		return
	}
	setLambda := func(z []float64) {
		for i, zi := range z {
			lambda[i] = math.Exp(math.Min(zi, 50))
		}
	}
	problem := optimize.Problem{
		Func: func(z []float64) float64 {
			setLambda(z)
			return -sp.dual(lambda, c, d, x, grad)
		},
		Grad: func(dz, z []float64) {
			setLambda(z)
			sp.dual(lambda, c, d, x, grad)
			for i := range dz {
				dz[i] = -lambda[i] * grad[i]
			}
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: 1.e-12,
		MajorIterations:   500,
		Converger:         &optimize.FunctionConverge{Absolute: 1.e-15, Relative: 1.e-15, Iterations: 20},
	}
	result, err := optimize.Minimize(problem, make([]float64, m), settings, &optimize.BFGS{})
	switch {
	case err == nil:
	case result != nil && (errors.Is(err, optimize.ErrNoProgress) || errors.Is(err, optimize.ErrLinesearcherFailure)):
		// The line search stalls at round off once the dual is flat
		err = nil
	default:
		return nil, fmt.Errorf("MMA dual: %w", err)
	}
	setLambda(result.X)
	return
}

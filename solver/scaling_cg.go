package solver

import (
	"gonum.org/v1/gonum/floats"
)

// ScalingCG is CG with a Jacobi preconditioner built from the diagonal of A,
// for systems whose rows differ in scale by orders of magnitude such as
// penalty rows. Zero diagonal entries scale by one.
func ScalingCG(A Operator, b []float64, s Settings) Result {
	var (
		stats Stats
	)
	x, r := start(A, b, &s, &stats)
	if stats.Converged {
		return finish(x, stats)
	}
	var (
		n    = len(x)
		dinv = A.Diagonal()
		z    = make([]float64, n)
		p    = make([]float64, n)
		Ap   = make([]float64, n)
	)
	for i, d := range dinv {
		if d == 0 {
			dinv[i] = 1
		} else {
			dinv[i] = 1 / d
		}
	}
	floats.MulTo(z, dinv, r) // z = M^-1 r
	copy(p, z)
	rz := floats.Dot(r, z)
	for stats.Iterations < s.MaxIterations {
		A.MulVec(Ap, p)
		stats.MatVec++
		alpha := rz / floats.Dot(p, Ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		stats.Iterations++
		stats.ResidualNorm = floats.Norm(r, 2)
		s.report("ScalingCG", &stats)
		if stats.ResidualNorm < s.Tolerance {
			stats.Converged = true
			break
		}
		floats.MulTo(z, dinv, r)
		rzNew := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNew/rz, p) // p = z + beta*p
		rz = rzNew
	}
	return finish(x, stats)
}

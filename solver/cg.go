package solver

import (
	"gonum.org/v1/gonum/floats"
)

// CG solves A x = b for symmetric positive definite A.
func CG(A Operator, b []float64, s Settings) Result {
	var (
		stats Stats
	)
	x, r := start(A, b, &s, &stats)
	if stats.Converged {
		return finish(x, stats)
	}
	var (
		p  = make([]float64, len(x))
		Ap = make([]float64, len(x))
		rr = floats.Dot(r, r)
	)
	copy(p, r)
	for stats.Iterations < s.MaxIterations {
		A.MulVec(Ap, p)
		stats.MatVec++
		alpha := rr / floats.Dot(p, Ap)
		floats.AddScaled(x, alpha, p)   // x += alpha*p
		floats.AddScaled(r, -alpha, Ap) // r -= alpha*A*p
		rrNew := floats.Dot(r, r)
		stats.Iterations++
		stats.ResidualNorm = floats.Norm(r, 2)
		s.report("CG", &stats)
		if stats.ResidualNorm < s.Tolerance {
			stats.Converged = true
			break
		}
		floats.AddScaledTo(p, r, rrNew/rr, p) // p = r + beta*p
		rr = rrNew
	}
	return finish(x, stats)
}

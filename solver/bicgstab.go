package solver

import (
	"gonum.org/v1/gonum/floats"
)

// BiCGSTAB solves A x = b for general non-symmetric A, e.g. saddle point
// and Newton tangent systems. Breakdown (rho or omega reaching zero) is not
// detected and shows up as NaN in the result.
func BiCGSTAB(A Operator, b []float64, s Settings) Result {
	var (
		stats Stats
	)
	x, r := start(A, b, &s, &stats)
	if stats.Converged {
		return finish(x, stats)
	}
	var (
		n                 = len(x)
		rhat              = make([]float64, n)
		p                 = make([]float64, n)
		v                 = make([]float64, n)
		sv                = make([]float64, n)
		t                 = make([]float64, n)
		rho, alpha, omega = 1., 1., 1.
	)
	copy(rhat, r)
	for stats.Iterations < s.MaxIterations {
		rhoNew := floats.Dot(rhat, r)
		beta := (rhoNew / rho) * (alpha / omega)
		floats.AddScaled(p, -omega, v)    // p -= omega*v
		floats.AddScaledTo(p, r, beta, p) // p = r + beta*p
		A.MulVec(v, p)
		stats.MatVec++
		alpha = rhoNew / floats.Dot(rhat, v)
		floats.AddScaledTo(sv, r, -alpha, v) // s = r - alpha*v
		stats.Iterations++
		if norm := floats.Norm(sv, 2); norm < s.Tolerance {
			floats.AddScaled(x, alpha, p)
			copy(r, sv)
			stats.ResidualNorm = norm
			stats.Converged = true
			s.report("BiCGSTAB", &stats)
			break
		}
		A.MulVec(t, sv)
		stats.MatVec++
		omega = floats.Dot(t, sv) / floats.Dot(t, t)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(x, omega, sv)
		floats.AddScaledTo(r, sv, -omega, t) // r = s - omega*t
		rho = rhoNew
		stats.ResidualNorm = floats.Norm(r, 2)
		s.report("BiCGSTAB", &stats)
		if stats.ResidualNorm < s.Tolerance {
			stats.Converged = true
			break
		}
	}
	return finish(x, stats)
}

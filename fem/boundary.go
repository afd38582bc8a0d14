package fem

import (
	"fmt"
)

// SetDirichlet imposes x[i] = v by the penalty method: the diagonal is scaled
// by alpha and the load set to alpha*Kii*v. Off-diagonal couplings are kept,
// so the result approaches v as alpha grows.
func (s *System) SetDirichlet(fixed []int, values []float64, alpha float64) {
	if len(fixed) != len(values) {
		panic(fmt.Errorf("got %d prescribed equations and %d values", len(fixed), len(values)))
	}
	for n, i := range fixed {
		s.checkEquation(i)
		Kii := s.K.Get(i, i)
		s.F[i] = alpha * Kii * values[n]
		s.K.Set(i, i, alpha*Kii)
	}
}

// SetNeumann accumulates q into F, independent contributions sum.
func (s *System) SetNeumann(indices []int, q []float64) {
	if len(indices) != len(q) {
		panic(fmt.Errorf("got %d loaded equations and %d values", len(indices), len(q)))
	}
	for n, i := range indices {
		s.checkEquation(i)
		s.F[i] += q[n]
	}
}

func (s *System) checkEquation(i int) {
	if i < 0 || i >= s.Size() {
		panic(fmt.Errorf("equation %d out of range for system of size %d", i, s.Size()))
	}
}

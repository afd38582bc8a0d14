package topology

import (
	"fmt"
	"math"

	"github.com/notargets/gofem/utils"
)

// SIMP interpolates Young's modulus between a void value E0 and a solid value
// E1 with penalization exponent P: E(s) = E1 s^P + E0 (1 - s^P).
type SIMP struct {
	E0, E1 float64
	P      int
}

func (m SIMP) Young(s float64) float64 {
	sp := utils.IntPow(s, m.P)
	return m.E1*sp + m.E0*(1-sp)
}

// DYoung is dE/ds.
func (m SIMP) DYoung(s float64) float64 {
	return float64(m.P) * (m.E1 - m.E0) * utils.IntPow(s, m.P-1)
}

// Compliance returns ue' Ke ue.
func Compliance(ue []float64, Ke utils.Matrix) (c float64) {
	Kue := Ke.MulVec(ue)
	for i, v := range ue {
		c += v * Kue[i]
	}
	return
}

// MultiLoadObjective combines per load case compliances c_l into the
// harmonic mean n / sum(1/c_l). dcompliances[l][i] are the sensitivities of
// c_l to design variable i; the returned dobj has the same sign convention.
func MultiLoadObjective(compliances []float64, dcompliances [][]float64) (obj float64, dobj []float64) {
	var (
		n   = float64(len(compliances))
		tmp float64
	)
	if len(compliances) == 0 || len(dcompliances) != len(compliances) {
		panic(fmt.Errorf("got %d compliances and %d sensitivity sets", len(compliances), len(dcompliances)))
	}
	for _, c := range compliances {
		tmp += 1 / c
	}
	obj = n / tmp
	dobj = make([]float64, len(dcompliances[0]))
	for l, dc := range dcompliances {
		if len(dc) != len(dobj) {
			panic(fmt.Errorf("load case %d has %d sensitivities, expected %d", l, len(dc), len(dobj)))
		}
		c2 := compliances[l] * compliances[l]
		for i, v := range dc {
			dobj[i] += v / c2
		}
	}
	scale := n / (tmp * tmp)
	for i := range dobj {
		dobj[i] *= scale
	}
	return
}

// Converged compares two successive objective values relative to their sum.
func Converged(obj, prev, eps float64) bool {
	return math.Abs((obj-prev)/(obj+prev)) < eps
}

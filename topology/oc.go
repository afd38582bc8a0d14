package topology

import (
	"fmt"
	"math"
)

// OC is the optimality criteria update for a compliance objective under a
// mean density constraint.
type OC struct {
	Iota      float64 // damping exponent
	MoveLimit float64 // relative change allowed per update
	LambdaMin float64
	LambdaMax float64
	LambdaEps float64 // relative width at which the bisection stops
	// Volume measures a design against the limit, the mean of the design
	// when nil. Filtered designs pass the mean of the physical densities.
	Volume func(s []float64) float64
}

func NewOC() OC {
	return OC{
		Iota:      0.75,
		MoveLimit: 0.15,
		LambdaMin: 1.e-15,
		LambdaMax: 1.e15,
		LambdaEps: 1.e-10,
	}
}

// Update returns the next design. dobj holds the magnitudes of the objective
// sensitivities (positive for compliance), dvol the constraint sensitivities.
// The Lagrange multiplier is found by bisection so the volume of snext meets
// volumeLimit.
func (oc OC) Update(s, dobj, dvol []float64, volumeLimit float64) (snext []float64, lambda float64) {
	if len(dobj) != len(s) || len(dvol) != len(s) {
		panic(fmt.Errorf("design has %d variables, got %d and %d sensitivities", len(s), len(dobj), len(dvol)))
	}
	var (
		lambda0, lambda1 = oc.LambdaMin, oc.LambdaMax
	)
	snext = make([]float64, len(s))
	for (lambda1-lambda0)/(lambda1+lambda0) > oc.LambdaEps {
		lambda = 0.5 * (lambda1 + lambda0)
		for i, si := range s {
			var (
				lo = math.Max(0, (1-oc.MoveLimit)*si)
				hi = math.Min(1, (1+oc.MoveLimit)*si)
			)
			snext[i] = math.Min(hi, math.Max(lo, math.Pow(dobj[i]/(dvol[i]*lambda), oc.Iota)*si))
		}
		if oc.volume(snext) > volumeLimit {
			lambda0 = lambda
		} else {
			lambda1 = lambda
		}
	}
	return
}

func (oc OC) volume(s []float64) (v float64) {
	if oc.Volume != nil {
		return oc.Volume(s)
	}
	for _, si := range s {
		v += si
	}
	return v / float64(len(s))
}

package Topology2D

import (
	"fmt"
	"time"

	"github.com/notargets/gofem/model_problems/Elastic2D"
	"github.com/notargets/gofem/topology"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

/*
Topology minimizes the harmonic mean of the load case compliances of an
elastic model under a mean density limit, with SIMP interpolation of the
element moduli and optimality criteria or moving asymptotes updates. Each
iteration solves the elastic model from a fresh sparse store.
*/
type Topology struct {
	Model          *Elastic2D.Elastic
	Material       topology.SIMP
	Optimizer      types.Optimizer
	OC             topology.OC
	MMA            *topology.MMA             // created by the first moving asymptotes update
	Filter         *topology.HeavisideFilter // Densities equal the design when nil
	VolumeFraction float64
	MaxIterations  int
	Tolerance      float64
	Verbose        bool
	S              []float64 // Design variables, one per element
	History        []float64 // Objective per iteration
	scale          float64   // first objective, normalizes the MMA objective
}

func NewTopology(model *Elastic2D.Elastic, volumeFraction, filterRadius float64) (tp *Topology) {
	if volumeFraction <= 0 || volumeFraction > 1 {
		panic(fmt.Errorf("volume fraction must be in (0,1], got %v", volumeFraction))
	}
	tp = &Topology{
		Model:          model,
		Material:       topology.SIMP{E0: 1.e-3 * model.E, E1: model.E, P: 3},
		OC:             topology.NewOC(),
		VolumeFraction: volumeFraction,
		MaxIterations:  100,
		Tolerance:      1.e-5,
		S:              utils.Fill(len(model.Grid.Elements), volumeFraction),
	}
	if filterRadius > 0 {
		tp.Filter = topology.NewHeavisideFilter(model.Grid.Centroids(), filterRadius)
	}
	return
}

// Densities maps the design to the physical densities.
func (tp *Topology) Densities() []float64 {
	if tp.Filter == nil {
		return tp.S
	}
	return tp.Filter.Filter(tp.S)
}

// Iterate performs one analysis and design update and returns the objective
// at the design it analysed.
func (tp *Topology) Iterate() (obj float64, err error) {
	var (
		m     = tp.Model
		ne    = len(m.Grid.Elements)
		rho   = tp.Densities()
		Ke0   = make([]utils.Matrix, ne)
		dvol  = utils.Fill(ne, 1)
		c     = make([]float64, len(m.LoadCases))
		dc    = make([][]float64, len(m.LoadCases))
		young = make([]float64, ne)
	)
	for e := range young {
		young[e] = tp.Material.Young(rho[e])
		Ke0[e], _ = m.ElementStiffness(e, 1)
	}
	m.ElementE = young
	for lc, r := range m.Solve() {
		dc[lc] = make([]float64, ne)
		for e := 0; e < ne; e++ {
			uKu := topology.Compliance(m.ElementDisplacements(r.U, e), Ke0[e])
			c[lc] += young[e] * uKu
			dc[lc][e] = tp.Material.DYoung(rho[e]) * uKu
		}
	}
	obj, dobj := topology.MultiLoadObjective(c, dc)
	if tp.Filter != nil {
		dobj = tp.Filter.FilterSensitivities(tp.S, dobj)
		dvol = tp.Filter.FilterSensitivities(tp.S, dvol)
	}
	if tp.Optimizer == types.MovingAsymptotes {
		err = tp.updateMMA(obj, dobj, dvol)
		return
	}
	oc := tp.OC
	if tp.Filter != nil && oc.Volume == nil {
		oc.Volume = func(s []float64) float64 { return mean(tp.Filter.Filter(s)) }
	}
	tp.S, _ = oc.Update(tp.S, dobj, dvol, tp.VolumeFraction)
	return
}

// updateMMA poses the volume limit as mean(rho)/VolumeFraction - 1 <= 0 and
// scales the objective by its first value.
func (tp *Topology) updateMMA(obj float64, dobj, dvol []float64) error {
	n := len(tp.S)
	if tp.MMA == nil {
		tp.MMA = topology.NewMMA(n, 1)
		tp.MMA.Tolerance = tp.Tolerance
		tp.scale = obj
	}
	var (
		df0 = make([]float64, n)
		g   = []float64{mean(tp.Densities())/tp.VolumeFraction - 1}
		dg  = [][]float64{make([]float64, n)}
	)
	for i := range df0 {
		df0[i] = -dobj[i] / tp.scale
		dg[0][i] = dvol[i] / (float64(n) * tp.VolumeFraction)
	}
	return tp.MMA.UpdateVariables(tp.S, obj/tp.scale, df0, g, dg)
}

// Run iterates until successive objectives agree within Tolerance or
// MaxIterations is reached, and returns the number of iterations.
func (tp *Topology) Run() (iterations int, err error) {
	var (
		start = time.Now()
		obj   float64
	)
	for iterations < tp.MaxIterations {
		if obj, err = tp.Iterate(); err != nil {
			return
		}
		iterations++
		tp.History = append(tp.History, obj)
		if tp.Verbose {
			fmt.Printf("iter = %4d, objective = %12.6e, volume = %8.5f\n", iterations, obj, mean(tp.Densities()))
		}
		if n := len(tp.History); n > 1 && topology.Converged(obj, tp.History[n-2], tp.Tolerance) {
			break
		}
	}
	if tp.Verbose {
		fmt.Printf("Optimization time = %v\n", time.Since(start))
	}
	return
}

func mean(v []float64) (m float64) {
	for _, x := range v {
		m += x
	}
	return m / float64(len(v))
}

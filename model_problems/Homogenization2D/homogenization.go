package Homogenization2D

import (
	"fmt"
	"time"

	"github.com/notargets/gofem/equation"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/utils"
)

var slots = [2]int{0, 1}

/*
Homogenization computes the effective plane strain constitutive matrix of a
periodic unit cell. Opposite sides of the cell share their equations, a weak
spring on every node removes the remaining rigid translation, and the three
unit strain load cases share one assembled matrix.
*/
type Homogenization struct {
	Grid           *geometry2D.Rectangle
	D              []utils.Matrix // Constitutive matrix per element
	T              float64
	Spring         float64
	Method         solver.Method
	SolverSettings solver.Settings
	Verbose        bool
	DM             *fem.DOFMap
	Chi            [3]fem.Field // Characteristic displacements of the unit strains
	Stats          [3]solver.Stats
}

func NewHomogenization(grid *geometry2D.Rectangle, young []float64, nu float64) (h *Homogenization) {
	if len(young) != len(grid.Elements) {
		panic(fmt.Errorf("got %d element moduli for %d elements", len(young), len(grid.Elements)))
	}
	h = &Homogenization{
		Grid:   grid,
		D:      make([]utils.Matrix, len(young)),
		T:      1,
		Spring: 1.e-9,
		Method: solver.MethodScalingCG,
	}
	for e, E := range young {
		h.D[e] = equation.PlaneStrainD(E, nu)
	}
	return
}

// Inclusion assigns inclusionE to the elements whose centroid lies within
// radius of the cell center and matrixE to the others.
func Inclusion(grid *geometry2D.Rectangle, radius, matrixE, inclusionE float64) (young []float64) {
	var (
		center = grid.Box.Centroid()
	)
	young = make([]float64, len(grid.Elements))
	for e, c := range grid.Centroids() {
		dx, dy := c[0]-center[0], c[1]-center[1]
		young[e] = matrixE
		if dx*dx+dy*dy < radius*radius {
			young[e] = inclusionE
		}
	}
	return
}

func (h *Homogenization) Run() (CH utils.Matrix) {
	var (
		grid  = h.Grid
		sf, q = grid.Kind.Shape(), grid.Kind.Rule()
		start = time.Now()
		Fes   = make([]utils.Matrix, len(grid.Elements))
		lms   = make([]fem.LocalMap, len(grid.Elements))
	)
	h.DM = fem.NewDOFMap(grid.Nodes(), 2)
	h.DM.SetPeriodic(grid.PeriodicPairs())
	n := h.DM.Renumber()
	sys := fem.NewSystem(n)
	for e, element := range grid.Elements {
		Ke, lm := equation.PlaneStiffness(sf, q, grid.X, element, slots, h.D[e], h.T)
		sys.AssembleMatrix(Ke, h.DM, lm, element)
		Ks, lm := equation.WeakSpring(element, slots, h.Spring)
		sys.AssembleMatrix(Ks, h.DM, lm, element)
		Fes[e], lms[e] = equation.HomogenizeBodyForce(sf, q, grid.X, element, slots, h.D[e], h.T)
	}
	A := sys.Compress()
	for k := 0; k < 3; k++ {
		sys.F = make([]float64, n)
		for e, element := range grid.Elements {
			sys.AssembleVector(equation.Column(Fes[e], k), h.DM, lms[e], element)
		}
		res := solver.Solve(h.Method, A, sys.F, h.SolverSettings)
		h.Chi[k] = fem.NewFieldFromMap(h.DM)
		fem.Disassemble(h.Chi[k], res.X, h.DM)
		h.Stats[k] = res.Stats
	}
	CH = utils.NewMatrix(3, 3)
	for e, element := range grid.Elements {
		CH.Add(equation.HomogenizeConstitutive(sf, q, grid.X, element, slots, h.D[e], h.T, h.Chi))
	}
	CH.Scale(1 / (grid.Box.Area() * h.T))
	if h.Verbose {
		fmt.Printf("Homogenized %d element cell, %d equations, %v\n", len(grid.Elements), n, time.Since(start))
		for k, st := range h.Stats {
			fmt.Printf("unit strain %d: %s iterations = %d, converged = %v\n", k, h.Method, st.Iterations, st.Converged)
		}
		fmt.Println(CH.Print("CH"))
	}
	return
}

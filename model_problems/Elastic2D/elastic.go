package Elastic2D

import (
	"fmt"
	"time"

	"github.com/notargets/gofem/equation"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

var slots = [2]int{0, 1}

/*
Elastic is a static plane strain analysis on a structured grid. Every node
carries the displacement slots (ux, uy). All load cases share the supports
and, under elimination, one assembled stiffness matrix.
*/
type Elastic struct {
	// Input parameters
	Grid           *geometry2D.Rectangle
	E, Nu, T       float64
	ElementE       []float64  // Per element modulus, E for all elements when nil
	BodyForce      [2]float64 // Added to every load case
	Supports       []fem.NodalValue
	LoadCases      [][]fem.NodalValue
	Dirichlet      types.DirichletMethod
	Penalty        float64
	Method         solver.Method
	SolverSettings solver.Settings
	Verbose        bool
	// Results of the last Solve
	DM      *fem.DOFMap
	Results []Result
}

type Result struct {
	U          fem.Field
	Compliance float64 // F.x over the unsupported equations, F condensed
	Stats      solver.Stats
}

func NewElastic(grid *geometry2D.Rectangle, E, nu, t float64, supports []fem.NodalValue,
	loadCases [][]fem.NodalValue) (c *Elastic) {
	if len(loadCases) == 0 {
		panic(fmt.Errorf("elastic analysis needs at least one load case"))
	}
	c = &Elastic{
		Grid:      grid,
		E:         E,
		Nu:        nu,
		T:         t,
		Supports:  supports,
		LoadCases: loadCases,
		Dirichlet: types.Elimination,
		Penalty:   1.e10,
		Method:    solver.MethodCG,
	}
	return
}

// SideSupports prescribes value on the given slots of every node of a side.
func SideSupports(grid *geometry2D.Rectangle, side geometry2D.Side, slotList []int, value float64) (bcs []fem.NodalValue) {
	for _, node := range grid.Boundary(side) {
		for _, slot := range slotList {
			bcs = append(bcs, fem.NodalValue{Node: node, Slot: slot, Value: value})
		}
	}
	return
}

func (c *Elastic) Young(e int) float64 {
	if c.ElementE == nil {
		return c.E
	}
	return c.ElementE[e]
}

// ElementStiffness returns the stiffness of element e for modulus E.
func (c *Elastic) ElementStiffness(e int, E float64) (Ke utils.Matrix, lm fem.LocalMap) {
	var (
		kind = c.Grid.Kind
	)
	return equation.PlaneStrain(kind.Shape(), kind.Rule(), c.Grid.X, c.Grid.Elements[e], slots, E, c.Nu, c.T)
}

func (c *Elastic) assembleBodyForce(s *fem.System) {
	if c.BodyForce == [2]float64{} {
		return
	}
	kind := c.Grid.Kind
	for _, element := range c.Grid.Elements {
		Fe, lm := equation.PlaneStrainBodyForce(kind.Shape(), kind.Rule(), c.Grid.X, element, slots, c.BodyForce, c.T)
		s.AssembleVector(Fe, c.DM, lm, element)
	}
}

// ElementDisplacements gathers (ux, uy) of the nodes of element e in local order.
func (c *Elastic) ElementDisplacements(u fem.Field, e int) (ue []float64) {
	element := c.Grid.Elements[e]
	ue = make([]float64, 2*len(element))
	for i, node := range element {
		ue[2*i], ue[2*i+1] = u[node][slots[0]], u[node][slots[1]]
	}
	return
}

func (c *Elastic) Solve() []Result {
	if c.ElementE != nil && len(c.ElementE) != len(c.Grid.Elements) {
		panic(fmt.Errorf("got %d element moduli for %d elements", len(c.ElementE), len(c.Grid.Elements)))
	}
	var (
		start = time.Now()
	)
	c.DM = fem.NewDOFMap(c.Grid.Nodes(), 2)
	switch c.Dirichlet {
	case types.Elimination:
		c.Results = c.solveElimination()
	case types.Penalty:
		c.Results = c.solvePenalty()
	default:
		panic(fmt.Errorf("unknown Dirichlet method %v", c.Dirichlet))
	}
	if c.Verbose {
		fmt.Printf("Plane strain, %d %s elements, %d equations, %s Dirichlet\n",
			len(c.Grid.Elements), c.Grid.Kind, c.DM.NDOF, c.Dirichlet)
		for lc, r := range c.Results {
			fmt.Printf("Load case %d: compliance = %12.6e, %s iterations = %d, converged = %v\n",
				lc, r.Compliance, c.Method, r.Stats.Iterations, r.Stats.Converged)
		}
		fmt.Printf("Solve time = %v, %s\n", time.Since(start), utils.GetMemUsage())
	}
	return c.Results
}

func (c *Elastic) assembleMatrix(s *fem.System) {
	for e, element := range c.Grid.Elements {
		Ke, lm := c.ElementStiffness(e, c.Young(e))
		s.AssembleMatrix(Ke, c.DM, lm, element)
	}
}

// solveElimination assembles K once and solves one right hand side per load
// case, each condensing the prescribed values of the supports.
func (c *Elastic) solveElimination() (results []Result) {
	var (
		up = fem.NewFieldFromMap(c.DM)
	)
	c.DM.Prescribe(up, c.Supports)
	n := c.DM.Renumber()
	sys := fem.NewSystem(n)
	c.assembleMatrix(sys)
	A := sys.Compress()
	for _, loads := range c.LoadCases {
		sys.F = make([]float64, n)
		if len(c.Supports) != 0 {
			for e, element := range c.Grid.Elements {
				Ke, lm := c.ElementStiffness(e, c.Young(e))
				sys.AssembleCondensation(up, Ke, c.DM, lm, element)
			}
		}
		sys.AssembleNeumann(loads, c.DM)
		c.assembleBodyForce(sys)
		results = append(results, c.solve(A, sys.F, up, nil, nil))
	}
	return
}

// solvePenalty keeps the supports in the system, which scales their diagonal,
// so every load case gets a freshly assembled system.
func (c *Elastic) solvePenalty() (results []Result) {
	n := c.DM.Renumber()
	fixed, values := c.DM.Equations(c.Supports)
	for _, loads := range c.LoadCases {
		sys := fem.NewSystem(n)
		c.assembleMatrix(sys)
		sys.AssembleNeumann(loads, c.DM)
		c.assembleBodyForce(sys)
		sys.SetDirichlet(fixed, values, c.Penalty)
		results = append(results, c.solve(sys.Compress(), sys.F, fem.NewFieldFromMap(c.DM), fixed, values))
	}
	return
}

// solve runs the linear solver and writes the solution over u0. Penalty
// supports are passed as fixed and values: their rows are left out of the
// compliance and their coupling is moved into F, which gives the compliance
// of the eliminated system.
func (c *Elastic) solve(A utils.CSR, F []float64, u0 fem.Field, fixed []int, values []float64) (r Result) {
	res := solver.Solve(c.Method, A, F, c.SolverSettings)
	r.U = u0.Copy()
	fem.Disassemble(r.U, res.X, c.DM)
	r.Stats = res.Stats
	f := F
	if len(fixed) != 0 {
		var (
			up  = make([]float64, len(F))
			Kup = make([]float64, len(F))
		)
		for k, i := range fixed {
			up[i] = values[k]
		}
		A.MulVec(Kup, up)
		f = make([]float64, len(F))
		for i := range F {
			f[i] = F[i] - Kup[i]
		}
		for _, i := range fixed {
			f[i] = 0
		}
	}
	for i, fi := range f {
		r.Compliance += fi * res.X[i]
	}
	return
}

// Stress returns (sxx, syy, sxy) at the center of element e.
func (c *Elastic) Stress(u fem.Field, e int) []float64 {
	return equation.PlaneStrainStress(c.Grid.Kind.Shape(), []float64{0, 0}, c.Grid.X, c.Grid.Elements[e],
		slots, c.Young(e), c.Nu, u)
}

package Stokes2D

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/gofem/equation"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/utils"
)

var slots = [3]int{0, 1, 2}

// VelocityFunc gives the prescribed (u, v) at a boundary point.
type VelocityFunc func(x []float64) [2]float64

/*
Stokes solves creeping flow on a Q8 grid with quadratic velocity at every node
and linear pressure at the element corners, so corner nodes carry the slots
(u, v, p) and midside nodes (u, v). Velocity is prescribed on the whole
boundary and the pressure is pinned to zero at PressureNode.
*/
type Stokes struct {
	Grid           *geometry2D.Rectangle
	Mu             float64
	Velocity       VelocityFunc
	PressureNode   int
	SolverSettings solver.Settings
	Verbose        bool
	DM             *fem.DOFMap
	U              fem.Field
	Stats          solver.Stats
}

func NewStokes(grid *geometry2D.Rectangle, mu float64, velocity VelocityFunc) (c *Stokes) {
	if grid.Kind != geometry2D.Q8 {
		panic(fmt.Errorf("stokes flow needs a Q8 grid, got %s", grid.Kind))
	}
	c = &Stokes{
		Grid:     grid,
		Mu:       mu,
		Velocity: velocity,
	}
	return
}

// Cavity drives the flow with a lid moving at speed U along the top side.
func Cavity(grid *geometry2D.Rectangle, U float64) VelocityFunc {
	return func(x []float64) [2]float64 {
		if grid.Box.OnSide(geometry2D.Top, x) {
			return [2]float64{U, 0}
		}
		return [2]float64{0, 0}
	}
}

// Channel is plane Poiseuille flow with centerline speed U across the height
// of the grid.
func Channel(grid *geometry2D.Rectangle, U float64) VelocityFunc {
	var (
		h = grid.Box.XMax[1] - grid.Box.XMin[1]
	)
	return func(x []float64) [2]float64 {
		y := x[1] - grid.Box.XMin[1]
		return [2]float64{4 * U * y * (h - y) / (h * h), 0}
	}
}

func (c *Stokes) isBoundary(x []float64) bool {
	for _, side := range []geometry2D.Side{geometry2D.Left, geometry2D.Right, geometry2D.Bottom, geometry2D.Top} {
		if c.Grid.Box.OnSide(side, x) {
			return true
		}
	}
	return false
}

// Assemble numbers the free slots and returns the condensed mixed system.
// The prescribed values are held in c.U.
func (c *Stokes) Assemble() (sys *fem.System) {
	var (
		grid     = c.Grid
		corner   = grid.IsCorner()
		nodeSlot = make([]int, grid.Nodes())
		sfU, q   = grid.Kind.Shape(), grid.Kind.Rule()
		sfP      = geometry2D.Q4.Shape()
		bcs      []fem.NodalValue
	)
	if !corner[c.PressureNode] {
		panic(fmt.Errorf("pressure node %d is not an element corner", c.PressureNode))
	}
	for n := range nodeSlot {
		nodeSlot[n] = 2
		if corner[n] {
			nodeSlot[n] = 3
		}
		if c.isBoundary(grid.X[n]) {
			uv := c.Velocity(grid.X[n])
			bcs = append(bcs,
				fem.NodalValue{Node: n, Slot: slots[0], Value: uv[0]},
				fem.NodalValue{Node: n, Slot: slots[1], Value: uv[1]},
			)
		}
	}
	bcs = append(bcs, fem.NodalValue{Node: c.PressureNode, Slot: slots[2], Value: 0})
	c.DM = fem.NewDOFMapFromSlots(nodeSlot)
	c.U = fem.NewFieldFromMap(c.DM)
	c.DM.Prescribe(c.U, bcs)
	sys = fem.NewSystem(c.DM.Renumber())
	for e, elementU := range grid.Elements {
		elementP := grid.Corners[e]
		Ke, lmU, lmP := equation.Stokes(sfU, sfP, q, grid.X, elementU, elementP, slots, c.Mu)
		sys.AssembleGroups(Ke, c.U, c.DM, []fem.LocalMap{lmU, lmP}, [][]int{elementU, elementP})
	}
	return
}

// Solve assembles and solves the system with BiCGSTAB, the mixed matrix
// being symmetric but indefinite.
func (c *Stokes) Solve() fem.Field {
	var (
		start = time.Now()
	)
	sys := c.Assemble()
	res := solver.BiCGSTAB(sys.Compress(), sys.F, c.SolverSettings)
	fem.Disassemble(c.U, res.X, c.DM)
	c.Stats = res.Stats
	if c.Verbose {
		fmt.Printf("Stokes flow, %d Q8/Q4 elements, %d equations\n", len(c.Grid.Elements), c.DM.NDOF)
		fmt.Printf("BiCGSTAB iterations = %d, |r| = %8.5e, converged = %v\n",
			res.Stats.Iterations, res.Stats.ResidualNorm, res.Stats.Converged)
		fmt.Printf("Solve time = %v, %s\n", time.Since(start), utils.GetMemUsage())
	}
	return c.U
}

// Pressure returns the pressure at every corner node, NaN elsewhere.
func (c *Stokes) Pressure() (p []float64) {
	p = make([]float64, len(c.U))
	for n, values := range c.U {
		if len(values) > slots[2] {
			p[n] = values[slots[2]]
		} else {
			p[n] = math.NaN()
		}
	}
	return
}

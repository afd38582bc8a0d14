package geometry2D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/shape"
	"github.com/notargets/gofem/utils"
)

type ElementKind uint8

const (
	Q4 ElementKind = iota
	Q8
)

var (
	ElementKindNames = map[string]ElementKind{
		"q4": Q4,
		"q8": Q8,
	}
	ElementKindPrintNames = []string{"Q4", "Q8"}
)

func (ek ElementKind) String() string {
	if int(ek) < len(ElementKindPrintNames) {
		return ElementKindPrintNames[ek]
	}
	return fmt.Sprintf("ElementKind(%d)", int(ek))
}

func NewElementKind(label string) (ek ElementKind, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return Q4, nil
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if ek, ok = ElementKindNames[label]; !ok {
		err = fmt.Errorf("unable to use element named %s, choose one of %v", label, ElementKindPrintNames)
	}
	return
}

// Shape returns the shape functions matching the element connectivity.
func (ek ElementKind) Shape() shape.Function {
	switch ek {
	case Q4:
		return shape.Quad4{}
	case Q8:
		return shape.Quad8{}
	default:
		panic(fmt.Errorf("unknown element kind %v", ek))
	}
}

// Rule returns the Gauss rule that integrates the element stiffness exactly
// on rectangles.
func (ek ElementKind) Rule() shape.Rule {
	switch ek {
	case Q4:
		return shape.GaussSquare(2)
	case Q8:
		return shape.GaussSquare(3)
	default:
		panic(fmt.Errorf("unknown element kind %v", ek))
	}
}

type Side uint8

const (
	Left Side = iota
	Right
	Bottom
	Top
)

var (
	SideNames = map[string]Side{
		"left":   Left,
		"right":  Right,
		"bottom": Bottom,
		"top":    Top,
	}
	SidePrintNames = []string{"Left", "Right", "Bottom", "Top"}
)

func (s Side) String() string {
	if int(s) < len(SidePrintNames) {
		return SidePrintNames[s]
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func NewSide(label string) (s Side, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if s, ok = SideNames[label]; !ok {
		err = fmt.Errorf("unknown side %q, choose one of %v", label, SidePrintNames)
	}
	return
}

/*
Rectangle is a structured grid of NX x NY quadrilaterals covering
[0,LX] x [0,LY]. Nodes are numbered row by row from the lower left corner.
Element connectivity lists the corners counter-clockwise from the lower left
corner, followed for Q8 by the bottom, right, top and left midside nodes.
*/
type Rectangle struct {
	NX, NY   int
	LX, LY   float64
	Kind     ElementKind
	X        [][]float64 // Node coordinates
	Elements [][]int
	Corners  [][]int // Corner nodes of each element, the Q4 sub-connectivity of a Q8 grid
	Box      *BoundingBox
}

func NewRectangle(nx, ny int, lx, ly float64, kind ElementKind) (r *Rectangle) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("grid needs at least one element per direction, got %d x %d", nx, ny))
	}
	if lx <= 0 || ly <= 0 {
		panic(fmt.Errorf("grid extent must be positive, got %v x %v", lx, ly))
	}
	var (
		step int
	)
	switch kind {
	case Q4:
		step = 1
	case Q8:
		step = 2
	default:
		panic(fmt.Errorf("unknown element kind %v", kind))
	}
	r = &Rectangle{
		NX: nx, NY: ny,
		LX: lx, LY: ly,
		Kind: kind,
	}
	// Lattice of all candidate points, Q8 grids skip the element centers
	var (
		mx, my  = step*nx + 1, step*ny + 1
		lattice = make([][]int, my)
	)
	for j := 0; j < my; j++ {
		lattice[j] = make([]int, mx)
		for i := 0; i < mx; i++ {
			if step == 2 && i%2 == 1 && j%2 == 1 {
				lattice[j][i] = -1
				continue
			}
			lattice[j][i] = len(r.X)
			r.X = append(r.X, []float64{
				lx * float64(i) / float64(mx-1),
				ly * float64(j) / float64(my-1),
			})
		}
	}
	for ey := 0; ey < ny; ey++ {
		for ex := 0; ex < nx; ex++ {
			i0, j0 := step*ex, step*ey
			corners := []int{
				lattice[j0][i0], lattice[j0][i0+step],
				lattice[j0+step][i0+step], lattice[j0+step][i0],
			}
			element := append([]int{}, corners...)
			if kind == Q8 {
				element = append(element,
					lattice[j0][i0+1], lattice[j0+1][i0+2],
					lattice[j0+2][i0+1], lattice[j0+1][i0],
				)
			}
			r.Elements = append(r.Elements, element)
			r.Corners = append(r.Corners, corners)
		}
	}
	r.Box = NewBoundingBox(r.X)
	return
}

func (r *Rectangle) Nodes() int { return len(r.X) }

// NodesWhere returns the nodes whose coordinates satisfy pred, in node order.
func (r *Rectangle) NodesWhere(pred func(x []float64) bool) (I utils.Index) {
	for n, x := range r.X {
		if pred(x) {
			I = append(I, n)
		}
	}
	return
}

// Nearest returns the node closest to x.
func (r *Rectangle) Nearest(x []float64) (node int) {
	var (
		dmin = math.Inf(1)
	)
	for n, xn := range r.X {
		dx, dy := xn[0]-x[0], xn[1]-x[1]
		if d := dx*dx + dy*dy; d < dmin {
			dmin, node = d, n
		}
	}
	return
}

func (r *Rectangle) Boundary(side Side) utils.Index {
	return r.NodesWhere(func(x []float64) bool { return r.Box.OnSide(side, x) })
}

// IsCorner reports which nodes are element corners, the pressure nodes of a
// mixed Q8/Q4 layout.
func (r *Rectangle) IsCorner() (corner []bool) {
	corner = make([]bool, r.Nodes())
	for _, c := range r.Corners {
		for _, n := range c {
			corner[n] = true
		}
	}
	return
}

func (r *Rectangle) Centroids() (C [][]float64) {
	C = make([][]float64, len(r.Corners))
	for e, c := range r.Corners {
		C[e] = make([]float64, 2)
		for _, n := range c {
			C[e][0] += 0.25 * r.X[n][0]
			C[e][1] += 0.25 * r.X[n][1]
		}
	}
	return
}

// ElementArea is the area of every element of the grid.
func (r *Rectangle) ElementArea() float64 {
	return r.LX * r.LY / float64(r.NX*r.NY)
}

/*
PeriodicPairs ties the right side to the left and the top side to the
bottom. The upper right corner is a slave of the upper left corner only, so
through the chain all four corners share the lower left corner's equations.
*/
func (r *Rectangle) PeriodicPairs() (pairs []fem.PeriodicPair) {
	var (
		match = func(masters, slaves utils.Index, axis int) {
			for _, s := range slaves {
				for _, m := range masters {
					if d := r.X[s][axis] - r.X[m][axis]; d < utils.NODETOL && d > -utils.NODETOL {
						pairs = append(pairs, fem.PeriodicPair{Master: m, Slave: s})
						break
					}
				}
			}
		}
		right = r.Boundary(Right)
		top   utils.Index
	)
	for _, n := range r.Boundary(Top) {
		if !r.Box.OnSide(Right, r.X[n]) {
			top = append(top, n)
		}
	}
	match(r.Boundary(Left), right, 1)
	match(r.Boundary(Bottom), top, 0)
	return
}

package shape

import (
	"github.com/notargets/gofem/utils"
)

// Line2 is the linear two node line on [-1,1].
type Line2 struct{}

func (Line2) Nodes() int { return 2 }
func (Line2) Dim() int   { return 1 }
func (Line2) Values(r []float64) []float64 {
	return []float64{0.5 * (1 - r[0]), 0.5 * (1 + r[0])}
}
func (Line2) Gradients(r []float64) utils.Matrix {
	return utils.NewMatrix(1, 2, []float64{-0.5, 0.5})
}
func (Line2) Reference() [][]float64 { return [][]float64{{-1}, {1}} }

// Quad4 is the bilinear quadrilateral on [-1,1]^2, nodes counter-clockwise
// from (-1,-1).
type Quad4 struct{}

var quad4Nodes = [][]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func (Quad4) Nodes() int { return 4 }
func (Quad4) Dim() int   { return 2 }
func (Quad4) Values(r []float64) (N []float64) {
	N = make([]float64, 4)
	for i, ri := range quad4Nodes {
		N[i] = 0.25 * (1 + r[0]*ri[0]) * (1 + r[1]*ri[1])
	}
	return
}
func (Quad4) Gradients(r []float64) (G utils.Matrix) {
	G = utils.NewMatrix(2, 4)
	for i, ri := range quad4Nodes {
		G.Set(0, i, 0.25*ri[0]*(1+r[1]*ri[1]))
		G.Set(1, i, 0.25*ri[1]*(1+r[0]*ri[0]))
	}
	return
}
func (Quad4) Reference() [][]float64 { return quad4Nodes }

// Quad8 is the serendipity quadrilateral: corners as Quad4, then the
// midside nodes of edges 0-1, 1-2, 2-3 and 3-0.
type Quad8 struct{}

var quad8Nodes = [][]float64{
	{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
}

func (Quad8) Nodes() int { return 8 }
func (Quad8) Dim() int   { return 2 }
func (Quad8) Values(r []float64) (N []float64) {
	var (
		x, y = r[0], r[1]
	)
	N = make([]float64, 8)
	for i, ri := range quad8Nodes {
		xi, yi := ri[0], ri[1]
		switch {
		case i < 4:
			N[i] = 0.25 * (1 + x*xi) * (1 + y*yi) * (x*xi + y*yi - 1)
		case xi == 0:
			N[i] = 0.5 * (1 - x*x) * (1 + y*yi)
		default:
			N[i] = 0.5 * (1 + x*xi) * (1 - y*y)
		}
	}
	return
}
func (Quad8) Gradients(r []float64) (G utils.Matrix) {
	var (
		x, y = r[0], r[1]
	)
	G = utils.NewMatrix(2, 8)
	for i, ri := range quad8Nodes {
		xi, yi := ri[0], ri[1]
		switch {
		case i < 4:
			G.Set(0, i, 0.25*xi*(1+y*yi)*(2*x*xi+y*yi))
			G.Set(1, i, 0.25*yi*(1+x*xi)*(x*xi+2*y*yi))
		case xi == 0:
			G.Set(0, i, -x*(1+y*yi))
			G.Set(1, i, 0.5*yi*(1-x*x))
		default:
			G.Set(0, i, 0.5*xi*(1-y*y))
			G.Set(1, i, -y*(1+x*xi))
		}
	}
	return
}
func (Quad8) Reference() [][]float64 { return quad8Nodes }

// Tri3 is the linear triangle on (0,0), (1,0), (0,1).
type Tri3 struct{}

func (Tri3) Nodes() int { return 3 }
func (Tri3) Dim() int   { return 2 }
func (Tri3) Values(r []float64) []float64 {
	return []float64{1 - r[0] - r[1], r[0], r[1]}
}
func (Tri3) Gradients(r []float64) utils.Matrix {
	return utils.NewMatrix(2, 3, []float64{
		-1, 1, 0,
		-1, 0, 1,
	})
}
func (Tri3) Reference() [][]float64 { return [][]float64{{0, 0}, {1, 0}, {0, 1}} }

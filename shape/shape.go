package shape

import (
	"fmt"

	"github.com/notargets/gofem/utils"
)

// Function evaluates element shape functions on the reference element.
type Function interface {
	Nodes() int
	Dim() int
	// Values returns N_i(r) for every node i.
	Values(r []float64) []float64
	// Gradients returns dN_i/dr_k as a [Dim x Nodes] matrix.
	Gradients(r []float64) utils.Matrix
	// Reference returns the reference coordinates of the element nodes.
	Reference() [][]float64
}

// Rule is a quadrature rule on the reference element of a Function.
type Rule interface {
	Points() [][]float64
	Weights() []float64
}

// Mapping is the isoparametric map evaluated at one reference point.
type Mapping struct {
	N    []float64
	DNDX utils.Matrix // [Dim x Nodes] physical gradients
	DetJ float64
}

// Map evaluates the shape functions at r and transforms their gradients to
// physical coordinates given the element nodal coordinates x[node][dim].
func Map(sf Function, r []float64, x [][]float64) (m Mapping) {
	var (
		nn, dim = sf.Nodes(), sf.Dim()
	)
	if len(x) != nn {
		panic(fmt.Errorf("got %d nodal coordinates for a %d node element", len(x), nn))
	}
	X := utils.NewMatrix(nn, dim)
	for i, xi := range x {
		if len(xi) < dim {
			panic(fmt.Errorf("node %d has %d coordinates, element needs %d", i, len(xi), dim))
		}
		for k := 0; k < dim; k++ {
			X.Set(i, k, xi[k])
		}
	}
	dNdr := sf.Gradients(r)
	J := dNdr.Mul(X) // J[k][l] = dx_l/dr_k
	m.DetJ = J.Det()
	if m.DetJ <= 0 {
		panic(fmt.Errorf("non positive Jacobian determinant %v, check element orientation", m.DetJ))
	}
	Jinv, err := J.Inverse()
	if err != nil {
		panic(err)
	}
	m.N = sf.Values(r)
	m.DNDX = Jinv.Mul(dNdr)
	return
}

type rule struct {
	points  [][]float64
	weights []float64
}

func (q rule) Points() [][]float64 { return q.points }
func (q rule) Weights() []float64  { return q.weights }

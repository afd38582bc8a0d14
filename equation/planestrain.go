package equation

import (
	"fmt"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/shape"
	"github.com/notargets/gofem/utils"
)

// PlaneStrainD is the plane strain constitutive matrix relating
// (exx, eyy, gxy) to (sxx, syy, sxy).
func PlaneStrainD(E, nu float64) (D utils.Matrix) {
	D = utils.NewMatrix(3, 3, []float64{
		1 - nu, nu, 0,
		nu, 1 - nu, 0,
		0, 0, 0.5 * (1 - 2*nu),
	})
	return D.Scale(E / ((1 + nu) * (1 - 2*nu)))
}

// PlaneStressD is the plane stress constitutive matrix.
func PlaneStressD(E, nu float64) (D utils.Matrix) {
	D = utils.NewMatrix(3, 3, []float64{
		1, nu, 0,
		nu, 1, 0,
		0, 0, 0.5 * (1 - nu),
	})
	return D.Scale(E / (1 - nu*nu))
}

// vectorMap maps element node i to local rows 2i and 2i+1 in the given slots.
func vectorMap(nNodes int, slots [2]int) (lm fem.LocalMap) {
	lm = make(fem.LocalMap, nNodes)
	for i := range lm {
		lm[i] = []fem.LocalDOF{
			{Slot: slots[0], Local: 2 * i},
			{Slot: slots[1], Local: 2*i + 1},
		}
	}
	return
}

func elementCoords(x [][]float64, element []int) (xe [][]float64) {
	xe = make([][]float64, len(element))
	for i, node := range element {
		if node < 0 || node >= len(x) {
			panic(fmt.Errorf("element node %d out of range for %d nodes", node, len(x)))
		}
		xe[i] = x[node]
	}
	return
}

// strainDisplacement builds B [3 x 2*Nodes] from physical gradients.
func strainDisplacement(dNdx utils.Matrix) (B utils.Matrix) {
	_, nn := dNdx.Dims()
	B = utils.NewMatrix(3, 2*nn)
	for n := 0; n < nn; n++ {
		B.Set(0, 2*n, dNdx.At(0, n))
		B.Set(1, 2*n+1, dNdx.At(1, n))
		B.Set(2, 2*n, dNdx.At(1, n))
		B.Set(2, 2*n+1, dNdx.At(0, n))
	}
	return
}

// PlaneStiffness integrates Bt D B t over the element for any 3x3 D.
func PlaneStiffness(sf shape.Function, q shape.Rule, x [][]float64, element []int, slots [2]int,
	D utils.Matrix, t float64) (Ke utils.Matrix, lm fem.LocalMap) {
	var (
		nn = len(element)
		xe = elementCoords(x, element)
	)
	Ke = utils.NewMatrix(2*nn, 2*nn)
	for g, r := range q.Points() {
		m := shape.Map(sf, r, xe)
		B := strainDisplacement(m.DNDX)
		Ke.Add(B.Transpose().Mul(D).Mul(B).Scale(m.DetJ * t * q.Weights()[g]))
	}
	lm = vectorMap(nn, slots)
	return
}

func PlaneStrain(sf shape.Function, q shape.Rule, x [][]float64, element []int, slots [2]int,
	E, nu, t float64) (Ke utils.Matrix, lm fem.LocalMap) {
	return PlaneStiffness(sf, q, x, element, slots, PlaneStrainD(E, nu), t)
}

// PlaneStrainBodyForce is the consistent nodal load of a uniform body force b.
func PlaneStrainBodyForce(sf shape.Function, q shape.Rule, x [][]float64, element []int, slots [2]int,
	b [2]float64, t float64) (Fe []float64, lm fem.LocalMap) {
	var (
		nn = len(element)
		xe = elementCoords(x, element)
	)
	Fe = make([]float64, 2*nn)
	for g, r := range q.Points() {
		m := shape.Map(sf, r, xe)
		w := m.DetJ * t * q.Weights()[g]
		for n, N := range m.N {
			Fe[2*n] += N * b[0] * w
			Fe[2*n+1] += N * b[1] * w
		}
	}
	lm = vectorMap(nn, slots)
	return
}

// PlaneStrainStress returns (sxx, syy, sxy) at reference point r from the
// element nodal displacements held in u.
func PlaneStrainStress(sf shape.Function, r []float64, x [][]float64, element []int, slots [2]int,
	E, nu float64, u fem.Field) (sigma []float64) {
	var (
		nn = len(element)
		ue = make([]float64, 2*nn)
	)
	m := shape.Map(sf, r, elementCoords(x, element))
	for i, node := range element {
		ue[2*i], ue[2*i+1] = u[node][slots[0]], u[node][slots[1]]
	}
	return PlaneStrainD(E, nu).Mul(strainDisplacement(m.DNDX)).MulVec(ue)
}

// WeakSpring grounds every slot of the element with a spring of stiffness k,
// removing the rigid body modes of otherwise unsupported periodic cells.
func WeakSpring(element []int, slots [2]int, k float64) (Ke utils.Matrix, lm fem.LocalMap) {
	nn := len(element)
	Ke = utils.NewIdentity(2 * nn).Scale(k)
	lm = vectorMap(nn, slots)
	return
}

package equation

import (
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/shape"
	"github.com/notargets/gofem/utils"
)

// HomogenizeBodyForce returns the three load columns Bt D e_k of the unit
// cell problems, one per unit macroscopic strain e_k.
func HomogenizeBodyForce(sf shape.Function, q shape.Rule, x [][]float64, element []int, slots [2]int,
	D utils.Matrix, t float64) (Fes utils.Matrix, lm fem.LocalMap) {
	var (
		nn = len(element)
		xe = elementCoords(x, element)
	)
	Fes = utils.NewMatrix(2*nn, 3)
	for g, r := range q.Points() {
		m := shape.Map(sf, r, xe)
		B := strainDisplacement(m.DNDX)
		Fes.Add(B.Transpose().Mul(D).Scale(m.DetJ * t * q.Weights()[g]))
	}
	lm = vectorMap(nn, slots)
	return
}

// Column returns column k of the element load block as a vector.
func Column(Fes utils.Matrix, k int) (Fe []float64) {
	nr, _ := Fes.Dims()
	Fe = make([]float64, nr)
	for i := range Fe {
		Fe[i] = Fes.At(i, k)
	}
	return
}

// HomogenizeConstitutive integrates D (I - B chi) over the element, where
// chi[k] is the characteristic displacement of unit strain k. Summed over the
// cell and divided by its volume this is the homogenized constitutive matrix.
func HomogenizeConstitutive(sf shape.Function, q shape.Rule, x [][]float64, element []int, slots [2]int,
	D utils.Matrix, t float64, chi [3]fem.Field) (CH utils.Matrix) {
	var (
		nn  = len(element)
		xe  = elementCoords(x, element)
		CHI = utils.NewMatrix(2*nn, 3)
	)
	for i, node := range element {
		for k := 0; k < 3; k++ {
			CHI.Set(2*i, k, chi[k][node][slots[0]])
			CHI.Set(2*i+1, k, chi[k][node][slots[1]])
		}
	}
	CH = utils.NewMatrix(3, 3)
	for g, r := range q.Points() {
		m := shape.Map(sf, r, xe)
		B := strainDisplacement(m.DNDX)
		ImBX := utils.NewIdentity(3).Subtract(B.Mul(CHI))
		CH.Add(D.Mul(ImBX).Scale(m.DetJ * t * q.Weights()[g]))
	}
	return
}

package equation

import (
	"fmt"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/shape"
	"github.com/notargets/gofem/utils"
)

// Stokes builds the mixed velocity/pressure matrix of one element for
// viscosity mu,
//
//	| A   G |   A_ij = mu grad(N_i).grad(N_j) per velocity component
//	| Gt  0 |   G_ij = -dN_i/dx_k M_j
//
// with velocity shape functions N on elementU and pressure shape functions M
// on elementP. Velocity rows come first. The two local maps belong to the
// velocity and the pressure node groups, for fem.System.AssembleGroups.
func Stokes(sfU, sfP shape.Function, q shape.Rule, x [][]float64, elementU, elementP []int,
	slots [3]int, mu float64) (Ke utils.Matrix, lmU, lmP fem.LocalMap) {
	var (
		nU, nP = len(elementU), len(elementP)
		xu, xp = elementCoords(x, elementU), elementCoords(x, elementP)
		n      = 2*nU + nP
	)
	if sfU.Nodes() != nU || sfP.Nodes() != nP {
		panic(fmt.Errorf("element sizes %d/%d do not match shape functions %d/%d", nU, nP, sfU.Nodes(), sfP.Nodes()))
	}
	Ke = utils.NewMatrix(n, n)
	for g, r := range q.Points() {
		mU := shape.Map(sfU, r, xu)
		mP := shape.Map(sfP, r, xp)
		w := mU.DetJ * q.Weights()[g]
		for i := 0; i < nU; i++ {
			for j := 0; j < nU; j++ {
				a := mu * (mU.DNDX.At(0, i)*mU.DNDX.At(0, j) + mU.DNDX.At(1, i)*mU.DNDX.At(1, j)) * w
				Ke.AddAt(2*i, 2*j, a)
				Ke.AddAt(2*i+1, 2*j+1, a)
			}
			for j := 0; j < nP; j++ {
				for k := 0; k < 2; k++ {
					b := -mU.DNDX.At(k, i) * mP.N[j] * w
					Ke.AddAt(2*i+k, 2*nU+j, b)
					Ke.AddAt(2*nU+j, 2*i+k, b)
				}
			}
		}
	}
	lmU = vectorMap(nU, [2]int{slots[0], slots[1]})
	lmP = make(fem.LocalMap, nP)
	for j := range lmP {
		lmP[j] = []fem.LocalDOF{{Slot: slots[2], Local: 2*nU + j}}
	}
	return
}

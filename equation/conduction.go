package equation

import (
	"fmt"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/utils"
)

// Conductivity is k(T) = K0 (1 + Beta T).
type Conductivity struct {
	K0, Beta float64
}

func (c Conductivity) K(T float64) float64  { return c.K0 * (1 + c.Beta*T) }
func (c Conductivity) DK(T float64) float64 { return c.K0 * c.Beta }

// Conduction1D returns the Newton tangent and the out of balance load of a
// two node conduction element at the current temperatures u. The flux is
// q = k(Tm)(Tj - Ti)/h with Tm the element mean temperature, which makes the
// tangent non-symmetric whenever Beta is not zero.
func Conduction1D(x [][]float64, element []int, slot int, c Conductivity, u fem.Field) (Ke utils.Matrix, Re []float64, lm fem.LocalMap) {
	if len(element) != 2 {
		panic(fmt.Errorf("conduction element needs 2 nodes, got %d", len(element)))
	}
	var (
		xe     = elementCoords(x, element)
		h      = xe[1][0] - xe[0][0]
		Ti, Tj = u[element[0]][slot], u[element[1]][slot]
		Tm     = 0.5 * (Ti + Tj)
		k, dk  = c.K(Tm), c.DK(Tm)
		q      = k * (Tj - Ti) / h
		dqdTi  = 0.5*dk*(Tj-Ti)/h - k/h
		dqdTj  = 0.5*dk*(Tj-Ti)/h + k/h
	)
	if h <= 0 {
		panic(fmt.Errorf("conduction element %v has non positive length %v", element, h))
	}
	// Internal nodal fluxes are (-q, q)
	Ke = utils.NewMatrix(2, 2, []float64{
		-dqdTi, -dqdTj,
		dqdTi, dqdTj,
	})
	Re = []float64{q, -q}
	lm = fem.LocalMap{{{Slot: slot, Local: 0}}, {{Slot: slot, Local: 1}}}
	return
}

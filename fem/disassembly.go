package fem

import (
	"fmt"
)

// Disassemble copies the solution x back into u for every numbered slot.
// Prescribed slots keep the values they held before the solve, except on
// periodic slaves, which take the prescribed value of their root.
func Disassemble(u Field, x []float64, dm *DOFMap) {
	if len(x) != dm.NDOF {
		panic(fmt.Errorf("solution has length %d, DOF map has %d equations", len(x), dm.NDOF))
	}
	u.checkShape(dm)
	for node, slots := range dm.NodeToGlobal {
		root := dm.Root(node)
		for slot, g := range slots {
			switch {
			case g != Fixed:
				u[node][slot] = x[g]
			case root != node:
				u[node][slot] = u[root][slot]
			}
		}
	}
}

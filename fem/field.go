package fem

import (
	"fmt"
)

// Field holds per-node, per-slot values: prescribed values before a solve
// and the solution after Disassemble.
type Field [][]float64

func NewField(nNodes, nSlots int) (f Field) {
	f = make(Field, nNodes)
	for i := range f {
		f[i] = make([]float64, nSlots)
	}
	return
}

// NewFieldFromMap allocates a zero field shaped like the DOF map.
func NewFieldFromMap(dm *DOFMap) (f Field) {
	f = make(Field, dm.Nodes())
	for i, slots := range dm.NodeToGlobal {
		f[i] = make([]float64, len(slots))
	}
	return
}

func (f Field) Copy() (R Field) { // Does not change receiver
	R = make(Field, len(f))
	for i, vals := range f {
		R[i] = make([]float64, len(vals))
		copy(R[i], vals)
	}
	return
}

func (f Field) Add(g Field) Field { // Changes receiver
	if len(f) != len(g) {
		panic(fmt.Errorf("field node count mismatch: %d and %d", len(f), len(g)))
	}
	for i := range f {
		if len(f[i]) != len(g[i]) {
			panic(fmt.Errorf("field slot count mismatch at node %d: %d and %d", i, len(f[i]), len(g[i])))
		}
		for j := range f[i] {
			f[i][j] += g[i][j]
		}
	}
	return f
}

// Gather collects the free slots of the field into a vector of length
// dm.NDOF, the inverse of Disassemble.
func (f Field) Gather(dm *DOFMap) (x []float64) {
	f.checkShape(dm)
	x = make([]float64, dm.NDOF)
	for node, slots := range dm.NodeToGlobal {
		for slot, g := range slots {
			if g != Fixed {
				x[g] = f[node][slot]
			}
		}
	}
	return
}

func (f Field) checkSlot(node, slot int) {
	if node < 0 || node >= len(f) {
		panic(fmt.Errorf("node %d out of range for field with %d nodes", node, len(f)))
	}
	if slot < 0 || slot >= len(f[node]) {
		panic(fmt.Errorf("slot %d out of range for field node %d with %d slots", slot, node, len(f[node])))
	}
}

func (f Field) checkShape(dm *DOFMap) {
	if len(f) != dm.Nodes() {
		panic(fmt.Errorf("field has %d nodes, DOF map has %d", len(f), dm.Nodes()))
	}
	for node, slots := range dm.NodeToGlobal {
		if len(f[node]) < len(slots) {
			panic(fmt.Errorf("field node %d has %d slots, DOF map needs %d", node, len(f[node]), len(slots)))
		}
	}
}

package fem

import (
	"fmt"

	"github.com/notargets/gofem/utils"
)

// Fixed marks a (node, slot) pair that is excluded from the global system,
// either because its value is prescribed or because it has not been numbered.
const Fixed = -1

// NodalValue addresses one DOF slot of one node together with a value: a
// prescribed Dirichlet value or a Neumann nodal load.
type NodalValue struct {
	Node, Slot int
	Value      float64
}

// PeriodicPair ties every slot of the Slave node to the same global
// equation as the corresponding slot of the Master node.
type PeriodicPair struct {
	Master, Slave int
}

// DOFMap translates (node, slot) to a global equation index or Fixed.
type DOFMap struct {
	NodeToGlobal [][]int
	NDOF         int // KDEGREE, valid after Renumber
	Periodic     []PeriodicPair
	roots        map[int]int // periodic slave to the node owning its equations
}

// NewDOFMap creates a map where every node carries nSlots free slots.
func NewDOFMap(nNodes, nSlots int) (dm *DOFMap) {
	slots := make([]int, nNodes)
	for i := range slots {
		slots[i] = nSlots
	}
	return NewDOFMapFromSlots(slots)
}

// NewDOFMapFromSlots creates a map with a per-node slot count, used by mixed
// field layouts such as velocity at every node and pressure at corner nodes.
func NewDOFMapFromSlots(slots []int) (dm *DOFMap) {
	dm = &DOFMap{
		NodeToGlobal: make([][]int, len(slots)),
	}
	for node, n := range slots {
		if n < 0 {
			panic(fmt.Errorf("negative slot count %d for node %d", n, node))
		}
		dm.NodeToGlobal[node] = make([]int, n)
	}
	return
}

func (dm *DOFMap) Nodes() int { return len(dm.NodeToGlobal) }

func (dm *DOFMap) Slots(node int) int {
	dm.checkNode(node)
	return len(dm.NodeToGlobal[node])
}

// Fix excludes (node, slot) from the system. Renumber must be called after
// the last Fix for the indices to be valid.
func (dm *DOFMap) Fix(node, slot int) {
	dm.checkSlot(node, slot)
	dm.NodeToGlobal[node][slot] = Fixed
}

// Prescribe fixes every listed slot and stores its value in u, the state
// later read by static condensation.
func (dm *DOFMap) Prescribe(u Field, bcs []NodalValue) {
	for _, bc := range bcs {
		dm.Fix(bc.Node, bc.Slot)
		u.checkSlot(bc.Node, bc.Slot)
		u[bc.Node][bc.Slot] = bc.Value
	}
}

func (dm *DOFMap) SetPeriodic(pairs []PeriodicPair) {
	for _, p := range pairs {
		dm.checkNode(p.Master)
		dm.checkNode(p.Slave)
		if p.Master == p.Slave {
			panic(fmt.Errorf("node %d is periodic with itself", p.Master))
		}
		if len(dm.NodeToGlobal[p.Master]) != len(dm.NodeToGlobal[p.Slave]) {
			panic(fmt.Errorf("periodic nodes %d and %d have different slot counts %d and %d",
				p.Master, p.Slave, len(dm.NodeToGlobal[p.Master]), len(dm.NodeToGlobal[p.Slave])))
		}
	}
	dm.Periodic = append(dm.Periodic, pairs...)
}

// Renumber assigns consecutive equation indices to the free slots in
// node-major, slot-minor order and returns their count. Periodic slaves are
// skipped and then alias their master's indices, so the assigned set is
// still exactly 0..NDOF-1.
func (dm *DOFMap) Renumber() int {
	var (
		masterOf = make(map[int]int, len(dm.Periodic))
	)
	for _, p := range dm.Periodic {
		if prev, ok := masterOf[p.Slave]; ok && prev != p.Master {
			panic(fmt.Errorf("node %d is a periodic slave of both %d and %d", p.Slave, prev, p.Master))
		}
		masterOf[p.Slave] = p.Master
	}
	dm.NDOF = renumber(dm.NodeToGlobal, func(node int) bool {
		_, isSlave := masterOf[node]
		return isSlave
	})
	dm.roots = make(map[int]int, len(masterOf))
	for slave := range masterOf {
		root := rootMaster(masterOf, slave)
		copy(dm.NodeToGlobal[slave], dm.NodeToGlobal[root])
		dm.roots[slave] = root
	}
	return dm.NDOF
}

// Root returns the node whose slots a periodic slave shares, the node itself
// otherwise. Prescribed values of aliased slots are read from the root.
func (dm *DOFMap) Root(node int) int {
	dm.checkNode(node)
	if root, ok := dm.roots[node]; ok {
		return root
	}
	return node
}

// Renumbering numbers the free (non Fixed) slots of nodeToGlobal in place and
// returns the number of equations.
func Renumbering(nodeToGlobal [][]int) (KDEGREE int) {
	return renumber(nodeToGlobal, nil)
}

func renumber(nodeToGlobal [][]int, skip func(node int) bool) (KDEGREE int) {
	for node, slots := range nodeToGlobal {
		if skip != nil && skip(node) {
			continue
		}
		for slot, g := range slots {
			if g != Fixed {
				slots[slot] = KDEGREE
				KDEGREE++
			}
		}
	}
	return
}

func rootMaster(masterOf map[int]int, slave int) (root int) {
	root = slave
	for steps := 0; ; steps++ {
		next, ok := masterOf[root]
		if !ok {
			return
		}
		if steps > len(masterOf) {
			panic(fmt.Errorf("periodic pairs form a cycle through node %d", slave))
		}
		root = next
	}
}

// Global returns the equation index of (node, slot), or Fixed.
func (dm *DOFMap) Global(node, slot int) int {
	dm.checkSlot(node, slot)
	return dm.NodeToGlobal[node][slot]
}

// Equations translates nodal values into equation indices and values for
// the penalty path, where prescribed slots stay in the system.
func (dm *DOFMap) Equations(bcs []NodalValue) (idx utils.Index, vals []float64) {
	idx = utils.NewIndex(len(bcs))
	vals = make([]float64, len(bcs))
	for i, bc := range bcs {
		g := dm.Global(bc.Node, bc.Slot)
		if g == Fixed {
			panic(fmt.Errorf("node %d slot %d is eliminated and has no equation", bc.Node, bc.Slot))
		}
		idx[i], vals[i] = g, bc.Value
	}
	return
}

func (dm *DOFMap) checkNode(node int) {
	if node < 0 || node >= len(dm.NodeToGlobal) {
		panic(fmt.Errorf("node %d out of range for DOF map with %d nodes", node, len(dm.NodeToGlobal)))
	}
}

func (dm *DOFMap) checkSlot(node, slot int) {
	dm.checkNode(node)
	if slot < 0 || slot >= len(dm.NodeToGlobal[node]) {
		panic(fmt.Errorf("slot %d out of range for node %d with %d slots", slot, node, len(dm.NodeToGlobal[node])))
	}
}

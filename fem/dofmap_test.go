package fem

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenumbering(t *testing.T) {
	nodeToGlobal := [][]int{
		{0, Fixed},
		{0, 0},
		{Fixed, Fixed},
		{7, 0}, // stale indices are overwritten
	}
	KDEGREE := Renumbering(nodeToGlobal)
	assert.Equal(t, 5, KDEGREE)
	assert.Equal(t, [][]int{
		{0, Fixed},
		{1, 2},
		{Fixed, Fixed},
		{3, 4},
	}, nodeToGlobal)
	// Stable when reapplied
	assert.Equal(t, 5, Renumbering(nodeToGlobal))
	assert.Equal(t, []int{3, 4}, nodeToGlobal[3])
}

// assigned returns the sorted indices held by non-Fixed slots, counting each
// aliased periodic index once.
func assigned(dm *DOFMap) (idx []int) {
	seen := make(map[int]bool)
	for _, slots := range dm.NodeToGlobal {
		for _, g := range slots {
			if g != Fixed && !seen[g] {
				seen[g] = true
				idx = append(idx, g)
			}
		}
	}
	sort.Ints(idx)
	return
}

func TestDOFMap(t *testing.T) {
	// Mixed slot counts, consecutive indices without gaps
	{
		dm := NewDOFMapFromSlots([]int{3, 2, 3, 2})
		dm.Fix(1, 1)
		dm.Fix(2, 2)
		assert.Equal(t, 8, dm.Renumber())
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, assigned(dm))
		assert.Equal(t, Fixed, dm.Global(1, 1))
		assert.Equal(t, 3, dm.Global(1, 0))
		assert.Equal(t, 2, dm.Slots(3))
		assert.Equal(t, 4, dm.Nodes())
	}
	// Prescribe fixes the slot and stores the value
	{
		dm := NewDOFMap(2, 2)
		u := NewFieldFromMap(dm)
		dm.Prescribe(u, []NodalValue{{Node: 1, Slot: 0, Value: 0.25}})
		assert.Equal(t, 3, dm.Renumber())
		assert.Equal(t, 0.25, u[1][0])
		assert.Equal(t, Fixed, dm.Global(1, 0))
	}
	// Equations for the penalty path
	{
		dm := NewDOFMap(3, 2)
		dm.Fix(0, 0)
		dm.Renumber()
		idx, vals := dm.Equations([]NodalValue{{2, 1, 3.}, {0, 1, 1.}})
		assert.Equal(t, []int{4, 0}, []int(idx))
		assert.Equal(t, []float64{3, 1}, vals)
		assert.Panics(t, func() { dm.Equations([]NodalValue{{0, 0, 1.}}) })
	}
}

func TestDOFMapPeriodic(t *testing.T) {
	// Slave slots alias the master, indices stay dense
	{
		dm := NewDOFMap(4, 2)
		dm.Fix(1, 0)
		dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 3}})
		assert.Equal(t, 5, dm.Renumber())
		assert.Equal(t, [][]int{
			{0, 1},
			{Fixed, 2},
			{3, 4},
			{0, 1},
		}, dm.NodeToGlobal)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, assigned(dm))
		// Idempotent
		assert.Equal(t, 5, dm.Renumber())
		assert.Equal(t, []int{0, 1}, dm.NodeToGlobal[3])
	}
	// Chains resolve to the root master, a fixed master fixes the slave
	{
		dm := NewDOFMap(4, 2)
		dm.Fix(0, 1)
		dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 3}, {Master: 3, Slave: 2}})
		assert.Equal(t, 3, dm.Renumber())
		assert.Equal(t, [][]int{
			{0, Fixed},
			{1, 2},
			{0, Fixed},
			{0, Fixed},
		}, dm.NodeToGlobal)
	}
	// Contract violations
	{
		dm := NewDOFMapFromSlots([]int{2, 3, 2})
		assert.Panics(t, func() { dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 1}}) })
		assert.Panics(t, func() { dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 0}}) })
		assert.Panics(t, func() { dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 5}}) })
		dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 2}, {Master: 2, Slave: 0}})
		assert.Panics(t, func() { dm.Renumber() })
	}
	{
		dm := NewDOFMap(3, 1)
		dm.SetPeriodic([]PeriodicPair{{Master: 0, Slave: 2}, {Master: 1, Slave: 2}})
		assert.Panics(t, func() { dm.Renumber() })
	}
}

func TestDOFMapBounds(t *testing.T) {
	dm := NewDOFMap(2, 2)
	assert.Panics(t, func() { dm.Global(2, 0) })
	assert.Panics(t, func() { dm.Global(0, 2) })
	assert.Panics(t, func() { dm.Fix(-1, 0) })
	assert.Panics(t, func() { NewDOFMapFromSlots([]int{1, -1}) })
}

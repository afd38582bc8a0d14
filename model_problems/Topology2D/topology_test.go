package Topology2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/model_problems/Elastic2D"
	"github.com/notargets/gofem/types"
)

func cantilever(loadCases int) *Elastic2D.Elastic {
	var (
		grid     = geometry2D.NewRectangle(6, 3, 2, 1, geometry2D.Q4)
		supports = Elastic2D.SideSupports(grid, geometry2D.Left, []int{0, 1}, 0)
		cases    = [][]fem.NodalValue{
			{{Node: grid.Nearest([]float64{2, 0}), Slot: 1, Value: -1}},
			{{Node: grid.Nearest([]float64{2, 1}), Slot: 1, Value: 1}},
		}
	)
	m := Elastic2D.NewElastic(grid, 1, 0.3, 1, supports, cases[:loadCases])
	m.SolverSettings.MaxIterations = 1000
	return m
}

func TestTopologyObjective(t *testing.T) {
	tp := NewTopology(cantilever(1), 0.5, 0)
	obj, err := tp.Iterate()
	require.NoError(t, err)
	require.Len(t, tp.Model.Results, 1)
	assert.InDelta(t, tp.Model.Results[0].Compliance, obj, 1.e-8*obj)
	assert.Equal(t, tp.Material.Young(0.5), tp.Model.ElementE[0])
}

func TestTopologyRun(t *testing.T) {
	for _, optimizer := range []types.Optimizer{types.OptimalityCriteria, types.MovingAsymptotes} {
		for _, radius := range []float64{0, 0.5} {
			for _, cases := range []int{1, 2} {
				tp := NewTopology(cantilever(cases), 0.4, radius)
				tp.Optimizer = optimizer
				tp.MaxIterations = 15
				n, err := tp.Run()
				require.NoError(t, err)
				require.Equal(t, n, len(tp.History))
				assert.Less(t, tp.History[n-1], tp.History[0], "%s, radius %v, %d load cases", optimizer, radius, cases)
				for _, s := range tp.S {
					assert.GreaterOrEqual(t, s, 0.)
					assert.LessOrEqual(t, s, 1.)
				}
				// The limit holds for the physical densities
				if optimizer == types.OptimalityCriteria {
					assert.InDelta(t, 0.4, mean(tp.Densities()), 1.e-4)
					assert.Nil(t, tp.MMA)
				} else {
					assert.InDelta(t, 0.4, mean(tp.Densities()), 1.e-2)
					require.NotNil(t, tp.MMA)
					assert.Equal(t, n, tp.MMA.Iterations)
				}
				if radius > 0 {
					assert.NotNil(t, tp.Filter)
				}
			}
		}
	}
	assert.Panics(t, func() { NewTopology(cantilever(1), 0, 0) })
}

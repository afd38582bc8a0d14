package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cantilever = []byte(`
Title: "Cantilever"
Analysis: topology
Dirichlet: penalty
Mesh:
  NX: 6
  NY: 3
  LX: 2
  LY: 1
  Element: Q4
Material:
  Young: 1
  Poisson: 0.3
  BodyForce: [0, -0.1]
Solver:
  Method: ScalingCG
  Tolerance: 1.e-9
Supports:
  - Side: left
    Slots: [0, 1]
LoadCases:
  - - At: [2, 0]
      Slot: 1
      Value: -1
  - - At: [2, 1]
      Slot: 1
      Value: 1
Topology:
  VolumeFraction: 0.4
  FilterRadius: 0.5
  Optimizer: mma
`)

func TestParse(t *testing.T) {
	var ip InputParameters
	require.NoError(t, ip.Parse(cantilever))
	assert.Equal(t, "Cantilever", ip.Title)
	assert.Equal(t, 6, ip.Mesh.NX)
	assert.Equal(t, [2]float64{0, -0.1}, ip.Material.BodyForce)
	assert.Equal(t, "Q4", ip.Mesh.Element)
	assert.Equal(t, 1.e-9, ip.Solver.Tolerance)
	require.Len(t, ip.Supports, 1)
	assert.Equal(t, []int{0, 1}, ip.Supports[0].Slots)
	require.Len(t, ip.LoadCases, 2)
	assert.Equal(t, PointLoad{At: []float64{2, 1}, Slot: 1, Value: 1}, ip.LoadCases[1][0])
	assert.Equal(t, 0.4, ip.Topology.VolumeFraction)
	assert.Equal(t, "mma", ip.Topology.Optimizer)
	// Defaults
	assert.Equal(t, 1.e10, ip.Penalty)
	assert.Equal(t, 1., ip.Material.Thickness)
	assert.Equal(t, 3, ip.Topology.Penalization)
	assert.Equal(t, 100, ip.Topology.Iterations)
	ip.Print()
}

func TestValidate(t *testing.T) {
	bad := [][]byte{
		[]byte("Analysis: euler\n"),
		[]byte("Analysis: elastic\nMesh: {NX: 1, NY: 1, LX: 1, LY: 1, Element: Q9}\n"),
		[]byte("Analysis: elastic\nMesh: {NX: 0, NY: 1, LX: 1, LY: 1}\nMaterial: {Young: 1}\n"),
		[]byte("Analysis: elastic\nMesh: {NX: 1, NY: 1, LX: 1, LY: 1}\nMaterial: {Young: 1}\n"),
		[]byte("Analysis: elastic\nSolver: {Method: gmres}\n"),
		[]byte("Analysis: conduction\nConduction: {Elements: 4, Length: 0, K0: 1}\n"),
		[]byte("Analysis: stokes\nMesh: {NX: 1, NY: 1, LX: 1, LY: 1, Element: Q8}\nStokes: {Flow: couette}\n"),
		[]byte("Analysis: topology\nMesh: {NX: 1, NY: 1, LX: 1, LY: 1}\nMaterial: {Young: 1}\n" +
			"LoadCases: [[{At: [1, 1], Slot: 1, Value: 1}]]\nTopology: {VolumeFraction: 1.5}\n"),
		[]byte("Analysis: topology\nMesh: {NX: 1, NY: 1, LX: 1, LY: 1}\nMaterial: {Young: 1}\n" +
			"LoadCases: [[{At: [1, 1], Slot: 1, Value: 1}]]\nTopology: {VolumeFraction: 0.5, Optimizer: sqp}\n"),
		[]byte("not: [valid"),
	}
	for i, data := range bad {
		var ip InputParameters
		assert.Error(t, ip.Parse(data), "case %d", i)
	}
	var ip InputParameters
	assert.NoError(t, ip.Parse([]byte("Analysis: conduction\nConduction: {Elements: 4, Length: 1, K0: 1, TRight: 2}\n")))
	assert.Equal(t, 20, ip.Conduction.NewtonIterations)
	ip.Print()
	ip = InputParameters{}
	assert.NoError(t, ip.Parse([]byte("Analysis: stokes\nMesh: {NX: 2, NY: 2, LX: 1, LY: 1, Element: Q8}\n")))
	assert.Equal(t, "cavity", ip.Stokes.Flow)
}

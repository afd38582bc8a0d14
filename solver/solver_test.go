package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofem/utils"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func newCSR(n int, data []float64) utils.CSR {
	K := utils.NewDOK(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := data[i*n+j]; v != 0 {
				K.Set(i, j, v)
			}
		}
	}
	return K.ToCSR()
}

func denseSolve(t *testing.T, n int, data, b []float64) []float64 {
	var x mat.VecDense
	require.NoError(t, x.SolveVec(mat.NewDense(n, n, data), mat.NewVecDense(n, b)))
	return x.RawVector().Data
}

func TestCG(t *testing.T) {
	// Diagonal SPD system
	{
		A := newCSR(2, []float64{4, 0, 0, 9})
		res := CG(A, []float64{8, 18}, Settings{Tolerance: 1.e-10})
		assert.True(t, res.Stats.Converged)
		assert.LessOrEqual(t, res.Stats.Iterations, 2)
		assert.True(t, near(res.X[0], 2, 1.e-10))
		assert.True(t, near(res.X[1], 2, 1.e-10))
		assert.Less(t, res.Stats.ResidualNorm, 1.e-10)
	}
	// Coupled SPD system against a dense solve
	{
		data := []float64{
			4, -1, 0, 0,
			-1, 4, -1, 0,
			0, -1, 4, -1,
			0, 0, -1, 3,
		}
		b := []float64{1, 2, 0, 1}
		res := CG(newCSR(4, data), b, Settings{})
		xd := denseSolve(t, 4, data, b)
		assert.True(t, res.Stats.Converged)
		for i := range xd {
			assert.True(t, near(res.X[i], xd[i], 1.e-10))
		}
		assert.Equal(t, res.Stats.Iterations, res.Stats.MatVec)
	}
	// Budget exhausted: last iterate, no error
	{
		data := []float64{
			1, 0, 0,
			0, 10, 0,
			0, 0, 100,
		}
		res := CG(newCSR(3, data), []float64{1, 1, 1}, Settings{MaxIterations: 1, Tolerance: 1.e-12})
		assert.False(t, res.Stats.Converged)
		assert.Equal(t, 1, res.Stats.Iterations)
		assert.Greater(t, res.Stats.ResidualNorm, 1.e-12)
		assert.Len(t, res.X, 3)
	}
	// Zero load, and a warm start at the solution, need no iterations
	{
		A := newCSR(2, []float64{4, 0, 0, 9})
		res := CG(A, []float64{0, 0}, Settings{})
		assert.True(t, res.Stats.Converged)
		assert.Equal(t, 0, res.Stats.Iterations)
		assert.Equal(t, []float64{0, 0}, res.X)
		x0 := []float64{2, 2}
		res = CG(A, []float64{8, 18}, Settings{X0: x0})
		assert.True(t, res.Stats.Converged)
		assert.Equal(t, 0, res.Stats.Iterations)
		assert.Equal(t, 1, res.Stats.MatVec)
		assert.Equal(t, x0, res.X)
		res.X[0] = 5
		assert.Equal(t, 2., x0[0])
	}
	// Contract violations
	{
		A := newCSR(2, []float64{4, 0, 0, 9})
		assert.Panics(t, func() { CG(A, []float64{1}, Settings{}) })
		assert.Panics(t, func() { CG(A, []float64{1, 1}, Settings{X0: []float64{1}}) })
	}
}

func TestScalingCG(t *testing.T) {
	// Penalty scaled first row
	{
		data := []float64{
			2.e8, -1, 0,
			-1, 2, -1,
			0, -1, 2,
		}
		b := []float64{2.e8 * 0.5, 0, 1}
		res := ScalingCG(newCSR(3, data), b, Settings{Tolerance: 1.e-6, MaxIterations: 50})
		xd := denseSolve(t, 3, data, b)
		assert.True(t, res.Stats.Converged)
		for i := range xd {
			assert.True(t, near(res.X[i], xd[i], 1.e-8))
		}
	}
	// A zero diagonal is scaled by one
	{
		res := ScalingCG(newCSR(2, []float64{0, 1, 1, 0}), []float64{1, 2}, Settings{})
		assert.False(t, utils.IsNan(res.X))
		assert.True(t, near(res.X[0], 2, 1.e-12))
		assert.True(t, near(res.X[1], 1, 1.e-12))
	}
}

func TestBiCGSTAB(t *testing.T) {
	// Non-symmetric, diagonally dominant system against a dense solve
	{
		data := []float64{
			4, 1, 0,
			-1, 3, 1,
			0, -2, 5,
		}
		b := []float64{1, 2, 3}
		res := BiCGSTAB(newCSR(3, data), b, Settings{MaxIterations: 50})
		xd := denseSolve(t, 3, data, b)
		assert.True(t, res.Stats.Converged)
		for i := range xd {
			assert.True(t, near(res.X[i], xd[i], 1.e-9))
		}
	}
	// Larger non-symmetric convection-diffusion like band
	{
		n := 20
		data := make([]float64, n*n)
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			data[i*n+i] = 3
			if i > 0 {
				data[i*n+i-1] = -1.5
			}
			if i < n-1 {
				data[i*n+i+1] = -0.5
			}
			b[i] = float64(i%3) - 1
		}
		res := Solve(MethodBiCGSTAB, newCSR(n, data), b, Settings{MaxIterations: 200})
		xd := denseSolve(t, n, data, b)
		assert.True(t, res.Stats.Converged)
		for i := range xd {
			assert.True(t, near(res.X[i], xd[i], 1.e-9))
		}
	}
}

func TestMethod(t *testing.T) {
	for label, expected := range map[string]Method{
		"CG":        MethodCG,
		"scalingcg": MethodScalingCG,
		" BiCGSTAB": MethodBiCGSTAB,
		"":          MethodCG,
	} {
		m, err := NewMethod(label)
		require.NoError(t, err)
		assert.Equal(t, expected, m)
	}
	_, err := NewMethod("gmres")
	assert.Error(t, err)
	assert.Equal(t, "ScalingCG", MethodScalingCG.String())

	A := newCSR(2, []float64{4, 0, 0, 9})
	for _, m := range []Method{MethodCG, MethodScalingCG, MethodBiCGSTAB} {
		res := Solve(m, A, []float64{8, 18}, Settings{})
		assert.True(t, res.Stats.Converged, m.String())
		assert.True(t, near(res.X[0], 2, 1.e-10), m.String())
		assert.True(t, near(res.X[1], 2, 1.e-10), m.String())
	}
	assert.Panics(t, func() { Solve(Method(9), A, []float64{8, 18}, Settings{}) })
}

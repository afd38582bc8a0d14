package equation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/shape"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/utils"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// top88KE is the closed form bilinear plane stress stiffness of a unit
// square, nodes counter-clockwise from the lower left corner.
func top88KE(E, nu float64) (KE utils.Matrix) {
	k := []float64{
		1./2. - nu/6., 1./8. + nu/8., -1./4. - nu/12., -1./8. + 3.*nu/8.,
		-1./4. + nu/12., -1./8. - nu/8., nu / 6., 1./8. - 3.*nu/8.,
	}
	order := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{1, 0, 7, 6, 5, 4, 3, 2},
		{2, 7, 0, 5, 6, 3, 4, 1},
		{3, 6, 5, 0, 7, 2, 1, 4},
		{4, 5, 6, 7, 0, 1, 2, 3},
		{5, 4, 3, 2, 1, 0, 7, 6},
		{6, 3, 4, 1, 2, 7, 0, 5},
		{7, 2, 1, 4, 3, 6, 5, 0},
	}
	KE = utils.NewMatrix(8, 8)
	for i, row := range order {
		for j, n := range row {
			KE.Set(i, j, k[n]*E/(1-nu*nu))
		}
	}
	return
}

var unitSquare = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func TestPlaneStrain(t *testing.T) {
	var (
		E, nu = 210., 0.3
	)
	Ke, lm := PlaneStrain(shape.Quad4{}, shape.GaussSquare(2), unitSquare, []int{0, 1, 2, 3}, [2]int{0, 1}, E, nu, 1)
	// Plane strain equals plane stress with E/(1-nu^2) and nu/(1-nu)
	ref := top88KE(E/(1-nu*nu), nu/(1-nu))
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			assert.True(t, near(Ke.At(i, j), ref.At(i, j), 1.e-10), "Ke[%d][%d] = %v, expected %v", i, j, Ke.At(i, j), ref.At(i, j))
		}
	}
	assert.True(t, Ke.IsSymmetric(1.e-10))
	assert.Equal(t, fem.LocalDOF{Slot: 1, Local: 5}, lm[2][1])
	// Rigid body translation and rotation produce no forces
	for _, mode := range [][]float64{
		{1, 0, 1, 0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0, 1, 0, 1},
		{0, 0, 0, 1, -1, 1, -1, 0}, // (-y, x)
	} {
		for _, f := range Ke.MulVec(mode) {
			assert.True(t, near(f, 0, 1.e-10))
		}
	}
	// Plane stress D against the same closed form
	Ks, _ := PlaneStiffness(shape.Quad4{}, shape.GaussSquare(2), unitSquare, []int{0, 1, 2, 3}, [2]int{0, 1}, PlaneStressD(E, nu), 1)
	refS := top88KE(E, nu)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			assert.True(t, near(Ks.At(i, j), refS.At(i, j), 1.e-10))
		}
	}
	// Thickness scales linearly
	K2, _ := PlaneStrain(shape.Quad4{}, shape.GaussSquare(2), unitSquare, []int{0, 1, 2, 3}, [2]int{0, 1}, E, nu, 2)
	assert.True(t, near(K2.At(3, 3), 2*Ke.At(3, 3), 1.e-10))
	// Elements out of the node range are rejected
	assert.Panics(t, func() {
		PlaneStrain(shape.Quad4{}, shape.GaussSquare(2), unitSquare, []int{0, 1, 2, 4}, [2]int{0, 1}, E, nu, 1)
	})
}

func TestSingleElementSolve(t *testing.T) {
	var (
		E, nu   = 210., 0.3
		element = []int{0, 1, 2, 3}
		dm      = fem.NewDOFMap(4, 2)
		u       = fem.NewField(4, 2)
	)
	// Left edge clamped, downward point load on the lower right node
	dm.Prescribe(u, []fem.NodalValue{{Node: 0, Slot: 0}, {Node: 0, Slot: 1}, {Node: 3, Slot: 0}, {Node: 3, Slot: 1}})
	require.Equal(t, 4, dm.Renumber())
	Ke, lm := PlaneStrain(shape.Quad4{}, shape.GaussSquare(2), unitSquare, element, [2]int{0, 1}, E, nu, 1)
	sys := fem.NewSystem(4)
	sys.Assemble(Ke, nil, u, dm, lm, element)
	sys.AssembleNeumann([]fem.NodalValue{{Node: 1, Slot: 1, Value: -1}}, dm)
	res := solver.CG(sys.Compress(), sys.F, solver.Settings{})
	require.True(t, res.Stats.Converged)
	fem.Disassemble(u, res.X, dm)
	// Reference from the closed form stiffness restricted to nodes 1 and 2
	ref := top88KE(E/(1-nu*nu), nu/(1-nu))
	A := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			A.Set(i, j, ref.At(2+i, 2+j))
		}
	}
	var x mat.VecDense
	require.NoError(t, x.SolveVec(A, mat.NewVecDense(4, []float64{0, -1, 0, 0})))
	for i := 0; i < 4; i++ {
		assert.True(t, near(res.X[i], x.AtVec(i), 1.e-9), "x[%d] = %v, expected %v", i, res.X[i], x.AtVec(i))
	}
	assert.Less(t, u[1][1], 0.)
	assert.Equal(t, []float64{0, 0}, u[0])
	assert.Equal(t, []float64{0, 0}, u[3])
}

func TestPlaneStrainLoadsAndStress(t *testing.T) {
	var (
		E, nu   = 100., 0.25
		element = []int{0, 1, 2, 3}
	)
	Fe, _ := PlaneStrainBodyForce(shape.Quad4{}, shape.GaussSquare(2), unitSquare, element, [2]int{0, 1}, [2]float64{0, -2}, 1)
	for n := 0; n < 4; n++ {
		assert.True(t, near(Fe[2*n], 0, 1.e-14))
		assert.True(t, near(Fe[2*n+1], -0.5, 1.e-14))
	}
	// Uniform strain exx = 0.01 from u = 0.01 x
	u := fem.NewField(4, 2)
	for i, xi := range unitSquare {
		u[i][0] = 0.01 * xi[0]
	}
	sigma := PlaneStrainStress(shape.Quad4{}, []float64{0.2, -0.5}, unitSquare, element, [2]int{0, 1}, E, nu, u)
	D := PlaneStrainD(E, nu)
	assert.True(t, near(sigma[0], 0.01*D.At(0, 0), 1.e-12))
	assert.True(t, near(sigma[1], 0.01*D.At(1, 0), 1.e-12))
	assert.True(t, near(sigma[2], 0, 1.e-12))
}

func TestHomogenize(t *testing.T) {
	var (
		D       = PlaneStrainD(10, 0.3)
		element = []int{0, 1, 2, 3}
		q       = shape.GaussSquare(2)
	)
	Fes, lm := HomogenizeBodyForce(shape.Quad4{}, q, unitSquare, element, [2]int{0, 1}, D, 1)
	nr, nc := Fes.Dims()
	assert.Equal(t, 8, nr)
	assert.Equal(t, 3, nc)
	assert.Len(t, lm, 4)
	// Self equilibrated: the loads of each unit strain sum to zero
	for k := 0; k < 3; k++ {
		var fx, fy float64
		col := Column(Fes, k)
		for n := 0; n < 4; n++ {
			fx += col[2*n]
			fy += col[2*n+1]
		}
		assert.True(t, near(fx, 0, 1.e-12))
		assert.True(t, near(fy, 0, 1.e-12))
	}
	// No characteristic displacement leaves D times the area
	chi := [3]fem.Field{fem.NewField(4, 2), fem.NewField(4, 2), fem.NewField(4, 2)}
	CH := HomogenizeConstitutive(shape.Quad4{}, q, unitSquare, element, [2]int{0, 1}, D, 1, chi)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.True(t, near(CH.At(i, j), D.At(i, j), 1.e-12))
		}
	}
}

func TestWeakSpring(t *testing.T) {
	Ke, lm := WeakSpring([]int{4, 5, 6}, [2]int{0, 1}, 1.e-9)
	nr, _ := Ke.Dims()
	assert.Equal(t, 6, nr)
	assert.Equal(t, 1.e-9, Ke.At(3, 3))
	assert.Equal(t, 0., Ke.At(3, 2))
	assert.Len(t, lm, 3)
}

func TestStokes(t *testing.T) {
	var (
		x = [][]float64{
			{0, 0}, {2, 0}, {2, 1}, {0, 1},
			{1, 0}, {2, 0.5}, {1, 1}, {0, 0.5},
		}
		elementU = []int{0, 1, 2, 3, 4, 5, 6, 7}
		elementP = []int{0, 1, 2, 3}
	)
	Ke, lmU, lmP := Stokes(shape.Quad8{}, shape.Quad4{}, shape.GaussSquare(3), x, elementU, elementP, [3]int{0, 1, 2}, 0.5)
	n, _ := Ke.Dims()
	require.Equal(t, 20, n)
	assert.True(t, Ke.IsSymmetric(1.e-12))
	for i := 16; i < 20; i++ {
		for j := 16; j < 20; j++ {
			assert.Equal(t, 0., Ke.At(i, j))
		}
	}
	assert.Len(t, lmU, 8)
	assert.Equal(t, []fem.LocalDOF{{Slot: 2, Local: 18}}, lmP[2])
	// A uniform flow with zero pressure is in equilibrium
	xs := make([]float64, n)
	for i := 0; i < 8; i++ {
		xs[2*i] = 1
	}
	for _, f := range Ke.MulVec(xs) {
		assert.True(t, near(f, 0, 1.e-12))
	}
	// Velocity gradients sum to zero, and so does the coupling block
	var total float64
	for i := 0; i < 16; i++ {
		for j := 16; j < 20; j++ {
			total += Ke.At(i, j)
		}
	}
	assert.True(t, near(total, 0, 1.e-12))
	assert.Panics(t, func() {
		Stokes(shape.Quad8{}, shape.Quad4{}, shape.GaussSquare(3), x, elementP, elementP, [3]int{0, 1, 2}, 1)
	})
}

func TestConduction1D(t *testing.T) {
	var (
		x       = [][]float64{{0}, {0.5}}
		element = []int{0, 1}
		c       = Conductivity{K0: 2, Beta: 0.3}
	)
	// Linear conductivity reduces to the symmetric conduction matrix
	{
		u := fem.NewField(2, 1)
		Ke, Re, lm := Conduction1D(x, element, 0, Conductivity{K0: 2}, u)
		assert.Equal(t, []float64{4, -4, -4, 4}, Ke.Data())
		assert.Equal(t, []float64{0, 0}, Re)
		assert.Len(t, lm, 2)
	}
	// Tangent matches finite differences of the internal fluxes
	{
		u := fem.Field{{1.0}, {2.5}}
		Ke, Re, _ := Conduction1D(x, element, 0, c, u)
		assert.False(t, Ke.IsSymmetric(1.e-6))
		h := 1.e-6
		for j := 0; j < 2; j++ {
			up, um := u.Copy(), u.Copy()
			up[j][0] += h
			um[j][0] -= h
			_, Rp, _ := Conduction1D(x, element, 0, c, up)
			_, Rm, _ := Conduction1D(x, element, 0, c, um)
			for i := 0; i < 2; i++ {
				// Re is the negative internal flux
				fd := -(Rp[i] - Rm[i]) / (2 * h)
				assert.True(t, near(Ke.At(i, j), fd, 1.e-6), "K[%d][%d] = %v, fd = %v", i, j, Ke.At(i, j), fd)
			}
		}
		assert.True(t, near(Re[0]+Re[1], 0, 1.e-14))
	}
	assert.Panics(t, func() { Conduction1D([][]float64{{1}, {0}}, element, 0, c, fem.NewField(2, 1)) })
	assert.Panics(t, func() { Conduction1D(x, []int{0}, 0, c, fem.NewField(2, 1)) })
}

package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-major dense matrix value used for element level algebra
// (local stiffness, Jacobians, strain-displacement and constitutive matrices).
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func NewIdentity(n int) (R Matrix) {
	R = NewMatrix(n, n)
	for i := 0; i < n; i++ {
		R.M.Set(i, i, 1)
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.M.RawMatrix().Data }

// Chainable methods
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.Data())
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
	)
	R = NewMatrix(nc, nr)
	dataR := R.Data()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			dataR[j*nr+i] = data[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, ncM = m.Dims()
		nrA, ncA = A.Dims()
	)
	if ncM != nrA {
		panic(fmt.Errorf("dimension mismatch in Mul: [%d x %d] * [%d x %d]", nrM, ncM, nrA, ncA))
	}
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

// MulVec returns m * x as a new slice.
func (m Matrix) MulVec(x []float64) (y []float64) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch in MulVec: [%d x %d] * [%d]", nr, nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		row := data[i*nc : (i+1)*nc]
		var sum float64
		for j, val := range row {
			sum += val * x[j]
		}
		y[i] = sum
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkBounds(i, j)
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// AddAt accumulates val into entry (i,j).
func (m Matrix) AddAt(i, j int, val float64) Matrix { // Changes receiver
	m.checkBounds(i, j)
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A, "Add")
	m.checkWritable()
	for i, val := range dataA {
		dataM[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A, "Subtract")
	m.checkWritable()
	for i, val := range dataA {
		dataM[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	m.checkWritable()
	for i := range data {
		data[i] *= a
	}
	return m
}

// Non chainable methods
func (m Matrix) Det() float64 {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		panic(fmt.Errorf("determinant of non-square matrix [%d x %d]", nr, nc))
	}
	switch nr {
	case 1:
		return m.At(0, 0)
	case 2:
		return m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
	}
	return mat.Det(m.M)
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert non-square matrix [%d x %d]", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

func (m Matrix) IsSymmetric(tol float64) bool {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = ""
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%v\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) checkBounds(i, j int) {
	var (
		nr, nc = m.Dims()
	)
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index (%d,%d) out of bounds for [%d x %d] matrix", i, j, nr, nc))
	}
}

func (m Matrix) checkSameDims(A Matrix, op string) {
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA || nc != ncA {
		panic(fmt.Errorf("dimension mismatch in %s: [%d x %d] and [%d x %d]", op, nr, nc, nrA, ncA))
	}
}

package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is the mutable store for a global sparse system. Entries are keyed by
// (row, col) so lookups and accumulation are amortized O(1) regardless of the
// order in which elements are assembled.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R *DOK) {
	R = &DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m *DOK) Dims() (r, c int) { return m.M.Dims() }
func (m *DOK) At(i, j int) float64 {
	m.checkBounds(i, j)
	return m.M.At(i, j)
}
func (m *DOK) T() mat.Matrix { return m.M.T() }
func (m *DOK) NNZ() int      { return m.M.NNZ() }

// Get returns the stored value at (i,j), zero when nothing was stored.
func (m *DOK) Get(i, j int) float64 {
	m.checkBounds(i, j)
	return m.M.At(i, j)
}

// Set overwrites the value at (i,j).
func (m *DOK) Set(i, j int, val float64) {
	m.checkBounds(i, j)
	m.checkWritable()
	m.M.Set(i, j, val)
}

// Add accumulates val into (i,j).
func (m *DOK) Add(i, j int, val float64) {
	m.Set(i, j, m.Get(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) *DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

// ToCSR compresses the accumulated entries into an immutable row-wise view.
func (m *DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

func (m *DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m *DOK) checkBounds(i, j int) {
	var (
		nr, nc = m.Dims()
	)
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index (%d,%d) out of range for sparse matrix [%d x %d]", i, j, nr, nc))
	}
}

// CSR is the compressed read view of an assembled system, used only by the
// iterative solvers. It has no mutators; more contributions require a new
// DOK and another ToCSR.
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64               { return m.RawMatrix().Data }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

func (m CSR) Rows() int {
	nr, _ := m.Dims()
	return nr
}

// MulVec computes dst = A*x one compressed row at a time.
func (m CSR) MulVec(dst, x []float64) {
	var (
		raw = m.RawMatrix()
	)
	if len(x) != raw.J || len(dst) != raw.I {
		panic(fmt.Errorf("dimension mismatch in MulVec: [%d x %d] * [%d] -> [%d]", raw.I, raw.J, len(x), len(dst)))
	}
	for i := 0; i < raw.I; i++ {
		var sum float64
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			sum += raw.Data[k] * x[raw.Ind[k]]
		}
		dst[i] = sum
	}
}

func (m CSR) Diagonal() (diag []float64) {
	var (
		raw = m.RawMatrix()
	)
	diag = make([]float64, raw.I)
	for i := 0; i < raw.I; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			if raw.Ind[k] == i {
				diag[i] += raw.Data[k]
			}
		}
	}
	return
}

// ToDense expands the view, intended for debugging and small reference solves.
func (m CSR) ToDense() (R Matrix) {
	var (
		raw = m.RawMatrix()
	)
	R = NewMatrix(raw.I, raw.J)
	for i := 0; i < raw.I; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			R.AddAt(i, raw.Ind[k], raw.Data[k])
		}
	}
	return
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOK(t *testing.T) {
	// Accumulation by read-modify-write, absent entries read as zero
	{
		K := NewDOK(3, 3)
		assert.Equal(t, 0., K.Get(1, 2))
		K.Add(1, 2, 1.5)
		K.Add(1, 2, 2.5)
		K.Set(0, 0, 7)
		K.Set(0, 0, 3)
		assert.Equal(t, 4., K.Get(1, 2))
		assert.Equal(t, 3., K.Get(0, 0))
		assert.Equal(t, 2, K.NNZ())
		nr, nc := K.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 3, nc)
	}
	// Out of order insertion yields identical stores
	{
		A, B := NewDOK(4, 4), NewDOK(4, 4)
		entries := [][3]float64{{0, 0, 1}, {3, 1, 2}, {1, 3, -1}, {0, 0, 4}, {2, 2, 5}}
		for _, e := range entries {
			A.Add(int(e[0]), int(e[1]), e[2])
		}
		for n := len(entries) - 1; n >= 0; n-- {
			e := entries[n]
			B.Add(int(e[0]), int(e[1]), e[2])
		}
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				assert.Equal(t, A.Get(i, j), B.Get(i, j))
			}
		}
	}
	// Contract violations
	{
		K := NewDOK(2, 2)
		assert.Panics(t, func() { K.Get(2, 0) })
		assert.Panics(t, func() { K.Set(0, -1, 1) })
		assert.Panics(t, func() { K.Add(0, 5, 1) })
		K.SetReadOnly("K")
		assert.Panics(t, func() { K.Set(0, 0, 1) })
		assert.NotPanics(t, func() { K.Get(1, 1) })
	}
}

func TestCSR(t *testing.T) {
	K := NewDOK(3, 3)
	K.Add(0, 0, 4)
	K.Add(0, 1, 1)
	K.Add(1, 0, 1)
	K.Add(1, 1, 3)
	K.Add(2, 2, 2)
	K.Add(2, 0, -1)
	A := K.ToCSR()
	assert.Equal(t, 3, A.Rows())
	assert.Equal(t, 6, A.NNZ())
	assert.Equal(t, []float64{4, 3, 2}, A.Diagonal())
	assert.Equal(t, -1., A.At(2, 0))

	y := make([]float64, 3)
	A.MulVec(y, []float64{1, 2, 3})
	assert.Equal(t, []float64{6, 7, 5}, y)
	assert.Panics(t, func() { A.MulVec(y, []float64{1, 2}) })

	// Dense expansion agrees with the store
	D := A.ToDense()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, K.Get(i, j), D.At(i, j))
		}
	}
	// A missing diagonal reads as zero
	{
		K := NewDOK(2, 2)
		K.Add(0, 1, 1)
		K.Add(1, 0, 1)
		assert.Equal(t, []float64{0, 0}, K.ToCSR().Diagonal())
	}
}

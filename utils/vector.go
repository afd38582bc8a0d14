package utils

// Fill returns a vector of length n holding v in every entry.
func Fill(n int, v float64) (x []float64) {
	x = make([]float64, n)
	for i := range x {
		x[i] = v
	}
	return
}

// IntPow returns x^n for integer n by binary exponentiation.
func IntPow(x float64, n int) (y float64) {
	if n < 0 {
		return 1 / IntPow(x, -n)
	}
	y = 1
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			y *= x
		}
		x *= x
	}
	return
}

package shape

import (
	"fmt"
	"math"
)

var (
	gaussLinePoints = [][]float64{
		{0},
		{-1 / math.Sqrt(3), 1 / math.Sqrt(3)},
		{-math.Sqrt(0.6), 0, math.Sqrt(0.6)},
	}
	gaussLineWeights = [][]float64{
		{2},
		{1, 1},
		{5. / 9., 8. / 9., 5. / 9.},
	}
)

// GaussLine is the n point Gauss-Legendre rule on [-1,1], n in 1..3.
func GaussLine(n int) Rule {
	checkOrder(n)
	q := rule{}
	for i, p := range gaussLinePoints[n-1] {
		q.points = append(q.points, []float64{p})
		q.weights = append(q.weights, gaussLineWeights[n-1][i])
	}
	return q
}

// GaussSquare is the n x n tensor product rule on [-1,1]^2.
func GaussSquare(n int) Rule {
	checkOrder(n)
	q := rule{}
	for j, py := range gaussLinePoints[n-1] {
		for i, px := range gaussLinePoints[n-1] {
			q.points = append(q.points, []float64{px, py})
			q.weights = append(q.weights, gaussLineWeights[n-1][i]*gaussLineWeights[n-1][j])
		}
	}
	return q
}

func GaussTriangle1() Rule {
	return rule{
		points:  [][]float64{{1. / 3., 1. / 3.}},
		weights: []float64{0.5},
	}
}

func GaussTriangle3() Rule {
	return rule{
		points:  [][]float64{{1. / 6., 1. / 6.}, {2. / 3., 1. / 6.}, {1. / 6., 2. / 3.}},
		weights: []float64{1. / 6., 1. / 6., 1. / 6.},
	}
}

func checkOrder(n int) {
	if n < 1 || n > len(gaussLinePoints) {
		panic(fmt.Errorf("gauss rule with %d points is not available, use 1 to %d", n, len(gaussLinePoints)))
	}
}

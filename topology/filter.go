package topology

import (
	"fmt"
	"math"
)

// HeavisideFilter averages the design over neighboring elements and projects
// the average with a smoothed Heaviside step of sharpness Beta.
type HeavisideFilter struct {
	Beta      float64
	Neighbors [][]int
	Weights   [][]float64
}

// NewHeavisideFilter links every element to the elements whose centroid lies
// within radius, weighted by radius minus distance.
func NewHeavisideFilter(centroids [][]float64, radius float64) (hf *HeavisideFilter) {
	if radius <= 0 {
		panic(fmt.Errorf("filter radius must be positive, got %v", radius))
	}
	n := len(centroids)
	hf = &HeavisideFilter{
		Beta:      1,
		Neighbors: make([][]int, n),
		Weights:   make([][]float64, n),
	}
	for i, ci := range centroids {
		for j, cj := range centroids {
			var d2 float64
			for k := range ci {
				d2 += (ci[k] - cj[k]) * (ci[k] - cj[k])
			}
			if d := math.Sqrt(d2); d < radius {
				hf.Neighbors[i] = append(hf.Neighbors[i], j)
				hf.Weights[i] = append(hf.Weights[i], radius-d)
			}
		}
	}
	return
}

func (hf *HeavisideFilter) average(s []float64, i int) float64 {
	var (
		wssum, wsum float64
	)
	for j, nb := range hf.Neighbors[i] {
		wssum += hf.Weights[i][j] * s[nb]
		wsum += hf.Weights[i][j]
	}
	return wssum / wsum
}

// Filter maps design variables s to physical densities rho.
func (hf *HeavisideFilter) Filter(s []float64) (rho []float64) {
	hf.checkLength(s)
	var (
		th = math.Tanh(0.5 * hf.Beta)
	)
	rho = make([]float64, len(s))
	for i := range s {
		rho[i] = 0.5 * (th + math.Tanh(hf.Beta*(hf.average(s, i)-0.5))) / th
	}
	return
}

// FilterSensitivities maps df/drho to df/ds through the projection and the
// neighbor average.
func (hf *HeavisideFilter) FilterSensitivities(s, dfdrho []float64) (dfds []float64) {
	hf.checkLength(s)
	hf.checkLength(dfdrho)
	var (
		n     = len(s)
		th    = math.Tanh(0.5 * hf.Beta)
		drhod = make([]float64, n)
	)
	for i := range s {
		var wsum float64
		for _, w := range hf.Weights[i] {
			wsum += w
		}
		t := math.Tanh(hf.Beta * (hf.average(s, i) - 0.5))
		drhod[i] = 0.5 * hf.Beta * (1 - t*t) / th / wsum
	}
	// Weights are symmetric, so row i also lists the averages s_i enters
	dfds = make([]float64, n)
	for i := range s {
		for j, nb := range hf.Neighbors[i] {
			dfds[i] += dfdrho[nb] * drhod[nb] * hf.Weights[i][j]
		}
	}
	return
}

func (hf *HeavisideFilter) checkLength(v []float64) {
	if len(v) != len(hf.Neighbors) {
		panic(fmt.Errorf("filter has %d elements, got %d values", len(hf.Neighbors), len(v)))
	}
}

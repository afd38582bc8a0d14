package geometry2D

import (
	"math"

	"github.com/notargets/gofem/utils"
)

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(X [][]float64) (Box *BoundingBox) {
	if len(X) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin[0], Box.XMin[1] = X[0][0], X[0][1]
	Box.XMax[0], Box.XMax[1] = X[0][0], X[0][1]
	for _, point := range X {
		for i := 0; i < 2; i++ {
			Box.XMin[i] = math.Min(Box.XMin[i], point[i])
			Box.XMax[i] = math.Max(Box.XMax[i], point[i])
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() (centroid []float64) {
	return []float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}
}

func (bb *BoundingBox) Area() float64 {
	return (bb.XMax[0] - bb.XMin[0]) * (bb.XMax[1] - bb.XMin[1])
}

func (bb *BoundingBox) PointInside(x []float64) (within bool) {
	for ii := 0; ii < 2; ii++ {
		if x[ii] > bb.XMax[ii]+utils.NODETOL || x[ii] < bb.XMin[ii]-utils.NODETOL {
			return false
		}
	}
	return true
}

// OnSide reports whether x lies on the given side of the box, within NODETOL
// scaled by the box size.
func (bb *BoundingBox) OnSide(side Side, x []float64) bool {
	var (
		tol = utils.NODETOL * math.Max(1, math.Max(bb.XMax[0]-bb.XMin[0], bb.XMax[1]-bb.XMin[1]))
	)
	switch side {
	case Left:
		return math.Abs(x[0]-bb.XMin[0]) < tol
	case Right:
		return math.Abs(x[0]-bb.XMax[0]) < tol
	case Bottom:
		return math.Abs(x[1]-bb.XMin[1]) < tol
	case Top:
		return math.Abs(x[1]-bb.XMax[1]) < tol
	}
	return false
}

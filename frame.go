package retouch

import (
	"math"

	"github.com/gogpu/retouch/facemesh"
)

// FrameEpsilon is the shortest bottom-to-top vector accepted by NewFrame.
// Shorter vectors come from degenerate detections and yield no frame.
const FrameEpsilon = 1e-3

// Frame is a rotation-invariant face basis. Up points from the anatomical
// bottom reference to the top reference; Right is Up rotated a quarter turn
// so that positive Right points toward the subject's anatomical left.
//
// Width and Height are the anatomical extents of the boundary ring measured
// along Right and Up, so they do not change with in-plane head rotation.
type Frame struct {
	Up     Point
	Right  Point
	Center Point
	Width  float64
	Height float64
}

// NewFrame derives a frame from two reference points and a boundary ring.
// It returns false when the references coincide or the ring is empty.
func NewFrame(bottom, top Point, ring []Point) (Frame, bool) {
	axis := top.Sub(bottom)
	if axis.Length() < FrameEpsilon || len(ring) == 0 {
		return Frame{}, false
	}
	up := axis.Normalize()
	f := Frame{
		Up:    up,
		Right: Point{X: -up.Y, Y: up.X},
	}

	minR, maxR := math.Inf(1), math.Inf(-1)
	minU, maxU := math.Inf(1), math.Inf(-1)
	for _, p := range ring {
		r := p.Dot(f.Right)
		u := p.Dot(f.Up)
		minR, maxR = math.Min(minR, r), math.Max(maxR, r)
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
	}
	f.Width = maxR - minR
	f.Height = maxU - minU
	f.Center = f.Right.Mul((minR + maxR) / 2).Add(f.Up.Mul((minU + maxU) / 2))
	return f, true
}

// FaceFrame builds the frame of a face mesh from the chin, the forehead and
// the face oval. It returns false for an invalid landmark set.
func FaceFrame(lm Landmarks) (Frame, bool) {
	if !lm.Valid() {
		return Frame{}, false
	}
	chin, _ := lm.At(facemesh.Chin)
	top, _ := lm.At(facemesh.Forehead)
	return NewFrame(chin, top, lm.Points(facemesh.FaceOval))
}

// ProjectUp returns the signed distance of p from the center along Up.
func (f Frame) ProjectUp(p Point) float64 {
	return p.Sub(f.Center).Dot(f.Up)
}

// ProjectRight returns the signed distance of p from the center along Right.
func (f Frame) ProjectRight(p Point) float64 {
	return p.Sub(f.Center).Dot(f.Right)
}

// ToImageVector converts a frame-relative offset (h along Right, v along Up)
// into an image-space vector.
func (f Frame) ToImageVector(h, v float64) Point {
	return f.Right.Mul(h).Add(f.Up.Mul(v))
}

// ToImagePoint converts frame coordinates into an image-space position.
func (f Frame) ToImagePoint(h, v float64) Point {
	return f.Center.Add(f.ToImageVector(h, v))
}

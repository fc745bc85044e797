package facemesh

import "math"

// Vertex is a mesh point in pixel space.
type Vertex struct {
	X, Y, Z float64
}

// Canonical returns a synthetic upright frontal face of Count points centered
// at (cx, cy) whose face oval is width pixels wide.
//
// Only the indexed regions of this package receive anatomical positions; the
// remaining mesh points sit at the face center.
func Canonical(cx, cy, width float64) []Vertex {
	v := make([]Vertex, Count)
	for i := range v {
		v[i] = Vertex{X: cx, Y: cy}
	}
	w := width
	at := func(idx int, dx, dy float64) {
		v[idx] = Vertex{X: cx + dx*w, Y: cy + dy*w}
	}

	// Oval: a=0.5w, b=0.65w, clockwise from the top.
	for k, idx := range FaceOval {
		theta := -math.Pi/2 + 2*math.Pi*float64(k)/float64(len(FaceOval))
		at(idx, 0.5*math.Cos(theta), 0.65*math.Sin(theta))
	}

	// Eyes: ring of 16, y grows downward so the upper lid uses -sin.
	for k, idx := range RightEye {
		theta := math.Pi - 2*math.Pi*float64(k)/float64(len(RightEye))
		at(idx, -0.2+0.09*math.Cos(theta), -0.12-0.04*math.Sin(theta))
	}
	for k, idx := range LeftEye {
		theta := 2 * math.Pi * float64(k) / float64(len(LeftEye))
		at(idx, 0.2+0.09*math.Cos(theta), -0.12-0.04*math.Sin(theta))
	}
	if Count > SurfaceCount {
		at(468, -0.2, -0.12)
		at(473, 0.2, -0.12)
	}

	// Brows: two rows of five, outer to inner.
	for k := 0; k < 5; k++ {
		x := 0.3 - 0.055*float64(k)
		at(RightBrow[k], -x, -0.24)
		at(RightBrow[k+5], -x, -0.21)
		at(LeftBrow[k], x, -0.24)
		at(LeftBrow[k+5], x, -0.21)
	}

	// Nose.
	for k, idx := range NoseBridge {
		at(idx, 0, -0.12+0.05*float64(k))
	}
	at(1, 0, 0.1)
	at(4, 0, 0.09)
	at(NoseBottom, 0, 0.13)
	for k := range NoseWingRight {
		dy := 0.08 + 0.015*float64(k)
		at(NoseWingRight[k], -0.09+0.01*float64(k), dy)
		at(NoseWingLeft[k], 0.09-0.01*float64(k), dy)
	}

	// Outer lips: ring of 20 starting at the right mouth corner.
	for k, idx := range OuterLips {
		theta := math.Pi - 2*math.Pi*float64(k)/float64(len(OuterLips))
		at(idx, 0.18*math.Cos(theta), 0.28-0.06*math.Sin(theta))
	}

	return v
}

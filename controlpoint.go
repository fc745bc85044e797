package retouch

import "math"

// CutoffSigmas is the Gaussian truncation radius in standard deviations.
// Beyond it a control point contributes exactly nothing.
const CutoffSigmas = 3

// ControlPoint is a sparse warp anchor: a displacement at Position that
// falls off as a Gaussian of standard deviation Sigma. All three share the
// pixel units of the buffer the point was built for.
//
// The warp engine samples the source at p - D(p), so Displacement is the
// direction content travels: a point displaced by (+5, 0) shows, near its
// position, the pixels that were 5 pixels to its left.
type ControlPoint struct {
	Position     Point
	Displacement Point
	Sigma        float64
}

// Radius returns the cutoff radius of the point's influence.
func (cp ControlPoint) Radius() float64 {
	return CutoffSigmas * cp.Sigma
}

// Influences reports whether p lies within the 3-sigma cutoff of cp,
// i.e. whether d² <= 9σ².
func (cp ControlPoint) Influences(p Point) bool {
	if cp.Sigma <= 0 {
		return false
	}
	return p.Sub(cp.Position).LengthSquared() <= CutoffSigmas*CutoffSigmas*cp.Sigma*cp.Sigma
}

// Weight returns the truncated Gaussian weight of cp at p.
func (cp ControlPoint) Weight(p Point) float64 {
	if !cp.Influences(p) {
		return 0
	}
	d2 := p.Sub(cp.Position).LengthSquared()
	return math.Exp(-d2 / (2 * cp.Sigma * cp.Sigma))
}

// Scale returns the control point expressed at a resolution ratio times
// larger. Position, displacement and sigma all scale together.
func (cp ControlPoint) Scale(ratio float64) ControlPoint {
	return ControlPoint{
		Position:     cp.Position.Mul(ratio),
		Displacement: cp.Displacement.Mul(ratio),
		Sigma:        cp.Sigma * ratio,
	}
}

// DisplacementAt sums the weighted displacements of cps at p.
// The sum is order independent.
func DisplacementAt(cps []ControlPoint, p Point) Point {
	var d Point
	for _, cp := range cps {
		if w := cp.Weight(p); w != 0 {
			d = d.Add(cp.Displacement.Mul(w))
		}
	}
	return d
}

package retouch

import (
	"context"

	"github.com/gogpu/retouch/facemesh"
)

// MinLandmarks is the smallest landmark count accepted as a detected face.
// Provider results with fewer points are treated as no detection.
const MinLandmarks = 400

// Landmark is a detected face mesh point in pixel space. Z is carried
// through from the detector but ignored by every warp.
type Landmark struct {
	X, Y, Z float64
}

// Point returns the landmark's image-plane position.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// Landmarks is an ordered face mesh indexed by the tables in package facemesh.
// A Landmarks value is immutable once produced; rescaling returns a new slice.
type Landmarks []Landmark

// Valid reports whether the set holds enough points to describe a face.
func (lm Landmarks) Valid() bool {
	return len(lm) >= MinLandmarks
}

// At returns the position of landmark idx, or false when idx is out of range.
func (lm Landmarks) At(idx int) (Point, bool) {
	if idx < 0 || idx >= len(lm) {
		return Point{}, false
	}
	return lm[idx].Point(), true
}

// Points returns the positions of the given indices, skipping any index
// the set does not contain.
func (lm Landmarks) Points(indices []int) []Point {
	pts := make([]Point, 0, len(indices))
	for _, idx := range indices {
		if p, ok := lm.At(idx); ok {
			pts = append(pts, p)
		}
	}
	return pts
}

// CanonicalLandmarks returns a synthetic upright frontal face centered at
// center whose face oval is width pixels wide.
func CanonicalLandmarks(center Point, width float64) Landmarks {
	verts := facemesh.Canonical(center.X, center.Y, width)
	lm := make(Landmarks, len(verts))
	for i, v := range verts {
		lm[i] = Landmark{X: v.X, Y: v.Y, Z: v.Z}
	}
	return lm
}

// LandmarkProvider is the external face landmark detector. Detect returns
// landmarks in the pixel space of img, or ErrNoLandmarks when no face is found.
type LandmarkProvider interface {
	Detect(ctx context.Context, img *Pixmap) (Landmarks, error)
}

// LandmarkProviderFunc adapts a function to LandmarkProvider.
type LandmarkProviderFunc func(ctx context.Context, img *Pixmap) (Landmarks, error)

// Detect calls f(ctx, img).
func (f LandmarkProviderFunc) Detect(ctx context.Context, img *Pixmap) (Landmarks, error) {
	return f(ctx, img)
}

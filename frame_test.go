package retouch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceFrameUpright(t *testing.T) {
	lm := CanonicalLandmarks(Pt(100, 100), 60)

	f, ok := FaceFrame(lm)
	require.True(t, ok)

	assertPointNear(t, Pt(0, -1), f.Up, 1e-12)
	assertPointNear(t, Pt(1, 0), f.Right, 1e-12)
	assertPointNear(t, Pt(100, 100), f.Center, 1e-9)
	assert.InDelta(t, 60, f.Width, 1e-9)
	assert.InDelta(t, 78, f.Height, 1e-9)
}

func TestFaceFrameRotationInvariantExtents(t *testing.T) {
	center := Pt(100, 100)
	upright, ok := FaceFrame(CanonicalLandmarks(center, 60))
	require.True(t, ok)

	for _, deg := range []float64{15, 45, 90, 170, -30} {
		angle := deg * math.Pi / 180
		f, ok := FaceFrame(rotateLandmarks(CanonicalLandmarks(center, 60), center, angle))
		require.True(t, ok, "angle %v", deg)

		assert.InDelta(t, upright.Width, f.Width, 1e-9, "angle %v", deg)
		assert.InDelta(t, upright.Height, f.Height, 1e-9, "angle %v", deg)
		assertPointNear(t, upright.Up.Rotate(angle), f.Up, 1e-12)
		assertPointNear(t, upright.Right.Rotate(angle), f.Right, 1e-12)
		assertPointNear(t, center, f.Center, 1e-9)
	}
}

func TestNewFrameDegenerate(t *testing.T) {
	ring := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}

	tests := []struct {
		name        string
		bottom, top Point
		ring        []Point
	}{
		{"coincident references", Pt(5, 5), Pt(5, 5), ring},
		{"below epsilon", Pt(5, 5), Pt(5, 5+FrameEpsilon/2), ring},
		{"empty ring", Pt(5, 10), Pt(5, 0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := NewFrame(tt.bottom, tt.top, tt.ring)
			assert.False(t, ok)
			assert.Equal(t, Frame{}, f)
		})
	}
}

func TestFaceFrameInvalidLandmarks(t *testing.T) {
	_, ok := FaceFrame(CanonicalLandmarks(Pt(50, 50), 40)[:MinLandmarks-1])
	assert.False(t, ok)

	_, ok = FaceFrame(nil)
	assert.False(t, ok)
}

func TestFrameRoundTrip(t *testing.T) {
	f, ok := NewFrame(Pt(0, 10), Pt(10, 0), []Point{Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0)})
	require.True(t, ok)

	p := Pt(3, 7)
	h, v := f.ProjectRight(p), f.ProjectUp(p)
	assertPointNear(t, p, f.ToImagePoint(h, v), 1e-12)
	assertPointNear(t, p.Sub(f.Center), f.ToImageVector(h, v), 1e-12)
}

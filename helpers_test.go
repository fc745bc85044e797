package retouch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// radialPixmap encodes each pixel's distance from (cx, cy) in the red
// channel, so a warp's sampling direction can be read back from the output.
func radialPixmap(w, h int, cx, cy float64) *Pixmap {
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			pm.SetRGBA(x, y, uint8(math.Min(255, d)), 128, uint8(x%256), 255)
		}
	}
	return pm
}

// rampPixmap sets red to x and green to y.
func rampPixmap(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pm.SetRGBA(x, y, uint8(x), uint8(y), 64, 255)
		}
	}
	return pm
}

// rotateLandmarks rotates lm by angle around center.
func rotateLandmarks(lm Landmarks, center Point, angle float64) Landmarks {
	out := make(Landmarks, len(lm))
	for i, l := range lm {
		p := l.Point().Sub(center).Rotate(angle).Add(center)
		out[i] = Landmark{X: p.X, Y: p.Y, Z: l.Z}
	}
	return out
}

func requireSamePixels(t *testing.T, want, got *Pixmap) {
	t.Helper()
	require.Equal(t, want.Width(), got.Width())
	require.Equal(t, want.Height(), got.Height())
	require.Equal(t, want.Data(), got.Data())
}

func assertPointNear(t *testing.T, want, got Point, delta float64) {
	t.Helper()
	if math.Abs(want.X-got.X) > delta || math.Abs(want.Y-got.Y) > delta {
		t.Errorf("point = (%.6f, %.6f), want (%.6f, %.6f) within %g", got.X, got.Y, want.X, want.Y, delta)
	}
}

package retouch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantField(t *testing.T, w, h int, d Point) *Field {
	t.Helper()
	dx := make([]float32, w*h)
	dy := make([]float32, w*h)
	for i := range dx {
		dx[i], dy[i] = float32(d.X), float32(d.Y)
	}
	f, err := NewFieldFromData(w, h, dx, dy)
	require.NoError(t, err)
	return f
}

func TestResampleFieldScalesVectors(t *testing.T) {
	f := constantField(t, 100, 100, Pt(5, 0))

	up := ResampleField(f, 200, 200)
	require.Equal(t, 200, up.Width())
	for y := 0; y < 200; y += 7 {
		for x := 0; x < 200; x += 7 {
			require.Equal(t, Pt(10, 0), up.At(x, y), "cell (%d, %d)", x, y)
		}
	}

	down := ResampleField(constantField(t, 100, 100, Pt(4, -6)), 50, 25)
	assert.Equal(t, Pt(2, -1.5), down.At(10, 10))
}

func TestResampleFieldInterpolates(t *testing.T) {
	dx := []float32{0, 4}
	dy := []float32{0, 0}
	f, err := NewFieldFromData(2, 1, dx, dy)
	require.NoError(t, err)

	up := ResampleField(f, 4, 1)
	// Pixel centers 0.5..3.5 map to source -0.25, 0.25, 0.75, 1.25 (clamped).
	assert.InDelta(t, 0, up.At(0, 0).X, 1e-6)
	assert.InDelta(t, 0.25*4*2, up.At(1, 0).X, 1e-6)
	assert.InDelta(t, 0.75*4*2, up.At(2, 0).X, 1e-6)
	assert.InDelta(t, 4*2, up.At(3, 0).X, 1e-6)
}

func TestResampleSameSizeMatchesGeneralPath(t *testing.T) {
	f := NewField(37, 23).WithStrokes(
		Stroke{Center: Pt(12, 10), Radius: 9, Mode: BrushPush, Strength: 0.7, Drag: Pt(2.5, -1.25)},
		Stroke{Center: Pt(25, 14), Radius: 7, Mode: BrushExpand, Strength: 1},
	)
	fast := ResampleField(f, 37, 23)
	general := resampleFieldBilinear(f, 37, 23)
	assert.Equal(t, general.dx, fast.dx)
	assert.Equal(t, general.dy, fast.dy)
	assert.NotEqual(t, f.ID(), fast.ID())

	m := NewMask(37, 23).WithDabs(Dab{Center: Pt(18, 11), Radius: 8, Value: 0.7, Hardness: 0.3})
	assert.Equal(t, resampleMaskNearest(m, 37, 23).data, ResampleMask(m, 37, 23).data)
}

func TestResampleMaskPreservesLabels(t *testing.T) {
	data := make([]float32, 30*20)
	labels := []float32{0, 0.25, 0.6, 1}
	for i := range data {
		data[i] = labels[(i*7+i/30)%len(labels)]
	}
	m, err := NewMaskFromData(30, 20, data)
	require.NoError(t, err)

	allowed := map[float32]bool{}
	for _, l := range labels {
		allowed[l] = true
	}
	for _, size := range [][2]int{{60, 40}, {15, 10}, {47, 13}} {
		out := ResampleMask(m, size[0], size[1])
		require.Equal(t, size[0], out.Width())
		require.Equal(t, size[1], out.Height())
		for _, v := range out.Data() {
			require.True(t, allowed[v], "value %v was not in the source mask", v)
		}
	}
}

func TestResampleMaskNearestUpscale(t *testing.T) {
	m, err := NewMaskFromData(2, 1, []float32{0, 1})
	require.NoError(t, err)
	up := ResampleMask(m, 4, 2)
	assert.Equal(t, []float32{0, 0, 1, 1, 0, 0, 1, 1}, up.Data())
}

func TestResampleShortCircuits(t *testing.T) {
	assert.Nil(t, ResampleMask(nil, 10, 10))
	assert.Nil(t, ResampleField(nil, 10, 10))

	m := ResampleMask(NewMask(5, 5), 20, 30)
	assert.True(t, m.IsZero())
	assert.Equal(t, 20, m.Width())
	assert.Equal(t, 30, m.Height())

	f := ResampleField(NewField(5, 5), 20, 30)
	assert.True(t, f.IsZero())
	assert.Equal(t, 30, f.Height())
}

func TestScaleLandmarks(t *testing.T) {
	lm := Landmarks{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5, Z: 0}}
	got := ScaleLandmarks(lm, 2.5)
	assert.Equal(t, Landmarks{{X: 2.5, Y: 5, Z: 7.5}, {X: -10, Y: 12.5, Z: 0}}, got)
	assert.Equal(t, 1.0, lm[0].X, "input is not modified")
	assert.Nil(t, ScaleLandmarks(nil, 2))
}

func TestResampledFieldWarpsLikeScaledEdit(t *testing.T) {
	small := constantField(t, 50, 50, Pt(1, 0))
	big := ResampleField(small, 100, 100)

	src := rampPixmap(100, 100)
	out := big.Apply(src)
	r, _, _, _ := out.RGBA(40, 40)
	assert.Equal(t, uint8(42), r)
}

package retouch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p, q := Pt(3, 4), Pt(1, -2)

	assert.Equal(t, Pt(4, 2), p.Add(q))
	assert.Equal(t, Pt(2, 6), p.Sub(q))
	assert.Equal(t, Pt(6, 8), p.Mul(2))
	assert.Equal(t, -5.0, p.Dot(q))
	assert.Equal(t, 5.0, p.Length())
	assert.Equal(t, 25.0, p.LengthSquared())
	assert.InDelta(t, math.Sqrt(40), p.Distance(q), 1e-12)
	assert.Equal(t, Pt(2, 1), p.Lerp(q, 0.5))
}

func TestPointNormalize(t *testing.T) {
	assertPointNear(t, Pt(0.6, 0.8), Pt(3, 4).Normalize(), 1e-12)
	assert.Equal(t, Point{}, Point{}.Normalize())
	assert.True(t, Point{}.IsZero())
	assert.False(t, Pt(0, 1e-9).IsZero())
}

func TestPointRotate(t *testing.T) {
	assertPointNear(t, Pt(0, 1), Pt(1, 0).Rotate(math.Pi/2), 1e-12)
	assertPointNear(t, Pt(-2, 0), Pt(2, 0).Rotate(math.Pi), 1e-12)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Point{}, centroid(nil))
	assert.Equal(t, Pt(2, 3), centroid([]Point{Pt(0, 0), Pt(4, 6), Pt(2, 3)}))
}

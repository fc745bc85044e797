package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/retouch/internal/parallel"
)

func TestBlurUniformImageUnchanged(t *testing.T) {
	src := solid(40, 30, 120, 60, 200, 255)
	dst := Blur(parallel.Default(), src, 40, 30, 3)
	assert.Equal(t, src, dst)
}

func TestBlurZeroSigmaCopies(t *testing.T) {
	src := solid(4, 4, 1, 2, 3, 4)
	dst := Blur(nil, src, 4, 4, 0)
	assert.Equal(t, src, dst)
	dst[0] = 99
	assert.Equal(t, uint8(1), src[0], "blur must not alias its input")
}

func TestBlurSpreadsImpulse(t *testing.T) {
	w, h := 21, 21
	src := solid(w, h, 0, 0, 0, 255)
	c := (10*w + 10) * 4
	src[c] = 255

	dst := Blur(parallel.Default(), src, w, h, 2)
	assert.Less(t, dst[c], uint8(255))
	assert.Greater(t, dst[c+4], uint8(0), "right neighbor picks up energy")
	assert.Equal(t, uint8(255), dst[c+3], "alpha of an opaque image stays opaque")
}

func TestMaskedMix(t *testing.T) {
	base := solid(2, 1, 100, 100, 100, 200)
	effect := solid(2, 1, 200, 0, 100, 10)
	dst := make([]uint8, len(base))

	MaskedMix(nil, dst, base, effect, []float32{0, 0.5}, 1)

	assert.Equal(t, []uint8{100, 100, 100, 200}, dst[0:4])
	assert.Equal(t, []uint8{150, 50, 100, 200}, dst[4:8])
}

func TestMaskedMixClampsWeight(t *testing.T) {
	base := solid(1, 1, 0, 0, 0, 255)
	effect := solid(1, 1, 255, 255, 255, 255)
	dst := make([]uint8, 4)

	MaskedMix(nil, dst, base, effect, []float32{1}, 3)
	assert.Equal(t, []uint8{255, 255, 255, 255}, dst)
}

func BenchmarkBlur(b *testing.B) {
	src := solid(512, 512, 90, 120, 150, 255)
	pool := parallel.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Blur(pool, src, 512, 512, 4)
	}
}

package filter

import (
	"github.com/gogpu/retouch/internal/parallel"
)

// Blur returns a Gaussian-blurred copy of the w x h RGBA buffer src.
// The two-pass separable algorithm costs O(w*h*sigma) and extends edges by
// clamping. A non-positive sigma returns a plain copy.
func Blur(pool *parallel.WorkerPool, src []uint8, w, h int, sigma float64) []uint8 {
	dst := make([]uint8, len(src))
	if sigma <= 0 {
		copy(dst, src)
		return dst
	}

	kernel := CachedGaussianKernel(sigma)
	temp := make([]float32, w*h*4)

	pool.Rows(h, func(y0, y1 int) {
		blurHorizontal(src, temp, w, y0, y1, kernel)
	})
	pool.Rows(h, func(y0, y1 int) {
		blurVertical(temp, dst, w, h, y0, y1, kernel)
	})
	return dst
}

// blurHorizontal convolves rows [y0, y1) of src into temp.
func blurHorizontal(src []uint8, temp []float32, w, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	for y := y0; y < y1; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := min(max(x+k-half, 0), w-1)
				i := (row + kx) * 4
				r += float32(src[i+0]) * weight
				g += float32(src[i+1]) * weight
				b += float32(src[i+2]) * weight
				a += float32(src[i+3]) * weight
			}
			o := (row + x) * 4
			temp[o+0], temp[o+1], temp[o+2], temp[o+3] = r, g, b, a
		}
	}
}

// blurVertical convolves rows [y0, y1) of temp into dst.
func blurVertical(temp []float32, dst []uint8, w, h, y0, y1 int, kernel []float32) {
	half := len(kernel) / 2
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := min(max(y+k-half, 0), h-1)
				i := (ky*w + x) * 4
				r += temp[i+0] * weight
				g += temp[i+1] * weight
				b += temp[i+2] * weight
				a += temp[i+3] * weight
			}
			o := (y*w + x) * 4
			dst[o+0] = clampUint8(r)
			dst[o+1] = clampUint8(g)
			dst[o+2] = clampUint8(b)
			dst[o+3] = clampUint8(a)
		}
	}
}

// MaskedMix blends effect over base into dst with per-pixel weight
// mask[i]*amount. Pixels with zero weight are copied from base unchanged.
// Alpha always comes from base. dst may alias base.
func MaskedMix(pool *parallel.WorkerPool, dst, base, effect []uint8, mask []float32, amount float32) {
	pool.Rows(len(mask), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			o := i * 4
			t := mask[i] * amount
			if t <= 0 {
				copy(dst[o:o+4], base[o:o+4])
				continue
			}
			if t > 1 {
				t = 1
			}
			for c := 0; c < 3; c++ {
				b := float32(base[o+c])
				dst[o+c] = clampUint8(b + (float32(effect[o+c])-b)*t)
			}
			dst[o+3] = base[o+3]
		}
	})
}

// clampUint8 rounds v to the nearest byte value.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

package filter

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
)

// ColorMatrix is a 4x5 color transformation in row-major order:
//
//	[R']   [m00 m01 m02 m03 m04]   [R]
//	[G'] = [m10 m11 m12 m13 m14] * [G]
//	[B']   [m20 m21 m22 m23 m24]   [B]
//	[A']   [m30 m31 m32 m33 m34]   [A]
//	                               [1]
//
// Channels are in [0, 255] during the transform and clamped afterwards.
type ColorMatrix [20]float32

// Rec. 709 luminance weights.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Identity returns the pass-through matrix.
func Identity() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Brightness adds offset (in 0..255 units) to every color channel.
func Brightness(offset float32) ColorMatrix {
	m := Identity()
	m[4], m[9], m[14] = offset, offset, offset
	return m
}

// Exposure multiplies every color channel by 2^stops.
func Exposure(stops float64) ColorMatrix {
	f := float32(math.Exp2(stops))
	m := Identity()
	m[0], m[6], m[12] = f, f, f
	return m
}

// Contrast scales channels around mid gray: (c - 128) * factor + 128.
func Contrast(factor float32) ColorMatrix {
	offset := 128 * (1 - factor)
	return ColorMatrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// Saturation blends between luminance (0) and identity (1).
func Saturation(factor float32) ColorMatrix {
	inv := 1 - factor
	return ColorMatrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Warmth shifts the red/blue balance; positive values warm the image.
// shift is in 0..255 units.
func Warmth(shift float32) ColorMatrix {
	m := Identity()
	m[4] = shift
	m[14] = -shift
	return m
}

// Sepia returns the classic sepia tone matrix.
func Sepia() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Then returns the matrix applying m first and n second.
func (m ColorMatrix) Then(n ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			var v float32
			for k := 0; k < 4; k++ {
				v += n[r*5+k] * m[k*5+c]
			}
			if c == 4 {
				v += n[r*5+4]
			}
			out[r*5+c] = v
		}
	}
	return out
}

// Lerp blends from the identity (t=0) to m (t=1).
func (m ColorMatrix) Lerp(t float32) ColorMatrix {
	id := Identity()
	var out ColorMatrix
	for i := range out {
		out[i] = id[i] + (m[i]-id[i])*t
	}
	return out
}

// IsIdentity reports whether m leaves every pixel unchanged.
func (m ColorMatrix) IsIdentity() bool {
	return m == Identity()
}

// Apply transforms the RGBA buffer src into dst. dst may alias src.
// Alpha is preserved when the alpha row is the identity row.
func (m ColorMatrix) Apply(pool *parallel.WorkerPool, dst, src []uint8) {
	n := len(src) / 4
	pool.Rows(n, func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			o := i * 4
			r := float32(src[o+0])
			g := float32(src[o+1])
			b := float32(src[o+2])
			a := float32(src[o+3])

			dst[o+0] = clampUint8(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
			dst[o+1] = clampUint8(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
			dst[o+2] = clampUint8(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
			dst[o+3] = clampUint8(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])
		}
	})
}

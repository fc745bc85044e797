package retouch

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
)

// sampleBilinear interpolates the four source pixels around the continuous
// pixel coordinate (fx, fy) and writes the RGBA result to out. Integer
// coordinates address pixel centers; coordinates outside the buffer are
// clamped to the edge, so an integral in-bounds coordinate reproduces the
// source pixel exactly.
func sampleBilinear(src []uint8, w, h int, fx, fy float64, out []uint8) {
	fx = clampFloat(fx, 0, float64(w-1))
	fy = clampFloat(fy, 0, float64(h-1))

	x0 := int(fx)
	y0 := int(fy)
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)

	i00 := (y0*w + x0) * 4
	i10 := (y0*w + x1) * 4
	i01 := (y1*w + x0) * 4
	i11 := (y1*w + x1) * 4

	for c := 0; c < 4; c++ {
		v := lerp2D(float64(src[i00+c]), float64(src[i10+c]), float64(src[i01+c]), float64(src[i11+c]), tx, ty)
		out[c] = uint8(clampFloat(math.Floor(v+0.5), 0, 255))
	}
}

// remapByField builds a new pixmap whose pixel (x, y) samples src at
// (x + sign*dx, y + sign*dy). Pixels with a zero displacement are copied
// verbatim. The control point warp uses sign -1, the liquify field +1.
func remapByField(pool *parallel.WorkerPool, src *Pixmap, dx, dy []float32, sign float64) *Pixmap {
	w, h := src.width, src.height
	dst := NewPixmap(w, h)
	in, out := src.data, dst.data

	pool.Rows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				i := row + x
				o := i * 4
				ddx, ddy := dx[i], dy[i]
				if ddx == 0 && ddy == 0 {
					copy(out[o:o+4], in[o:o+4])
					continue
				}
				sx := float64(x) + sign*float64(ddx)
				sy := float64(y) + sign*float64(ddy)
				sampleBilinear(in, w, h, sx, sy, out[o:o+4])
			}
		}
	})
	return dst
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

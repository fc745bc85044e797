package retouch

import (
	"github.com/gogpu/retouch/internal/parallel"
)

// ScaleLandmarks returns lm with every coordinate multiplied by ratio.
// Point data needs no interpolation.
func ScaleLandmarks(lm Landmarks, ratio float64) Landmarks {
	if lm == nil {
		return nil
	}
	out := make(Landmarks, len(lm))
	for i, l := range lm {
		out[i] = Landmark{X: l.X * ratio, Y: l.Y * ratio, Z: l.Z * ratio}
	}
	return out
}

// ResampleMask resizes m to width x height with nearest-neighbor sampling,
// so a painted mask keeps exactly its original set of values.
// An all-zero mask short-circuits to a fresh empty mask; a same-size mask is
// cloned, which is what the nearest mapping yields at ratio 1.
func ResampleMask(m *Mask, width, height int) *Mask {
	if m == nil {
		return nil
	}
	if m.IsZero() {
		return NewMask(width, height)
	}
	if m.width == width && m.height == height {
		return m.Clone()
	}
	return resampleMaskNearest(m, width, height)
}

func resampleMaskNearest(m *Mask, width, height int) *Mask {
	out := NewMask(width, height)
	xs := nearestIndex(m.width, width)
	ys := nearestIndex(m.height, height)
	parallel.Default().Rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src := m.data[ys[y]*m.width:]
			dst := out.data[y*width:]
			for x := 0; x < width; x++ {
				dst[x] = src[xs[x]]
			}
		}
	})
	out.dirty = true
	return out
}

// nearestIndex maps each of dstLen pixel centers to the source pixel that
// contains it.
func nearestIndex(srcLen, dstLen int) []int {
	idx := make([]int, dstLen)
	scale := float64(srcLen) / float64(dstLen)
	for i := range idx {
		idx[i] = min(srcLen-1, int((float64(i)+0.5)*scale))
	}
	return idx
}

// ResampleField resizes f to width x height with bilinear sampling and
// multiplies every sampled displacement by the resolution ratio of its axis.
// A displacement is a distance: at twice the resolution the same edit moves
// pixels twice as far.
//
// An all-zero field short-circuits to a fresh zero field; a same-size field
// is cloned, matching the general path at ratio 1 bit for bit.
func ResampleField(f *Field, width, height int) *Field {
	if f == nil {
		return nil
	}
	if f.IsZero() {
		return NewField(width, height)
	}
	if f.width == width && f.height == height {
		return f.Clone()
	}
	return resampleFieldBilinear(f, width, height)
}

func resampleFieldBilinear(f *Field, width, height int) *Field {
	out := NewField(width, height)
	rx := float64(width) / float64(f.width)
	ry := float64(height) / float64(f.height)

	parallel.Default().Rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			sy := clampFloat((float64(y)+0.5)/ry-0.5, 0, float64(f.height-1))
			for x := 0; x < width; x++ {
				sx := clampFloat((float64(x)+0.5)/rx-0.5, 0, float64(f.width-1))
				i := y*width + x
				out.dx[i] = float32(bilinearGrid(f.dx, f.width, f.height, sx, sy) * rx)
				out.dy[i] = float32(bilinearGrid(f.dy, f.width, f.height, sx, sy) * ry)
			}
		}
	})
	out.dirty = true
	return out
}

// bilinearGrid samples a scalar grid at an in-bounds continuous coordinate.
// The a+(b-a)t form keeps constant regions exactly constant.
func bilinearGrid(g []float32, w, h int, fx, fy float64) float64 {
	x0, y0 := int(fx), int(fy)
	tx, ty := fx-float64(x0), fy-float64(y0)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)

	v00 := float64(g[y0*w+x0])
	v10 := float64(g[y0*w+x1])
	v01 := float64(g[y1*w+x0])
	v11 := float64(g[y1*w+x1])

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}

// ScaleControlPoints rescales positions, displacements and radii by ratio.
func ScaleControlPoints(cps []ControlPoint, ratio float64) []ControlPoint {
	out := make([]ControlPoint, len(cps))
	for i, cp := range cps {
		out[i] = cp.Scale(ratio)
	}
	return out
}

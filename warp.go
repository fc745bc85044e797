package retouch

import (
	"math"
	"time"

	"github.com/gogpu/retouch/internal/parallel"
)

// Warp applies the Gaussian radial basis warp described by cps to src and
// returns the result. Each output pixel p samples src at p - D(p), where
// D is the truncated Gaussian sum of DisplacementAt, with bilinear
// interpolation and edge clamping.
//
// An empty list returns src itself. Pixels outside the 3-sigma radius of
// every control point are copied bit for bit.
func Warp(src *Pixmap, cps []ControlPoint) *Pixmap {
	return warpWith(parallel.Default(), src, cps)
}

func warpWith(pool *parallel.WorkerPool, src *Pixmap, cps []ControlPoint) *Pixmap {
	if src == nil || len(cps) == 0 {
		return src
	}
	start := time.Now()
	f := controlPointField(pool, src.width, src.height, cps)
	dst := remapByField(pool, src, f.dx, f.dy, -1)
	Logger().Debug("retouch: rbf warp",
		"points", len(cps),
		"width", src.width,
		"height", src.height,
		"elapsed", time.Since(start))
	return dst
}

// ControlPointField evaluates cps into a dense width x height displacement
// field. Cell (x, y) holds DisplacementAt(cps, (x, y)).
func ControlPointField(width, height int, cps []ControlPoint) *Field {
	return controlPointField(parallel.Default(), width, height, cps)
}

// controlPointField splats every control point over the rows of its 3-sigma
// bounding box. Bands own disjoint rows, so there are no write conflicts and
// each cell accumulates points in list order.
func controlPointField(pool *parallel.WorkerPool, width, height int, cps []ControlPoint) *Field {
	f := NewField(width, height)
	pool.Rows(height, func(y0, y1 int) {
		for _, cp := range cps {
			if cp.Sigma <= 0 || cp.Displacement.IsZero() {
				continue
			}
			r := cp.Radius()
			cutoff := r * r
			inv := 1 / (2 * cp.Sigma * cp.Sigma)

			minY := max(y0, int(math.Ceil(cp.Position.Y-r)))
			maxY := min(y1-1, int(math.Floor(cp.Position.Y+r)))
			minX := max(0, int(math.Ceil(cp.Position.X-r)))
			maxX := min(width-1, int(math.Floor(cp.Position.X+r)))

			for y := minY; y <= maxY; y++ {
				dy := float64(y) - cp.Position.Y
				row := y * width
				for x := minX; x <= maxX; x++ {
					dx := float64(x) - cp.Position.X
					d2 := dx*dx + dy*dy
					if d2 > cutoff {
						continue
					}
					wt := math.Exp(-d2 * inv)
					f.dx[row+x] += float32(cp.Displacement.X * wt)
					f.dy[row+x] += float32(cp.Displacement.Y * wt)
				}
			}
		}
	})
	f.dirty = len(cps) > 0
	return f
}

package filter

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/gogpu/retouch/internal/parallel"
)

// VignetteStart is the normalized radius where darkening begins.
const VignetteStart = 0.35

// Vignette darkens pixels of the w x h RGBA buffer pix in place by their
// distance from the image center. Distances are normalized by the half
// diagonal, so the overlay looks the same at every resolution. Below
// VignetteStart nothing changes; beyond it the darkening follows curve up
// to amount at the corners. A nil curve uses ease.InOutQuad.
func Vignette(pool *parallel.WorkerPool, pix []uint8, w, h int, amount float64, curve ease.TweenFunc) {
	if amount <= 0 {
		return
	}
	if curve == nil {
		curve = ease.InOutQuad
	}
	cx, cy := float64(w-1)/2, float64(h-1)/2
	halfDiag := math.Hypot(float64(w), float64(h)) / 2

	pool.Rows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			dy := float64(y) - cy
			for x := 0; x < w; x++ {
				d := math.Hypot(float64(x)-cx, dy) / halfDiag
				if d <= VignetteStart {
					continue
				}
				t := float32(math.Min(1, (d-VignetteStart)/(1-VignetteStart)))
				k := 1 - float32(amount)*curve(t, 0, 1, 1)
				o := (y*w + x) * 4
				pix[o+0] = clampUint8(float32(pix[o+0]) * k)
				pix[o+1] = clampUint8(float32(pix[o+1]) * k)
				pix[o+2] = clampUint8(float32(pix[o+2]) * k)
			}
		}
	})
}

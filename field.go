package retouch

import (
	"math"

	"github.com/gogpu/retouch/internal/parallel"
)

// PullFraction scales pull and expand strokes: at full weight a pixel moves
// this fraction of the brush radius toward or away from the brush center.
const PullFraction = 0.1

// brushSigmaDivisor sets the brush falloff: sigma = radius / 2.5.
const brushSigmaDivisor = 2.5

// BrushMode selects how a stroke combines its weight into a field.
type BrushMode int

// Brush modes.
const (
	// BrushPush adds the stroke's Drag vector scaled by weight.
	BrushPush BrushMode = iota
	// BrushPull adds a vector toward the brush center.
	BrushPull
	// BrushShrink behaves exactly like BrushPull.
	BrushShrink
	// BrushExpand adds a vector away from the brush center.
	BrushExpand
	// BrushRestore decays existing values toward zero by (1 - weight).
	BrushRestore
)

// String returns the mode name.
func (m BrushMode) String() string {
	switch m {
	case BrushPush:
		return "push"
	case BrushPull:
		return "pull"
	case BrushShrink:
		return "shrink"
	case BrushExpand:
		return "expand"
	case BrushRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// ParseBrushMode returns the mode named s.
func ParseBrushMode(s string) (BrushMode, bool) {
	for m := BrushPush; m <= BrushRestore; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return BrushPush, false
}

// Stroke is one brush dab on a displacement field.
type Stroke struct {
	Center   Point
	Radius   float64
	Mode     BrushMode
	Strength float64

	// Drag is the vector BrushPush adds at full weight. Fields are applied by
	// sampling at (x+dx, y+dy), so content under the brush shifts by -Drag.
	Drag Point
}

// weight returns the brush weight at squared distance d2 from the center.
func (s Stroke) weight(d2 float64) float64 {
	if d2 > s.Radius*s.Radius {
		return 0
	}
	sigma := s.Radius / brushSigmaDivisor
	return s.Strength * math.Exp(-d2/(2*sigma*sigma))
}

// Field is a dense per-pixel displacement grid for freehand liquify edits.
// Values are in the pixel units of the space the field belongs to.
//
// Fields are copy-on-write: every editing method returns a new Field and
// leaves the receiver untouched, so history snapshots stay stable.
type Field struct {
	id     uint64
	width  int
	height int
	dx, dy []float32

	// dirty is false only when every value is known to be zero.
	dirty bool
}

// NewField creates a zero field.
func NewField(width, height int) *Field {
	return &Field{
		id:     nextBufferID(),
		width:  width,
		height: height,
		dx:     make([]float32, width*height),
		dy:     make([]float32, width*height),
	}
}

// NewFieldFromData wraps caller-allocated grids without copying.
// Both grids must hold exactly width*height values.
func NewFieldFromData(width, height int, dx, dy []float32) (*Field, error) {
	n := width * height
	if width <= 0 || height <= 0 || len(dx) != n || len(dy) != n {
		return nil, ErrInvalidDimensions
	}
	return &Field{id: nextBufferID(), width: width, height: height, dx: dx, dy: dy, dirty: true}, nil
}

// ID returns the buffer identity.
func (f *Field) ID() uint64 { return f.id }

// Width returns the field width.
func (f *Field) Width() int { return f.width }

// Height returns the field height.
func (f *Field) Height() int { return f.height }

// Data returns the underlying dx and dy grids. Callers must not mutate them.
func (f *Field) Data() (dx, dy []float32) { return f.dx, f.dy }

// At returns the displacement at (x, y), zero outside the field.
func (f *Field) At(x, y int) Point {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Point{}
	}
	i := y*f.width + x
	return Point{X: float64(f.dx[i]), Y: float64(f.dy[i])}
}

// Clone returns a deep copy with a new identity.
func (f *Field) Clone() *Field {
	c := NewField(f.width, f.height)
	copy(c.dx, f.dx)
	copy(c.dy, f.dy)
	c.dirty = f.dirty
	return c
}

// Zeroed returns a new all-zero field of the same size.
func (f *Field) Zeroed() *Field {
	return NewField(f.width, f.height)
}

// IsZero reports whether every displacement is zero. Untouched fields answer
// immediately; edited fields are probed on a sparse lattice first and only
// scanned in full when every probe is zero, so the answer is always exact.
func (f *Field) IsZero() bool {
	if f == nil || !f.dirty {
		return true
	}
	return allZero(f.dx) && allZero(f.dy)
}

// WithStrokes returns a copy of f with strokes applied. Additive modes run
// first in order; restore strokes run after all of them.
func (f *Field) WithStrokes(strokes ...Stroke) *Field {
	out := f.Clone()
	for _, s := range strokes {
		if s.Mode != BrushRestore {
			out.stroke(s)
		}
	}
	for _, s := range strokes {
		if s.Mode == BrushRestore {
			out.stroke(s)
		}
	}
	return out
}

// stroke mutates f in place; only WithStrokes calls it on a fresh clone.
func (f *Field) stroke(s Stroke) {
	if s.Radius <= 0 || s.Strength == 0 {
		return
	}
	minX := max(0, int(math.Ceil(s.Center.X-s.Radius)))
	maxX := min(f.width-1, int(math.Floor(s.Center.X+s.Radius)))
	minY := max(0, int(math.Ceil(s.Center.Y-s.Radius)))
	maxY := min(f.height-1, int(math.Floor(s.Center.Y+s.Radius)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := Point{X: float64(x), Y: float64(y)}
			toCenter := s.Center.Sub(p)
			w := s.weight(toCenter.LengthSquared())
			if w == 0 {
				continue
			}
			i := y*f.width + x

			var add Point
			switch s.Mode {
			case BrushPush:
				add = s.Drag.Mul(w)
			case BrushPull, BrushShrink:
				add = toCenter.Normalize().Mul(w * PullFraction * s.Radius)
			case BrushExpand:
				add = toCenter.Normalize().Mul(-w * PullFraction * s.Radius)
			case BrushRestore:
				keep := float32(1 - math.Min(1, math.Abs(w)))
				f.dx[i] *= keep
				f.dy[i] *= keep
				continue
			}
			f.dx[i] += float32(add.X)
			f.dy[i] += float32(add.Y)
			f.dirty = true
		}
	}
}

// Apply returns src warped by the field: output pixel (x, y) samples src at
// (x+dx, y+dy) with the same bilinear, edge-clamped sampler as Warp.
// A zero field returns src itself. src must have the field's dimensions.
func (f *Field) Apply(src *Pixmap) *Pixmap {
	return f.applyWith(parallel.Default(), src)
}

func (f *Field) applyWith(pool *parallel.WorkerPool, src *Pixmap) *Pixmap {
	if src == nil || f.IsZero() {
		return src
	}
	return remapByField(pool, src, f.dx, f.dy, 1)
}

// probeStride is the lattice spacing of the sparse presence check.
const probeStride = 61

// allZero reports whether every value of v is zero, probing a sparse
// lattice before falling back to a full scan.
func allZero(v []float32) bool {
	for i := 0; i < len(v); i += probeStride {
		if v[i] != 0 {
			return false
		}
	}
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

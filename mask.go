package retouch

import (
	"image"
	"math"
)

// Mask is a dense per-pixel membership grid with values in [0, 1], used to
// localize skin smoothing and privacy blur. Like Field it is copy-on-write:
// painting returns a new Mask.
type Mask struct {
	id     uint64
	width  int
	height int
	data   []float32
	dirty  bool
}

// NewMask creates an empty mask with the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		id:     nextBufferID(),
		width:  width,
		height: height,
		data:   make([]float32, width*height),
	}
}

// NewMaskFromData wraps caller-allocated values without copying.
func NewMaskFromData(width, height int, data []float32) (*Mask, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, ErrInvalidDimensions
	}
	return &Mask{id: nextBufferID(), width: width, height: height, data: data, dirty: true}, nil
}

// NewMaskFromAlpha creates a mask from an image's alpha channel.
func NewMaskFromAlpha(img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := NewMask(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			if a != 0 {
				m.data[y*w+x] = float32(a) / 0xffff
				m.dirty = true
			}
		}
	}
	return m
}

// ID returns the buffer identity.
func (m *Mask) ID() uint64 { return m.id }

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Data returns the underlying values. Callers must not mutate them.
func (m *Mask) Data() []float32 { return m.data }

// At returns the mask value at (x, y), zero outside the mask.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Clone returns a deep copy with a new identity.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.width, m.height)
	copy(c.data, m.data)
	c.dirty = m.dirty
	return c
}

// IsZero reports whether every value is zero. The check is exact; see
// Field.IsZero for how it stays cheap.
func (m *Mask) IsZero() bool {
	if m == nil || !m.dirty {
		return true
	}
	return allZero(m.data)
}

// Dab is one brush stamp painted into a mask.
type Dab struct {
	Center Point
	Radius float64
	// Value is the level painted at the dab center, in [0, 1].
	Value float32
	// Hardness in [0, 1] is the fraction of the radius painted at full
	// value before the edge fades out linearly.
	Hardness float64
	// Erase lowers existing values toward zero instead of raising them.
	Erase bool
}

// WithDabs returns a copy of m with dabs painted in order. Painting keeps
// the maximum of the existing value and the dab (or the minimum when
// erasing), so repeated dabs never exceed Value.
func (m *Mask) WithDabs(dabs ...Dab) *Mask {
	out := m.Clone()
	for _, d := range dabs {
		out.paint(d)
	}
	return out
}

func (m *Mask) paint(d Dab) {
	if d.Radius <= 0 {
		return
	}
	hard := clampFloat(d.Hardness, 0, 1) * d.Radius
	minX := max(0, int(math.Ceil(d.Center.X-d.Radius)))
	maxX := min(m.width-1, int(math.Floor(d.Center.X+d.Radius)))
	minY := max(0, int(math.Ceil(d.Center.Y-d.Radius)))
	maxY := min(m.height-1, int(math.Floor(d.Center.Y+d.Radius)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dist := Point{X: float64(x), Y: float64(y)}.Distance(d.Center)
			if dist > d.Radius {
				continue
			}
			cover := 1.0
			if dist > hard {
				cover = (d.Radius - dist) / (d.Radius - hard)
			}
			level := d.Value * float32(cover)
			i := y*m.width + x
			if d.Erase {
				m.data[i] = min(m.data[i], 1-level)
				continue
			}
			if level > m.data[i] {
				m.data[i] = level
				m.dirty = true
			}
		}
	}
}

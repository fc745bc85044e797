package retouch

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoding for LoadImage
	"image/png"
	"os"
	"sync/atomic"

	_ "golang.org/x/image/bmp" // register BMP decoding for LoadImage
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoding for LoadImage
	_ "golang.org/x/image/webp" // register WebP decoding for LoadImage
)

// bufferIDs hands out identities for pixel, mask and field buffers.
// The compositor keys its base cache on these ids instead of hashing pixels.
var bufferIDs atomic.Uint64

func nextBufferID() uint64 {
	return bufferIDs.Add(1)
}

// Pixmap represents a rectangular RGBA pixel buffer with straight
// (non-premultiplied) alpha, 4 bytes per pixel, row-major.
//
// A Pixmap handed to a Compositor or Session is treated as immutable:
// mutate a Clone instead, otherwise cached results go stale.
type Pixmap struct {
	id     uint64
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		id:     nextBufferID(),
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// NewPixmapFromData wraps existing RGBA data without copying.
// Returns ErrInvalidDimensions if data does not hold exactly width*height*4 bytes.
func NewPixmapFromData(width, height int, data []uint8) (*Pixmap, error) {
	if width <= 0 || height <= 0 || len(data) != width*height*4 {
		return nil, ErrInvalidDimensions
	}
	return &Pixmap{id: nextBufferID(), width: width, height: height, data: data}, nil
}

// ID returns the buffer identity used for caching.
func (p *Pixmap) ID() uint64 { return p.id }

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 { return p.data }

// RGBA returns the channels of pixel (x, y).
// Coordinates outside the pixmap return zero.
func (p *Pixmap) RGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetRGBA sets the channels of pixel (x, y). Out of range coordinates are ignored.
func (p *Pixmap) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i], p.data[i+1], p.data[i+2], p.data[i+3] = r, g, b, a
}

// Fill sets every pixel to the given color.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone creates a deep copy of the pixmap with a new identity.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.width, p.height)
	copy(c.data, p.data)
	return c
}

// SameSize reports whether q has the same dimensions as p.
func (p *Pixmap) SameSize(q *Pixmap) bool {
	return q != nil && p.width == q.width && p.height == q.height
}

// Resize returns a copy of the pixmap scaled to width x height using
// Catmull-Rom resampling. It is used to derive the display-resolution
// working buffer from a full-resolution source.
func (p *Pixmap) Resize(width, height int) *Pixmap {
	if width == p.width && height == p.height {
		return p.Clone()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), p.ToImage(), image.Rect(0, 0, p.width, p.height), xdraw.Src, nil)
	return &Pixmap{id: nextBufferID(), width: width, height: height, data: dst.Pix}
}

// ToImage converts the pixmap to an image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from any image.Image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return &Pixmap{id: nextBufferID(), width: bounds.Dx(), height: bounds.Dy(), data: dst.Pix}
}

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file into a pixmap.
func LoadImage(path string) (*Pixmap, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("retouch: decode %s: %w", path, err)
	}
	Logger().Debug("retouch: image loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return FromImage(img), nil
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

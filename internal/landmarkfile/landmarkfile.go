// Package landmarkfile reads face landmarks exported by an external face
// mesh detector as JSON, and serves them through retouch.LandmarkProvider.
//
// The format is
//
//	{
//	  "width": 1280, "height": 960,
//	  "normalized": false,
//	  "landmarks": [{"x": 612.4, "y": 388.1, "z": -12.0}, ...]
//	}
//
// Normalized files hold coordinates in [0, 1] of the image size, as most
// mesh detectors emit them. Pixel files recorded at a different width are
// rescaled to the image they are applied to.
package landmarkfile

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/gogpu/retouch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Point is one serialized landmark.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// File is the on-disk document.
type File struct {
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Normalized bool    `json:"normalized,omitempty"`
	Landmarks  []Point `json:"landmarks"`
}

// Decode reads a landmark document from r.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("landmarkfile: decode: %w", err)
	}
	return &f, nil
}

// Encode writes lm as a pixel-space document recorded at width x height.
func Encode(w io.Writer, lm retouch.Landmarks, width, height int) error {
	f := File{Width: width, Height: height, Landmarks: make([]Point, len(lm))}
	for i, l := range lm {
		f.Landmarks[i] = Point{X: l.X, Y: l.Y, Z: l.Z}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("landmarkfile: encode: %w", err)
	}
	return nil
}

// Landmarks converts the document into pixel space of a width x height image.
func (f *File) Landmarks(width, height int) retouch.Landmarks {
	sx, sy := 1.0, 1.0
	switch {
	case f.Normalized:
		sx, sy = float64(width), float64(height)
	case f.Width > 0 && f.Width != width:
		sx = float64(width) / float64(f.Width)
		sy = sx
		if f.Height > 0 {
			sy = float64(height) / float64(f.Height)
		}
	}

	lm := make(retouch.Landmarks, len(f.Landmarks))
	for i, p := range f.Landmarks {
		lm[i] = retouch.Landmark{X: p.X * sx, Y: p.Y * sy, Z: p.Z * sx}
	}
	return lm
}

// Provider serves the landmarks of one JSON file. The file is read on every
// Detect call, so an external detector may rewrite it between calls.
type Provider struct {
	Path string
}

// NewProvider returns a provider reading path.
func NewProvider(path string) *Provider {
	return &Provider{Path: path}
}

// Detect implements retouch.LandmarkProvider. A document without landmarks
// yields retouch.ErrNoLandmarks.
func (p *Provider) Detect(ctx context.Context, img *retouch.Pixmap) (retouch.Landmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("landmarkfile: %w", err)
	}
	defer func() {
		_ = fh.Close()
	}()

	f, err := Decode(fh)
	if err != nil {
		return nil, err
	}
	if len(f.Landmarks) == 0 {
		return nil, retouch.ErrNoLandmarks
	}
	retouch.Logger().Debug("landmarkfile: loaded",
		"path", p.Path,
		"count", len(f.Landmarks),
		"normalized", f.Normalized)
	return f.Landmarks(img.Width(), img.Height()), nil
}

var _ retouch.LandmarkProvider = (*Provider)(nil)

package retouch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExportRequest carries an edit made on a display-resolution preview and
// the full-resolution source it should be replayed on.
type ExportRequest struct {
	// Source is the full-resolution image.
	Source *Pixmap

	// Edit is the preview edit state in display space. Edit.Image is
	// ignored; Source takes its place.
	Edit Inputs

	// Ratio converts display coordinates into source coordinates.
	// Zero derives it from Source.Width / Edit.Image.Width.
	Ratio float64
}

// Export replays req on its source with a default Compositor.
func Export(ctx context.Context, req ExportRequest) (*Pixmap, error) {
	return NewCompositor(WithCacheSize(1)).Export(ctx, req)
}

// Export replays req on its source: landmarks and anchors are scaled by the
// ratio, masks are resampled nearest-neighbor and the liquify field
// bilinearly with its vectors scaled, then every stage runs at full
// resolution. Rescaling runs concurrently. The result bypasses the base
// cache.
//
// The only errors are a missing source and cancellation of ctx.
func (c *Compositor) Export(ctx context.Context, req ExportRequest) (*Pixmap, error) {
	if req.Source == nil {
		return nil, ErrInvalidDimensions
	}
	start := time.Now()
	ratio := req.Ratio
	if ratio <= 0 {
		ratio = 1
		if req.Edit.Image != nil && req.Edit.Image.width > 0 {
			ratio = float64(req.Source.width) / float64(req.Edit.Image.width)
		}
	}
	w, h := req.Source.width, req.Source.height

	in := req.Edit
	in.Image = req.Source
	in.Anchors = in.Anchors.Scale(ratio)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		in.Landmarks = ScaleLandmarks(req.Edit.Landmarks, ratio)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		in.SkinMask = ResampleMask(req.Edit.SkinMask, w, h)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		in.PrivacyMask = ResampleMask(req.Edit.PrivacyMask, w, h)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		if req.Edit.Liquify != nil {
			in.Liquify = ResampleField(req.Edit.Liquify, w, h)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retouch: export rescale: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("retouch: export: %w", err)
	}

	out := c.renderUncached(in)
	Logger().Info("retouch: export complete",
		"width", w,
		"height", h,
		"ratio", ratio,
		"elapsed", time.Since(start))
	return out, nil
}

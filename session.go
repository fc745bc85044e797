package retouch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
)

// Session is one image being edited. It derives a display-resolution
// working buffer from the full-resolution source, keeps the edit state in
// display space, renders previews through a Compositor and exports at full
// resolution.
//
// Every edit replaces state buffers whole (copy-on-write), so a Snapshot
// taken before an edit stays valid for undo.
//
// Thread safety: Session is safe for concurrent use. Detect may run on its
// own goroutine while the UI keeps rendering.
type Session struct {
	id      uuid.UUID
	comp    *Compositor
	source  *Pixmap
	display *Pixmap
	ratio   float64

	mu    sync.RWMutex
	state Inputs
}

// NewSession starts a session on source. When the longer side of source
// exceeds maxDisplay the working buffer is a downscaled copy; a
// non-positive maxDisplay edits at full resolution.
func NewSession(source *Pixmap, maxDisplay int, opts ...CompositorOption) *Session {
	display, ratio := source, 1.0
	if long := max(source.width, source.height); maxDisplay > 0 && long > maxDisplay {
		scale := float64(maxDisplay) / float64(long)
		dw := max(1, int(math.Round(float64(source.width)*scale)))
		dh := max(1, int(math.Round(float64(source.height)*scale)))
		display = source.Resize(dw, dh)
		ratio = float64(source.width) / float64(dw)
	}

	s := &Session{
		id:      uuid.New(),
		comp:    NewCompositor(opts...),
		source:  source,
		display: display,
		ratio:   ratio,
	}
	s.state = Inputs{
		Image:       display,
		Adjustments: Adjustments{},
		SkinMask:    NewMask(display.width, display.height),
		PrivacyMask: NewMask(display.width, display.height),
		Liquify:     NewField(display.width, display.height),
	}
	s.logger().Debug("retouch: session started",
		"source_width", source.width,
		"source_height", source.height,
		"display_width", display.width,
		"display_height", display.height,
		"ratio", ratio)
	return s
}

func (s *Session) logger() *slog.Logger {
	return Logger().With("session", s.id.String())
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id.String() }

// Source returns the full-resolution image.
func (s *Session) Source() *Pixmap { return s.source }

// Display returns the working buffer all edits are expressed in.
func (s *Session) Display() *Pixmap { return s.display }

// Ratio returns the display-to-source coordinate ratio.
func (s *Session) Ratio() float64 { return s.ratio }

// Detect runs provider on the display buffer and stores the result.
// When the provider fails or returns fewer than MinLandmarks points the
// previous landmarks stay in place and the error is returned.
func (s *Session) Detect(ctx context.Context, provider LandmarkProvider) error {
	lm, err := provider.Detect(ctx, s.display)
	if err != nil {
		s.logger().Warn("retouch: landmark detection failed, keeping previous landmarks", "error", err)
		return fmt.Errorf("retouch: detect: %w", err)
	}
	if !lm.Valid() {
		s.logger().Warn("retouch: too few landmarks, keeping previous landmarks",
			"count", len(lm), "min", MinLandmarks)
		return ErrNoLandmarks
	}
	s.SetLandmarks(lm)
	return nil
}

// Landmarks returns the current landmarks in display space.
func (s *Session) Landmarks() Landmarks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Landmarks
}

// SetLandmarks replaces the landmarks. Sets below MinLandmarks are stored
// as nil.
func (s *Session) SetLandmarks(lm Landmarks) {
	if !lm.Valid() {
		lm = nil
	}
	s.update(func(in *Inputs) { in.Landmarks = lm })
}

// SetAdjustment sets one slider.
func (s *Session) SetAdjustment(key AdjustmentKey, v float64) {
	s.update(func(in *Inputs) {
		adj := in.Adjustments.Clone()
		adj[key] = v
		in.Adjustments = adj
	})
}

// SetAnchor places body anchor n at p in display space.
func (s *Session) SetAnchor(n AnchorName, p Point) {
	s.update(func(in *Inputs) { in.Anchors = in.Anchors.With(n, p) })
}

// ClearAnchor removes body anchor n.
func (s *Session) ClearAnchor(n AnchorName) {
	s.update(func(in *Inputs) { in.Anchors = in.Anchors.Without(n) })
}

// Liquify applies brush strokes to the liquify field.
func (s *Session) Liquify(strokes ...Stroke) {
	s.update(func(in *Inputs) { in.Liquify = in.Liquify.WithStrokes(strokes...) })
}

// ResetLiquify replaces the liquify field with a zero field.
func (s *Session) ResetLiquify() {
	s.update(func(in *Inputs) { in.Liquify = in.Liquify.Zeroed() })
}

// PaintSkin paints dabs into the skin smoothing mask.
func (s *Session) PaintSkin(dabs ...Dab) {
	s.update(func(in *Inputs) { in.SkinMask = in.SkinMask.WithDabs(dabs...) })
}

// PaintPrivacy paints dabs into the privacy blur mask.
func (s *Session) PaintPrivacy(dabs ...Dab) {
	s.update(func(in *Inputs) { in.PrivacyMask = in.PrivacyMask.WithDabs(dabs...) })
}

// SetSkinSmooth sets the skin smoothing strength, 0..100.
func (s *Session) SetSkinSmooth(v float64) {
	s.update(func(in *Inputs) { in.SkinSmooth = v })
}

// SetPrivacyBlur sets the privacy blur strength, 0..100.
func (s *Session) SetPrivacyBlur(v float64) {
	s.update(func(in *Inputs) { in.PrivacyBlur = v })
}

// SetTone replaces the tone sliders.
func (s *Session) SetTone(t Tone) {
	s.update(func(in *Inputs) { in.Tone = t })
}

// SetFilter replaces the stylistic filter.
func (s *Session) SetFilter(f Filter) {
	s.update(func(in *Inputs) { in.Filter = f })
}

// SetVignette sets the vignette amount, 0..100.
func (s *Session) SetVignette(v float64) {
	s.update(func(in *Inputs) { in.Vignette = v })
}

// Snapshot returns the current edit state. Its buffers are never mutated
// afterwards, so it can be kept for undo.
func (s *Session) Snapshot() Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Restore replaces the edit state with a snapshot taken from this session.
func (s *Session) Restore(in Inputs) {
	in.Image = s.display
	s.mu.Lock()
	s.state = in
	s.mu.Unlock()
}

// Render composites the current state at display resolution.
func (s *Session) Render() *Pixmap {
	return s.comp.Render(s.Snapshot())
}

// Export composites the current state on the full-resolution source.
func (s *Session) Export(ctx context.Context) (*Pixmap, error) {
	out, err := s.comp.Export(ctx, ExportRequest{
		Source: s.source,
		Edit:   s.Snapshot(),
		Ratio:  s.ratio,
	})
	if err != nil {
		s.logger().Warn("retouch: export failed", "error", err)
		return nil, err
	}
	return out, nil
}

// Close releases the session's compositor resources.
func (s *Session) Close() {
	s.comp.Close()
}

func (s *Session) update(fn func(*Inputs)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

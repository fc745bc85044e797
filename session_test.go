package retouch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalProvider(width float64) LandmarkProvider {
	return LandmarkProviderFunc(func(_ context.Context, img *Pixmap) (Landmarks, error) {
		c := Pt(float64(img.Width())/2, float64(img.Height())/2)
		return CanonicalLandmarks(c, width), nil
	})
}

func TestNewSessionDisplay(t *testing.T) {
	src := rampPixmap(400, 200)

	s := NewSession(src, 100)
	defer s.Close()
	assert.Equal(t, 100, s.Display().Width())
	assert.Equal(t, 50, s.Display().Height())
	assert.InDelta(t, 4, s.Ratio(), 1e-12)
	assert.Same(t, src, s.Source())
	_, err := uuid.Parse(s.ID())
	assert.NoError(t, err)

	full := NewSession(src, 0)
	defer full.Close()
	assert.Same(t, src, full.Display())
	assert.Equal(t, 1.0, full.Ratio())

	small := NewSession(src, 1000)
	defer small.Close()
	assert.Same(t, src, small.Display())
}

func TestSessionDetectKeepsPreviousOnFailure(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	s := NewSession(rampPixmap(200, 200), 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Detect(ctx, canonicalProvider(60)))
	good := s.Landmarks()
	require.True(t, good.Valid())

	boom := errors.New("model not loaded")
	err := s.Detect(ctx, LandmarkProviderFunc(func(context.Context, *Pixmap) (Landmarks, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, good, s.Landmarks())

	err = s.Detect(ctx, LandmarkProviderFunc(func(context.Context, *Pixmap) (Landmarks, error) {
		return make(Landmarks, 10), nil
	}))
	assert.ErrorIs(t, err, ErrNoLandmarks)
	assert.Equal(t, good, s.Landmarks())

	assert.Contains(t, buf.String(), "keeping previous landmarks")
	assert.Contains(t, buf.String(), "session="+s.ID())
}

func TestSessionDetectUsesDisplayBuffer(t *testing.T) {
	s := NewSession(rampPixmap(300, 300), 150)
	defer s.Close()

	var seen *Pixmap
	err := s.Detect(context.Background(), LandmarkProviderFunc(func(_ context.Context, img *Pixmap) (Landmarks, error) {
		seen = img
		return CanonicalLandmarks(Pt(75, 75), 40), nil
	}))
	require.NoError(t, err)
	assert.Same(t, s.Display(), seen)
}

func TestSessionEditsAreCopyOnWrite(t *testing.T) {
	s := NewSession(radialPixmap(160, 160, 80, 80), 0)
	defer s.Close()
	s.SetLandmarks(CanonicalLandmarks(Pt(80, 80), 50))

	before := s.Snapshot()
	s.SetAdjustment(SmallFace, 40)
	s.Liquify(Stroke{Center: Pt(80, 80), Radius: 15, Mode: BrushPull, Strength: 1})
	s.PaintSkin(Dab{Center: Pt(80, 80), Radius: 20, Value: 1, Hardness: 1})
	s.PaintPrivacy(Dab{Center: Pt(10, 10), Radius: 5, Value: 1, Hardness: 1})
	s.SetAnchor(AnchorChest, Pt(80, 120))
	after := s.Snapshot()

	assert.Empty(t, before.Adjustments)
	assert.True(t, before.Liquify.IsZero())
	assert.True(t, before.SkinMask.IsZero())
	assert.True(t, before.PrivacyMask.IsZero())
	_, ok := before.Anchors.Get(AnchorChest)
	assert.False(t, ok)

	assert.Equal(t, 40.0, after.Adjustments[SmallFace])
	assert.False(t, after.Liquify.IsZero())
	assert.False(t, after.SkinMask.IsZero())

	edited := s.Render()
	s.Restore(before)
	requireSamePixels(t, s.Display(), s.Render())

	s.Restore(after)
	requireSamePixels(t, edited, s.Render())
}

func TestSessionResetLiquifyAndClearAnchor(t *testing.T) {
	s := NewSession(rampPixmap(64, 64), 0)
	defer s.Close()

	s.Liquify(Stroke{Center: Pt(32, 32), Radius: 10, Mode: BrushPush, Strength: 1, Drag: Pt(3, 0)})
	s.ResetLiquify()
	assert.True(t, s.Snapshot().Liquify.IsZero())

	s.SetAnchor(AnchorWaist, Pt(32, 40))
	s.ClearAnchor(AnchorWaist)
	_, ok := s.Snapshot().Anchors.Get(AnchorWaist)
	assert.False(t, ok)

	s.SetLandmarks(make(Landmarks, 5))
	assert.Nil(t, s.Landmarks())
}

func TestSessionSliders(t *testing.T) {
	s := NewSession(rampPixmap(64, 64), 0)
	defer s.Close()

	s.SetTone(Tone{Exposure: 10})
	s.SetFilter(Filter{Preset: FilterCool, Intensity: 70})
	s.SetVignette(25)
	s.SetSkinSmooth(40)
	s.SetPrivacyBlur(90)

	in := s.Snapshot()
	assert.Equal(t, Tone{Exposure: 10}, in.Tone)
	assert.Equal(t, Filter{Preset: FilterCool, Intensity: 70}, in.Filter)
	assert.Equal(t, 25.0, in.Vignette)
	assert.Equal(t, 40.0, in.SkinSmooth)
	assert.Equal(t, 90.0, in.PrivacyBlur)
}

func TestSessionExport(t *testing.T) {
	src := radialPixmap(300, 240, 150, 120)
	s := NewSession(src, 150)
	defer s.Close()

	require.NoError(t, s.Detect(context.Background(), canonicalProvider(50)))
	s.SetAdjustment(SmallFace, 30)
	s.Liquify(Stroke{Center: Pt(75, 60), Radius: 10, Mode: BrushExpand, Strength: 1})

	out, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, out.Width())
	assert.Equal(t, 240, out.Height())

	// At full resolution, far corners stay untouched.
	requireSamePixelAt(t, src, out, 0, 0)
	requireSamePixelAt(t, src, out, 299, 239)
}

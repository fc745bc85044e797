package retouch

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/retouch/internal/filter"
	"github.com/gogpu/retouch/internal/parallel"
)

// Blur radii as fractions of the shorter image side, so masked effects look
// the same on the preview and on the full resolution export.
const (
	SkinBlurFraction    = 0.008
	PrivacyBlurFraction = 0.04
	textureBlurFraction = 0.004
)

// Inputs is everything one render depends on. Buffers are treated as
// immutable: a caller that edits a field or mask must pass the new buffer
// returned by WithStrokes or WithDabs, never mutate one in place.
type Inputs struct {
	Image       *Pixmap
	Landmarks   Landmarks
	Adjustments Adjustments
	Anchors     Anchors

	SkinMask   *Mask
	SkinSmooth float64 // 0..100

	PrivacyMask *Mask
	PrivacyBlur float64 // 0..100

	Tone   Tone
	Filter Filter

	Liquify  *Field
	Vignette float64 // 0..100
}

// baseKey identifies the output of stages (1) to (6). Buffers are keyed by
// their ids and landmarks by the identity of their backing array.
type baseKey struct {
	image       uint64
	landmarks   *Landmark
	lmCount     int
	adjustments string
	anchors     Anchors
	skin        uint64
	skinAmount  float64
	privacy     uint64
	privAmount  float64
	tone        Tone
	filter      Filter
}

func newBaseKey(in Inputs) baseKey {
	k := baseKey{
		image:       in.Image.id,
		lmCount:     len(in.Landmarks),
		adjustments: in.Adjustments.fingerprint(),
		anchors:     in.Anchors,
		tone:        in.Tone,
		filter:      in.Filter,
	}
	if len(in.Landmarks) > 0 {
		k.landmarks = &in.Landmarks[0]
	}
	if activeMask(in.SkinMask, in.SkinSmooth) {
		k.skin, k.skinAmount = in.SkinMask.id, in.SkinSmooth
	}
	if activeMask(in.PrivacyMask, in.PrivacyBlur) {
		k.privacy, k.privAmount = in.PrivacyMask.id, in.PrivacyBlur
	}
	if k.filter.IsZero() {
		k.filter = Filter{}
	}
	return k
}

func activeMask(m *Mask, amount float64) bool {
	return m != nil && amount > 0 && !m.IsZero()
}

// baseEntry is a cached base image plus its lazily blurred copy for the
// texture-preserving blend.
type baseEntry struct {
	img *Pixmap

	blurOnce sync.Once
	blurred  *Pixmap
}

// CacheStats reports base cache activity.
type CacheStats struct {
	Hits   int64
	Misses int64
	Len    int
}

// Compositor runs the fixed edit pipeline:
//
//	(1) face warp      (5) tone
//	(2) body warp      (6) stylistic filter
//	(3) skin smoothing (7) liquify field
//	(4) privacy blur   (8) vignette
//
// Stages (1) to (6) form the base image, which is cached, so dragging a
// liquify brush or the vignette slider only reruns (7) and (8).
//
// Thread safety: Render may be called concurrently.
type Compositor struct {
	builder        *Builder
	bodyRules      []BodyRule
	pool           *parallel.WorkerPool
	ownPool        bool
	textureFalloff float64
	vignetteCurve  ease.TweenFunc

	cache  *lru.Cache[baseKey, *baseEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCompositor creates a compositor with the given options.
func NewCompositor(opts ...CompositorOption) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Compositor{
		builder:        o.builder,
		bodyRules:      o.bodyRules,
		pool:           o.pool,
		ownPool:        o.pool != nil,
		textureFalloff: o.textureFalloff,
		vignetteCurve:  o.vignetteCurve,
	}
	if c.builder == nil {
		c.builder = NewBuilder()
	}
	if c.bodyRules == nil {
		c.bodyRules = BodyRules()
	}
	if c.pool == nil {
		c.pool = parallel.Default()
	}

	// lru.New only fails for a non-positive size.
	cache, err := lru.New[baseKey, *baseEntry](max(o.cacheSize, 1))
	if err != nil {
		panic(err)
	}
	c.cache = cache
	return c
}

// Render runs the pipeline over in and returns the composited image.
// The result may share memory with the cache or with in.Image and must be
// treated as read-only. A nil in.Image returns nil.
func (c *Compositor) Render(in Inputs) *Pixmap {
	if in.Image == nil {
		return nil
	}
	start := time.Now()
	out := c.finish(c.cachedBase(in), in)
	Logger().Debug("retouch: render",
		"width", out.width,
		"height", out.height,
		"elapsed", time.Since(start))
	return out
}

// Base returns the output of stages (1) to (6), from the cache when the
// inputs are unchanged.
func (c *Compositor) Base(in Inputs) *Pixmap {
	if in.Image == nil {
		return nil
	}
	return c.cachedBase(in).img
}

// Stats returns the base cache counters.
func (c *Compositor) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Len:    c.cache.Len(),
	}
}

// Purge empties the base cache.
func (c *Compositor) Purge() {
	c.cache.Purge()
}

// Close purges the cache and stops a pool created by WithWorkers.
func (c *Compositor) Close() {
	c.cache.Purge()
	if c.ownPool {
		c.pool.Close()
	}
}

// renderUncached runs every stage without touching the cache. Export uses
// it so full resolution buffers never evict preview bases.
func (c *Compositor) renderUncached(in Inputs) *Pixmap {
	return c.finish(&baseEntry{img: c.renderBase(in)}, in)
}

func (c *Compositor) cachedBase(in Inputs) *baseEntry {
	key := newBaseKey(in)
	if e, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		Logger().Debug("retouch: base cache hit", "image", key.image)
		return e
	}
	c.misses.Add(1)
	e := &baseEntry{img: c.renderBase(in)}
	c.cache.Add(key, e)
	Logger().Debug("retouch: base cache miss", "image", key.image, "cached", c.cache.Len())
	return e
}

// renderBase runs stages (1) to (6). Stages that have nothing to do pass
// their input through, so an identity edit returns in.Image itself.
func (c *Compositor) renderBase(in Inputs) *Pixmap {
	start := time.Now()
	img := in.Image
	w, h := img.width, img.height

	img = warpWith(c.pool, img, c.builder.Build(in.Landmarks, in.Adjustments))
	img = warpWith(c.pool, img, BuildBody(c.bodyRules, in.Anchors, in.Adjustments, w, h))
	img = c.maskedBlur(img, in.SkinMask, in.SkinSmooth, SkinBlurFraction)
	img = c.maskedBlur(img, in.PrivacyMask, in.PrivacyBlur, PrivacyBlurFraction)
	if !in.Tone.IsZero() {
		img = c.colorMatrix(img, in.Tone.matrix())
	}
	if !in.Filter.IsZero() {
		img = c.colorMatrix(img, in.Filter.matrix())
	}

	Logger().Debug("retouch: base stages", "width", w, "height", h, "elapsed", time.Since(start))
	return img
}

// finish runs stages (7) and (8) on a base.
func (c *Compositor) finish(e *baseEntry, in Inputs) *Pixmap {
	img := e.img
	if f := in.Liquify; f != nil && !f.IsZero() {
		if f.width != img.width || f.height != img.height {
			Logger().Debug("retouch: resampling liquify field to image size",
				"from_width", f.width, "from_height", f.height,
				"to_width", img.width, "to_height", img.height)
			f = ResampleField(f, img.width, img.height)
		}
		src := img
		if c.textureFalloff > 0 {
			src = c.texturePreserved(e, f)
		}
		img = f.applyWith(c.pool, src)
	}
	if in.Vignette > 0 {
		if img == e.img {
			img = img.Clone()
		}
		amount := math.Min(in.Vignette, 100) / 100
		filter.Vignette(c.pool, img.data, img.width, img.height, amount, c.vignetteCurve)
	}
	return img
}

// maskedBlur blends a blurred copy of img over img where m is set.
// The blur sigma is fraction of the shorter side.
func (c *Compositor) maskedBlur(img *Pixmap, m *Mask, amount, fraction float64) *Pixmap {
	if !activeMask(m, amount) {
		return img
	}
	w, h := img.width, img.height
	if m.width != w || m.height != h {
		m = ResampleMask(m, w, h)
	}
	sigma := math.Max(fraction*float64(min(w, h)), 0.5)
	effect := filter.Blur(c.pool, img.data, w, h, sigma)
	out := NewPixmap(w, h)
	filter.MaskedMix(c.pool, out.data, img.data, effect, m.data, float32(math.Min(amount, 100)/100))
	return out
}

func (c *Compositor) colorMatrix(img *Pixmap, m filter.ColorMatrix) *Pixmap {
	if m.IsIdentity() {
		return img
	}
	out := NewPixmap(img.width, img.height)
	m.Apply(c.pool, out.data, img.data)
	return out
}

// texturePreserved mixes the base toward its blurred copy by
// min(1, |D|/falloff) so heavily stretched areas resample smooth content.
func (c *Compositor) texturePreserved(e *baseEntry, f *Field) *Pixmap {
	base := e.img
	w, h := base.width, base.height
	e.blurOnce.Do(func() {
		sigma := math.Max(textureBlurFraction*float64(min(w, h)), 1)
		e.blurred = &Pixmap{
			id:     nextBufferID(),
			width:  w,
			height: h,
			data:   filter.Blur(c.pool, base.data, w, h, sigma),
		}
	})

	inv := float32(1 / c.textureFalloff)
	weights := make([]float32, w*h)
	c.pool.Rows(h, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			dx, dy := f.dx[i], f.dy[i]
			if dx == 0 && dy == 0 {
				continue
			}
			weights[i] = min(1, float32(math.Hypot(float64(dx), float64(dy)))*inv)
		}
	})

	out := NewPixmap(w, h)
	filter.MaskedMix(c.pool, out.data, base.data, e.blurred.data, weights, 1)
	return out
}

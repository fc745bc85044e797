package retouch

import (
	"github.com/tanema/gween/ease"

	"github.com/gogpu/retouch/internal/parallel"
)

// DefaultCacheSize is the number of base images a Compositor keeps.
const DefaultCacheSize = 4

// DefaultTextureFalloff is the displacement length, in pixels, at which the
// texture-preserving blend reaches the fully blurred base.
const DefaultTextureFalloff = 8.0

// CompositorOption configures a Compositor during creation.
//
// Example:
//
//	// Defaults: face rules, body rules, shared worker pool
//	c := retouch.NewCompositor()
//
//	// Smooth liquify edits and keep more bases around for undo
//	c := retouch.NewCompositor(
//		retouch.WithTexturePreserve(6),
//		retouch.WithCacheSize(16),
//	)
type CompositorOption func(*compositorOptions)

type compositorOptions struct {
	builder        *Builder
	bodyRules      []BodyRule
	pool           *parallel.WorkerPool
	cacheSize      int
	textureFalloff float64
	vignetteCurve  ease.TweenFunc
}

func defaultOptions() compositorOptions {
	return compositorOptions{
		cacheSize: DefaultCacheSize,
	}
}

// WithBuilder replaces the face control point builder. The default is
// NewBuilder() with FaceRules.
func WithBuilder(b *Builder) CompositorOption {
	return func(o *compositorOptions) {
		o.builder = b
	}
}

// WithBodyRules replaces the body region registry. The default is BodyRules().
func WithBodyRules(rules []BodyRule) CompositorOption {
	return func(o *compositorOptions) {
		o.bodyRules = rules
	}
}

// WithWorkers runs per-pixel loops on a dedicated pool of n workers instead
// of the shared default pool. The pool is released by Compositor.Close.
func WithWorkers(n int) CompositorOption {
	return func(o *compositorOptions) {
		o.pool = parallel.NewWorkerPool(n)
	}
}

// WithCacheSize sets how many base images are cached. Values below 1 are
// raised to 1.
func WithCacheSize(n int) CompositorOption {
	return func(o *compositorOptions) {
		o.cacheSize = max(n, 1)
	}
}

// WithTexturePreserve enables the texture-preserving liquify blend. Before
// the field is applied, each pixel mixes the sharp base with a blurred copy
// by min(1, |D|/falloff), which hides resampling stretch marks where the
// field moves content far. A non-positive falloff uses
// DefaultTextureFalloff.
func WithTexturePreserve(falloff float64) CompositorOption {
	return func(o *compositorOptions) {
		if falloff <= 0 {
			falloff = DefaultTextureFalloff
		}
		o.textureFalloff = falloff
	}
}

// WithVignetteCurve shapes the vignette falloff. The default is
// ease.InOutQuad.
func WithVignetteCurve(curve ease.TweenFunc) CompositorOption {
	return func(o *compositorOptions) {
		o.vignetteCurve = curve
	}
}

// Package filter implements the per-pixel tonal stages of the retouch
// compositor on raw RGBA buffers:
//   - Gaussian blur (separable, edge-clamped) for skin smoothing and privacy blur
//   - Mask-weighted mixing of an effect buffer over a base buffer
//   - Color matrices for tone adjustments and stylistic filters
//   - Vignette overlay with an eased radial falloff
//
// Buffers are straight-alpha RGBA, 4 bytes per pixel, row-major. None of the
// stages touches the alpha channel.
package filter

// Package retouch is a non-rigid image deformation and compositing engine
// for portrait and body retouching.
//
// # Overview
//
// Edits are expressed as slider values (Adjustments), optional body anchors,
// painted masks and a freehand liquify field. A Compositor turns them into
// pixels in a fixed order: face warp, body warp, skin smoothing, privacy
// blur, tone, stylistic filter, liquify, vignette.
//
// # Quick Start
//
//	import "github.com/gogpu/retouch"
//
//	src, _ := retouch.LoadImage("portrait.jpg")
//	s := retouch.NewSession(src, 1280)
//	defer s.Close()
//
//	// Landmarks come from an external face mesh detector
//	_ = s.Detect(ctx, detector)
//
//	s.SetAdjustment(retouch.SmallFace, 30)
//	s.SetAdjustment(retouch.EyeSize, 20)
//	preview := s.Render()
//
//	full, err := s.Export(ctx)
//
// # Warps
//
// Face and body edits become control points: a position, a displacement and
// a Gaussian radius. The warp engine evaluates their truncated Gaussian sum
// D(p) and samples the source at p - D(p). Face control points are built in
// a CoordinateFrame fitted to the detected face, so the same edit looks the
// same on a tilted head. Pixels farther than three sigma from every control
// point are copied bit for bit.
//
// # Liquify
//
// A Field stores one displacement per pixel, edited by brush strokes
// (push, pull, shrink, expand, restore). Output pixel p samples the source
// at p + D(p).
//
// # Resolution
//
// Editing happens on a downscaled preview. Export replays the same edit on
// the full resolution source: landmarks and anchors scale by the ratio,
// masks resample nearest-neighbor and fields bilinearly with their vectors
// scaled.
//
// # Coordinate System
//
// Pixel coordinates with the origin at the top-left, X right, Y down.
package retouch

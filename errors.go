package retouch

import "errors"

// Common errors. Warp computation itself never fails; these cover buffer
// construction and the landmark collaborator.
var (
	// ErrInvalidDimensions is returned when a buffer's length does not match width*height.
	ErrInvalidDimensions = errors.New("retouch: invalid dimensions")

	// ErrNoLandmarks is returned by a LandmarkProvider that found no face.
	ErrNoLandmarks = errors.New("retouch: no landmarks detected")
)

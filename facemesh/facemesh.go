// Package facemesh names the anatomical regions of the 478-point face mesh
// consumed by retouch.
//
// Indices follow the dense face mesh topology (468 surface points plus 10
// iris points). "Left" and "Right" are the subject's anatomical sides: for an
// upright frontal photo the subject's left eye appears on the image's right.
//
// The package also generates a synthetic canonical frontal layout. It is used
// by tests and by the command-line demo when no detector output is available.
package facemesh

// Count is the number of points in a full mesh including the iris points.
const Count = 478

// SurfaceCount is the number of points in a mesh without iris refinement.
const SurfaceCount = 468

// Reference landmarks.
const (
	Chin          = 152
	Forehead      = 10
	NoseTip       = 1
	NoseBottom    = 2
	MouthRight    = 61
	MouthLeft     = 291
	UpperLipTop   = 0
	LowerLipBot   = 17
	JawAngleRight = 172
	JawAngleLeft  = 397
	CheekRight    = 234
	CheekLeft     = 454
)

// FaceOval is the closed face boundary ring, clockwise in image space
// starting at the forehead.
var FaceOval = []int{
	10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
	397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
	172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109,
}

// Jaw contours run from below the cheek down to the landmark next to the chin.
var (
	JawRight = []int{132, 58, 172, 136, 150, 149, 176, 148}
	JawLeft  = []int{361, 288, 397, 365, 379, 378, 400, 377}
)

// UpperOval is the forehead part of the boundary.
var UpperOval = []int{109, 67, 103, 54, 10, 338, 297, 332, 284}

// Cheek side contours.
var (
	CheekSideRight = []int{234, 93, 132}
	CheekSideLeft  = []int{454, 323, 361}
)

// Eye contours: outer corner, upper lid, inner corner, lower lid.
var (
	RightEye = []int{33, 246, 161, 160, 159, 158, 157, 173, 133, 155, 154, 153, 145, 144, 163, 7}
	LeftEye  = []int{263, 466, 388, 387, 386, 385, 384, 398, 362, 382, 381, 380, 374, 373, 390, 249}
)

// Upper eyelids, outer to inner.
var (
	RightUpperLid = []int{246, 161, 160, 159, 158, 157, 173}
	LeftUpperLid  = []int{466, 388, 387, 386, 385, 384, 398}
)

// Eye corners.
const (
	RightEyeOuter = 33
	RightEyeInner = 133
	LeftEyeOuter  = 263
	LeftEyeInner  = 362
)

// Brows, upper row outer to inner then lower row outer to inner.
var (
	RightBrow = []int{70, 63, 105, 66, 107, 46, 53, 52, 65, 55}
	LeftBrow  = []int{300, 293, 334, 296, 336, 276, 283, 282, 295, 285}
)

// Nose regions.
var (
	NoseBridge    = []int{168, 6, 197, 195, 5}
	NoseTipPoints = []int{1, 4}
	NoseWingRight = []int{48, 64, 98, 129}
	NoseWingLeft  = []int{278, 294, 327, 358}
)

// OuterLips is the outer lip contour: right corner, upper lip, left corner, lower lip.
var OuterLips = []int{
	61, 185, 40, 39, 37, 0, 267, 269, 270, 409,
	291, 375, 321, 405, 314, 17, 84, 181, 91, 146,
}

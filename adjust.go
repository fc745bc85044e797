package retouch

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// AdjustmentKey names a user slider.
type AdjustmentKey string

// Face adjustments.
const (
	SmallFace      AdjustmentKey = "smallFace"
	SlimJaw        AdjustmentKey = "slimJaw"
	JawSmooth      AdjustmentKey = "jawSmooth"
	ChinLength     AdjustmentKey = "chinLength"
	ForeheadHeight AdjustmentKey = "foreheadHeight"
	Cheekbone      AdjustmentKey = "cheekbone"
	EyeSize        AdjustmentKey = "eyeSize"
	EyeDistance    AdjustmentKey = "eyeDistance"
	EyeTilt        AdjustmentKey = "eyeTilt"
	EyelidLift     AdjustmentKey = "eyelidLift"
	BrowHeight     AdjustmentKey = "browHeight"
	NoseWidth      AdjustmentKey = "noseWidth"
	NoseLength     AdjustmentKey = "noseLength"
	LipFullness    AdjustmentKey = "lipFullness"
	MouthWidth     AdjustmentKey = "mouthWidth"
	Smile          AdjustmentKey = "smile"
)

// Body adjustments. Each needs its anchor to be set.
const (
	Chest AdjustmentKey = "chest"
	Waist AdjustmentKey = "waist"
	Thigh AdjustmentKey = "thigh"
)

// Range is the documented slider range of an adjustment.
type Range struct {
	Min, Max float64
}

// Span returns the largest magnitude the range allows. Dividing a value by
// Span maps it into roughly [-1, 1].
func (r Range) Span() float64 {
	return math.Max(math.Abs(r.Min), math.Abs(r.Max))
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	signed    = Range{Min: -50, Max: 50}
	magnitude = Range{Min: 0, Max: 100}
)

// Ranges lists every known adjustment with its documented range.
var Ranges = map[AdjustmentKey]Range{
	SmallFace:      signed,
	SlimJaw:        signed,
	JawSmooth:      magnitude,
	ChinLength:     signed,
	ForeheadHeight: signed,
	Cheekbone:      signed,
	EyeSize:        signed,
	EyeDistance:    signed,
	EyeTilt:        signed,
	EyelidLift:     magnitude,
	BrowHeight:     signed,
	NoseWidth:      signed,
	NoseLength:     signed,
	LipFullness:    signed,
	MouthWidth:     signed,
	Smile:          magnitude,
	Chest:          signed,
	Waist:          signed,
	Thigh:          signed,
}

// Adjustments maps sliders to their current values. Zero or missing means
// no effect. Values are not range checked.
type Adjustments map[AdjustmentKey]float64

// Normalized returns the value of key divided by its range span.
// Unknown keys normalize with a span of 100.
func (a Adjustments) Normalized(key AdjustmentKey) float64 {
	v := a[key]
	if v == 0 {
		return 0
	}
	span := 100.0
	if r, ok := Ranges[key]; ok && r.Span() > 0 {
		span = r.Span()
	}
	return v / span
}

// IsZero reports whether every adjustment is zero.
func (a Adjustments) IsZero() bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (a Adjustments) Clone() Adjustments {
	c := make(Adjustments, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// fingerprint renders the non-zero values in key order. Two sets with the
// same fingerprint produce the same control points.
func (a Adjustments) fingerprint() string {
	keys := make([]string, 0, len(a))
	for k, v := range a {
		if v != 0 {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(a[AdjustmentKey(k)], 'g', -1, 64))
		sb.WriteByte(';')
	}
	return sb.String()
}

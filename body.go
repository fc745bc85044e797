package retouch

import "math"

// AnchorName identifies a user-placed body anchor.
type AnchorName int

// Body anchors.
const (
	AnchorChest AnchorName = iota
	AnchorWaist
	AnchorThigh

	anchorCount
)

// String returns the anchor's config name.
func (n AnchorName) String() string {
	switch n {
	case AnchorChest:
		return "chest"
	case AnchorWaist:
		return "waist"
	case AnchorThigh:
		return "thigh"
	default:
		return "unknown"
	}
}

// Anchors holds up to three optional body anchor points in the pixel space
// of the working buffer. The zero value has no anchors set. Anchors is a
// comparable value type; With and Without return modified copies.
type Anchors struct {
	points [anchorCount]Point
	set    [anchorCount]bool
}

// With returns a copy with anchor n placed at p.
func (a Anchors) With(n AnchorName, p Point) Anchors {
	if n >= 0 && n < anchorCount {
		a.points[n] = p
		a.set[n] = true
	}
	return a
}

// Without returns a copy with anchor n cleared.
func (a Anchors) Without(n AnchorName) Anchors {
	if n >= 0 && n < anchorCount {
		a.points[n] = Point{}
		a.set[n] = false
	}
	return a
}

// Get returns anchor n and whether it is set.
func (a Anchors) Get(n AnchorName) (Point, bool) {
	if n < 0 || n >= anchorCount || !a.set[n] {
		return Point{}, false
	}
	return a.points[n], true
}

// Scale returns the anchors with coordinates multiplied by ratio.
func (a Anchors) Scale(ratio float64) Anchors {
	for i := range a.points {
		if a.set[i] {
			a.points[i] = a.points[i].Mul(ratio)
		}
	}
	return a
}

// Ring describes the control point ring a body rule lays around its anchor.
type Ring struct {
	// Radius is the ring radius as a fraction of min(width, height).
	Radius float64
	// Points is the number of control points on the ring.
	Points int
	// AxisX and AxisY weight the radial displacement per image axis;
	// a waist ring uses AxisY = 0 to move only sideways.
	AxisX, AxisY float64
	// Strength is the displacement at Amount 1 as a fraction of the radius.
	// Negative strengths move content inward for positive amounts.
	Strength float64
}

// BodyRule binds a body adjustment to an anchor and a ring geometry.
type BodyRule struct {
	Key    AdjustmentKey
	Anchor AnchorName
	Ring   Ring
}

// BodyRules returns the default body registry. Positive chest values
// enlarge; positive waist and thigh values slim.
func BodyRules() []BodyRule {
	return []BodyRule{
		{Key: Chest, Anchor: AnchorChest, Ring: Ring{Radius: 0.12, Points: 12, AxisX: 1, AxisY: 1, Strength: 0.12}},
		{Key: Waist, Anchor: AnchorWaist, Ring: Ring{Radius: 0.14, Points: 12, AxisX: 1, AxisY: 0, Strength: -0.1}},
		{Key: Thigh, Anchor: AnchorThigh, Ring: Ring{Radius: 0.16, Points: 12, AxisX: 1, AxisY: 0.3, Strength: -0.1}},
	}
}

// RingControlPoints lays n points on a circle of radius r around anchor,
// each displaced radially by amount*strength*r weighted per axis. Sigma is
// half the radius so neighboring points blend into one smooth bulge.
func RingControlPoints(anchor Point, g Ring, r, amount float64) []ControlPoint {
	if g.Points <= 0 || r <= 0 || amount == 0 {
		return nil
	}
	mag := amount * g.Strength * r
	cps := make([]ControlPoint, 0, g.Points)
	for k := 0; k < g.Points; k++ {
		theta := 2 * math.Pi * float64(k) / float64(g.Points)
		dir := Point{X: math.Cos(theta), Y: math.Sin(theta)}
		cps = append(cps, ControlPoint{
			Position:     anchor.Add(dir.Mul(r)),
			Displacement: Point{X: dir.X * g.AxisX * mag, Y: dir.Y * g.AxisY * mag},
			Sigma:        r / 2,
		})
	}
	return cps
}

// BuildBody returns the body control points for a working buffer of
// width x height. Regions whose anchor is missing are skipped.
func BuildBody(rules []BodyRule, anchors Anchors, adj Adjustments, width, height int) []ControlPoint {
	base := float64(min(width, height))
	var cps []ControlPoint
	for _, rule := range rules {
		amount := adj.Normalized(rule.Key)
		if amount == 0 {
			continue
		}
		anchor, ok := anchors.Get(rule.Anchor)
		if !ok {
			continue
		}
		cps = append(cps, RingControlPoints(anchor, rule.Ring, rule.Ring.Radius*base, amount)...)
	}
	return cps
}

package retouch

// Sigma families as fractions of the face frame width.
const (
	SigmaCoarse = 0.30
	SigmaMedium = 0.12
	SigmaFine   = 0.05
)

// RuleContext is what a rule sees when generating control points.
type RuleContext struct {
	Frame     Frame
	Landmarks Landmarks

	// Amount is the adjustment normalized by its range span, roughly [-1, 1].
	// It is never zero: rules are skipped for zero adjustments.
	Amount float64
}

// points returns the landmark positions of indices.
func (rc RuleContext) points(indices []int) []Point {
	return rc.Landmarks.Points(indices)
}

// sigma returns a falloff radius as a fraction of the frame width.
func (rc RuleContext) sigma(fraction float64) float64 {
	return rc.Frame.Width * fraction
}

// Rule generates the control points of one adjustment.
type Rule struct {
	Key      AdjustmentKey
	Generate func(rc RuleContext) []ControlPoint
}

// Builder maps landmarks and adjustments to control points by iterating a
// registry of rules. Control points of different rules are concatenated,
// never merged: overlapping contributions add up in the warp engine.
type Builder struct {
	rules []Rule
}

// NewBuilder creates a builder over rules. With no rules it uses FaceRules.
func NewBuilder(rules ...Rule) *Builder {
	if len(rules) == 0 {
		rules = FaceRules()
	}
	return &Builder{rules: rules}
}

// Rules returns the registered rules in evaluation order.
func (b *Builder) Rules() []Rule {
	return b.rules
}

// Build returns the control points for lm and adj in image space.
// It returns nil when lm is not a valid face, when the face frame is
// degenerate, or when every adjustment handled by the registry is zero.
func (b *Builder) Build(lm Landmarks, adj Adjustments) []ControlPoint {
	if !lm.Valid() || adj.IsZero() {
		return nil
	}
	frame, ok := FaceFrame(lm)
	if !ok || frame.Width <= 0 {
		Logger().Debug("retouch: degenerate face frame, skipping face warp")
		return nil
	}

	var cps []ControlPoint
	for _, r := range b.rules {
		amount := adj.Normalized(r.Key)
		if amount == 0 {
			continue
		}
		cps = append(cps, r.Generate(RuleContext{Frame: frame, Landmarks: lm, Amount: amount})...)
	}
	return cps
}

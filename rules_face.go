package retouch

import (
	"math"

	"github.com/gogpu/retouch/facemesh"
)

// JawSmoothDeadZone is the smallest jaw smoothing displacement, as a fraction
// of face width, that produces a control point. Landmarks already this close
// to the reference line are left alone.
const JawSmoothDeadZone = 0.002

// FaceRules returns the default face registry in evaluation order.
func FaceRules() []Rule {
	return []Rule{
		{Key: SmallFace, Generate: smallFaceRule},
		{Key: SlimJaw, Generate: slimJawRule},
		{Key: JawSmooth, Generate: jawSmoothRule},
		{Key: ChinLength, Generate: chinLengthRule},
		{Key: ForeheadHeight, Generate: foreheadRule},
		{Key: Cheekbone, Generate: cheekboneRule},
		{Key: EyeSize, Generate: eyeSizeRule},
		{Key: EyeDistance, Generate: eyeDistanceRule},
		{Key: EyeTilt, Generate: eyeTiltRule},
		{Key: EyelidLift, Generate: eyelidLiftRule},
		{Key: BrowHeight, Generate: browHeightRule},
		{Key: NoseWidth, Generate: noseWidthRule},
		{Key: NoseLength, Generate: noseLengthRule},
		{Key: LipFullness, Generate: lipFullnessRule},
		{Key: MouthWidth, Generate: mouthWidthRule},
		{Key: Smile, Generate: smileRule},
	}
}

// offset returns to - from in frame coordinates.
func offset(f Frame, from, to Point) (dh, dv float64) {
	return f.ProjectRight(to) - f.ProjectRight(from), f.ProjectUp(to) - f.ProjectUp(from)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// radial emits one point per landmark displaced by scale times its frame
// offset from center.
func radial(rc RuleContext, pts []Point, center Point, scale, sigma float64) []ControlPoint {
	cps := make([]ControlPoint, 0, len(pts))
	for _, p := range pts {
		dh, dv := offset(rc.Frame, center, p)
		cps = append(cps, ControlPoint{
			Position:     p,
			Displacement: rc.Frame.ToImageVector(dh*scale, dv*scale),
			Sigma:        sigma,
		})
	}
	return cps
}

// uniform emits one point per landmark sharing the frame displacement (h, v).
func uniform(rc RuleContext, pts []Point, h, v, sigma float64) []ControlPoint {
	d := rc.Frame.ToImageVector(h, v)
	cps := make([]ControlPoint, 0, len(pts))
	for _, p := range pts {
		cps = append(cps, ControlPoint{Position: p, Displacement: d, Sigma: sigma})
	}
	return cps
}

// smallFaceRule moves the whole contour radially. Positive amounts make
// contour pixels sample from nearer the face center.
func smallFaceRule(rc RuleContext) []ControlPoint {
	w := rc.Frame.Width
	pts := rc.points(facemesh.FaceOval)
	cps := make([]ControlPoint, 0, len(pts))
	for _, p := range pts {
		dh, dv := offset(rc.Frame, rc.Frame.Center, p)
		dir := Point{X: dh, Y: dv}.Normalize()
		mag := 0.012 * w * rc.Amount
		cps = append(cps, ControlPoint{
			Position:     p,
			Displacement: rc.Frame.ToImageVector(dir.X*mag, dir.Y*mag),
			Sigma:        rc.sigma(SigmaCoarse),
		})
	}
	return cps
}

// slimJawRule pulls the lower contour toward the midline, strongest where
// the jaw is widest.
func slimJawRule(rc RuleContext) []ControlPoint {
	half := rc.Frame.Width / 2
	var cps []ControlPoint
	for _, side := range [][]int{facemesh.JawRight, facemesh.JawLeft} {
		for _, p := range rc.points(side) {
			h := rc.Frame.ProjectRight(p)
			taper := math.Min(1, math.Abs(h)/half)
			mag := 0.01 * rc.Frame.Width * rc.Amount * taper
			cps = append(cps, ControlPoint{
				Position:     p,
				Displacement: rc.Frame.ToImageVector(-sign(h)*mag, 0),
				Sigma:        rc.sigma(SigmaCoarse),
			})
		}
	}
	return cps
}

// jawSmoothRule straightens each jaw side toward the line joining the jaw
// angle and the chin. Landmarks that would move less than the dead-zone are
// skipped.
func jawSmoothRule(rc RuleContext) []ControlPoint {
	chin, _ := rc.Landmarks.At(facemesh.Chin)
	deadZone := JawSmoothDeadZone * rc.Frame.Width

	var cps []ControlPoint
	for _, side := range []struct {
		angle   int
		contour []int
	}{
		{facemesh.JawAngleRight, facemesh.JawRight},
		{facemesh.JawAngleLeft, facemesh.JawLeft},
	} {
		corner, _ := rc.Landmarks.At(side.angle)
		past := false
		for _, idx := range side.contour {
			if idx == side.angle {
				past = true
				continue
			}
			if !past {
				continue
			}
			p, _ := rc.Landmarks.At(idx)
			target := nearestOnSegment(corner, chin, p)
			d := target.Sub(p).Mul(0.5 * rc.Amount)
			if d.Length() < deadZone {
				continue
			}
			cps = append(cps, ControlPoint{Position: p, Displacement: d, Sigma: rc.sigma(SigmaMedium)})
		}
	}
	return cps
}

// nearestOnSegment returns the point of segment ab closest to p.
func nearestOnSegment(a, b, p Point) Point {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return a
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return a.Add(ab.Mul(t))
}

func chinLengthRule(rc RuleContext) []ControlPoint {
	pts := rc.points([]int{facemesh.Chin, 148, 377, 176, 400})
	return uniform(rc, pts, 0, -0.03*rc.Frame.Width*rc.Amount, rc.sigma(SigmaMedium))
}

func foreheadRule(rc RuleContext) []ControlPoint {
	pts := rc.points(facemesh.UpperOval)
	return uniform(rc, pts, 0, 0.008*rc.Frame.Width*rc.Amount, rc.sigma(SigmaCoarse))
}

func cheekboneRule(rc RuleContext) []ControlPoint {
	var cps []ControlPoint
	for _, side := range [][]int{facemesh.CheekSideRight, facemesh.CheekSideLeft} {
		for _, p := range rc.points(side) {
			h := rc.Frame.ProjectRight(p)
			mag := 0.015 * rc.Frame.Width * rc.Amount
			cps = append(cps, ControlPoint{
				Position:     p,
				Displacement: rc.Frame.ToImageVector(-sign(h)*mag, 0),
				Sigma:        rc.sigma(SigmaMedium),
			})
		}
	}
	return cps
}

// eyes returns the right and left eye contours with their centers.
func eyes(rc RuleContext) (contours [2][]Point, centers [2]Point) {
	contours[0] = rc.points(facemesh.RightEye)
	contours[1] = rc.points(facemesh.LeftEye)
	centers[0] = centroid(contours[0])
	centers[1] = centroid(contours[1])
	return contours, centers
}

func eyeSizeRule(rc RuleContext) []ControlPoint {
	contours, centers := eyes(rc)
	var cps []ControlPoint
	for i := range contours {
		cps = append(cps, radial(rc, contours[i], centers[i], 0.12*rc.Amount, rc.sigma(SigmaFine))...)
	}
	return cps
}

// eyeDistanceRule moves each eye as a whole with one point at its center.
func eyeDistanceRule(rc RuleContext) []ControlPoint {
	_, centers := eyes(rc)
	cps := make([]ControlPoint, 0, 2)
	for _, c := range centers {
		side := sign(rc.Frame.ProjectRight(c))
		cps = append(cps, ControlPoint{
			Position:     c,
			Displacement: rc.Frame.ToImageVector(side*0.03*rc.Frame.Width*rc.Amount, 0),
			Sigma:        rc.sigma(SigmaFine) * 1.5,
		})
	}
	return cps
}

// eyeTiltRule rotates each eye about its center, mirrored between the eyes
// so positive amounts lift both outer corners.
func eyeTiltRule(rc RuleContext) []ControlPoint {
	contours, centers := eyes(rc)
	angle := rc.Amount * 8 * math.Pi / 180

	var cps []ControlPoint
	for i := range contours {
		side := sign(rc.Frame.ProjectRight(centers[i]))
		for _, p := range contours[i] {
			dh, dv := offset(rc.Frame, centers[i], p)
			local := Point{X: dh, Y: dv}
			moved := local.Rotate(side * angle).Sub(local)
			cps = append(cps, ControlPoint{
				Position:     p,
				Displacement: rc.Frame.ToImageVector(moved.X, moved.Y),
				Sigma:        rc.sigma(SigmaFine),
			})
		}
	}
	return cps
}

// eyelidLiftRule raises the upper lid, fading toward the corners.
func eyelidLiftRule(rc RuleContext) []ControlPoint {
	var cps []ControlPoint
	for _, lid := range [][]int{facemesh.RightUpperLid, facemesh.LeftUpperLid} {
		pts := rc.points(lid)
		for k, p := range pts {
			t := math.Sin(math.Pi * float64(k+1) / float64(len(pts)+1))
			cps = append(cps, ControlPoint{
				Position:     p,
				Displacement: rc.Frame.ToImageVector(0, 0.012*rc.Frame.Width*rc.Amount*t),
				Sigma:        rc.sigma(SigmaFine),
			})
		}
	}
	return cps
}

func browHeightRule(rc RuleContext) []ControlPoint {
	pts := append(rc.points(facemesh.RightBrow), rc.points(facemesh.LeftBrow)...)
	return uniform(rc, pts, 0, 0.012*rc.Frame.Width*rc.Amount, rc.sigma(SigmaFine))
}

// noseWidthRule moves the alar points away from the nose axis for positive
// amounts.
func noseWidthRule(rc RuleContext) []ControlPoint {
	tip, _ := rc.Landmarks.At(facemesh.NoseTip)
	axis := rc.Frame.ProjectRight(tip)

	var cps []ControlPoint
	for _, wing := range [][]int{facemesh.NoseWingRight, facemesh.NoseWingLeft} {
		for _, p := range rc.points(wing) {
			side := sign(rc.Frame.ProjectRight(p) - axis)
			cps = append(cps, ControlPoint{
				Position:     p,
				Displacement: rc.Frame.ToImageVector(side*0.015*rc.Frame.Width*rc.Amount, 0),
				Sigma:        rc.sigma(SigmaFine),
			})
		}
	}
	return cps
}

func noseLengthRule(rc RuleContext) []ControlPoint {
	pts := rc.points(append(append([]int{}, facemesh.NoseTipPoints...), facemesh.NoseBottom))
	return uniform(rc, pts, 0, -0.02*rc.Frame.Width*rc.Amount, rc.sigma(SigmaFine))
}

func lipFullnessRule(rc RuleContext) []ControlPoint {
	pts := rc.points(facemesh.OuterLips)
	return radial(rc, pts, centroid(pts), 0.15*rc.Amount, rc.sigma(SigmaFine))
}

// mouthCorners returns both corners and the lip center.
func mouthCorners(rc RuleContext) ([]Point, Point) {
	return rc.points([]int{facemesh.MouthRight, facemesh.MouthLeft}), centroid(rc.points(facemesh.OuterLips))
}

func mouthWidthRule(rc RuleContext) []ControlPoint {
	corners, center := mouthCorners(rc)
	cps := make([]ControlPoint, 0, len(corners))
	for _, p := range corners {
		dh, _ := offset(rc.Frame, center, p)
		cps = append(cps, ControlPoint{
			Position:     p,
			Displacement: rc.Frame.ToImageVector(sign(dh)*0.03*rc.Frame.Width*rc.Amount, 0),
			Sigma:        rc.sigma(SigmaFine),
		})
	}
	return cps
}

func smileRule(rc RuleContext) []ControlPoint {
	corners, center := mouthCorners(rc)
	w := rc.Frame.Width
	cps := make([]ControlPoint, 0, len(corners))
	for _, p := range corners {
		dh, _ := offset(rc.Frame, center, p)
		cps = append(cps, ControlPoint{
			Position:     p,
			Displacement: rc.Frame.ToImageVector(sign(dh)*0.01*w*rc.Amount, 0.025*w*rc.Amount),
			Sigma:        rc.sigma(SigmaFine),
		})
	}
	return cps
}

package sparks

import "math"

// VisibilityCutoff is the glow strength below which sprite fragments are
// skipped entirely rather than blended.
const VisibilityCutoff = 0.01

// SpriteStrength returns the glow intensity at normalized distance dist from
// the sprite center (0 at center, 0.5 at the footprint edge), and whether the
// fragment is drawn at all. Intensity may exceed 1 near the center.
func SpriteStrength(dist float64) (float64, bool) {
	s := 0.05 / (dist*dist + 0.01)
	s = math.Pow(s, 1.5)
	if s < VisibilityCutoff {
		return 0, false
	}
	return s, true
}

// PointSize is the perspective-correct sprite size for a particle whose
// view-space depth is viewZ (negative in front of the camera). Points at or
// behind the eye get size 0.
func PointSize(size, viewZ float64) float64 {
	if viewZ >= 0 {
		return 0
	}
	return size / -viewZ
}

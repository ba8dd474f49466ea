package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/orbit"
	"github.com/pthm-cable/solaris/params"
)

const (
	ringBands   = 12
	ringTiltDeg = -60
)

var (
	orbitPathColor = rl.Color{R: 255, G: 255, B: 255, A: 26}
	sunLight       = params.MustParseHex("#fff0dd")
)

// PlanetRenderer draws planets, their orbit paths and rings.
type PlanetRenderer struct {
	rings, slices int32
}

// NewPlanetRenderer creates a planet renderer.
func NewPlanetRenderer() *PlanetRenderer {
	return &PlanetRenderer{rings: 16, slices: 24}
}

// Draw renders every planet. Must be called inside BeginMode3D.
func (r *PlanetRenderer) Draw(planets []orbit.Planet, showOrbits bool) {
	xAxis := rl.Vector3{X: 1}

	if showOrbits {
		for _, p := range planets {
			rl.DrawCircle3D(rl.Vector3{}, float32(p.Distance), xAxis, 90, orbitPathColor)
		}
	}

	for _, p := range planets {
		pos := vec(p.Position, 1)
		color := litColor(p.Color, p.Distance)
		rl.DrawSphereEx(pos, float32(p.Size), r.rings, r.slices, color.RGBA8(1))

		if !p.Rings {
			continue
		}
		inner := float32(p.Size * orbit.RingInner)
		outer := float32(p.Size * orbit.RingOuter)
		ringColor := orbit.RingColor.RGBA8(0.7)
		for i := 0; i < ringBands; i++ {
			t := float32(i) / float32(ringBands-1)
			rl.DrawCircle3D(pos, inner+(outer-inner)*t, xAxis, ringTiltDeg, ringColor)
		}
	}
}

// litColor approximates the sun's point light: intensity 2.5 with a gentle
// distance falloff, plus a dim ambient floor.
func litColor(base params.RGB, distance float64) params.RGB {
	const (
		intensity = 2.5
		maxRange  = 100.0
		ambient   = 0.15
	)
	falloff := 1 - distance/maxRange
	if falloff < 0 {
		falloff = 0
	}
	light := sunLight.Scale(intensity * falloff * 0.4)
	return params.RGB{
		R: base.R * (ambient + light.R),
		G: base.G * (ambient + light.G),
		B: base.B * (ambient + light.B),
	}
}

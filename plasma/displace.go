package plasma

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/noise"
)

// driftAmplitude scales the time-animated offset applied to noise coordinates.
const driftAmplitude = 2.0

// Vertex is one displaced surface sample.
type Vertex struct {
	Position    r3.Vec  // undisplaced, on the unit sphere
	Normal      r3.Vec
	NoiseSample float64 // raw fbm, roughly [-1, 1]
	Displaced   r3.Vec
}

// Density is the folded noise magnitude that drives shading.
func (v Vertex) Density() float64 {
	return math.Abs(v.NoiseSample)
}

// Drift is the slow Lissajous offset of the noise domain at animation time t.
func Drift(t float64) r3.Vec {
	return r3.Scale(driftAmplitude, r3.Vec{
		X: math.Sin(t * 0.5),
		Y: math.Cos(t * 0.3),
		Z: math.Sin(t * 0.2),
	})
}

// NoiseCoord maps a mesh position into animated noise space.
func NoiseCoord(u Uniforms, position r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(u.NoiseScale, position), Drift(u.Time*u.Speed))
}

// Displace pushes position outward along normal by the folded fbm value
// scaled by DisplacementScale and Turbulence. The fold (abs) keeps the
// surface from inverting; density is reported even when displacement is zero.
func Displace(src noise.Source, u Uniforms, position, normal r3.Vec) Vertex {
	n := noise.FBM(src, NoiseCoord(u, position))
	turb := math.Abs(n)
	offset := turb * u.DisplacementScale * u.Turbulence
	return Vertex{
		Position:    position,
		Normal:      normal,
		NoiseSample: n,
		Displaced:   r3.Add(position, r3.Scale(offset, normal)),
	}
}

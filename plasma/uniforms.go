// Package plasma implements the two surface programs of the sun: noise-driven
// vertex displacement and the density/rim color ramp.
package plasma

import "github.com/pthm-cable/solaris/params"

// Uniforms is the explicit per-frame input shared by the surface programs.
// It is built once per frame from the smoothed parameter set and never
// mutated while a frame is being computed.
type Uniforms struct {
	Time              float64
	ColorCore         params.RGB
	ColorOuter        params.RGB
	Speed             float64
	Turbulence        float64
	NoiseScale        float64
	DisplacementScale float64
}

// NewUniforms snapshots p at the given elapsed time.
func NewUniforms(p params.ParameterSet, elapsed float64) Uniforms {
	return Uniforms{
		Time:              elapsed,
		ColorCore:         p.ColorCore,
		ColorOuter:        p.ColorOuter,
		Speed:             p.Speed,
		Turbulence:        p.Turbulence,
		NoiseScale:        p.NoiseScale,
		DisplacementScale: p.DisplacementScale,
	}
}

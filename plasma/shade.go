package plasma

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/vmath"
)

const (
	densityGamma = 1.2
	rimPower     = 3.0
	rimGain      = 1.5
	coreOpacity  = 0.95
)

// darkColor is the ramp's floor: a barely-lit red.
var darkColor = params.RGB{R: 0.05}

// Fragment is a shaded surface sample. Color may exceed 1 because of the
// additive rim glow and must be tone mapped by the renderer.
type Fragment struct {
	Color params.RGB
	Alpha float64
}

// ViewDir returns the unit direction from a surface point toward the eye.
func ViewDir(eye, point r3.Vec) r3.Vec {
	d := r3.Sub(eye, point)
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, d)
}

// Fresnel is the rim factor: 0 facing the viewer, 1 at grazing angles.
func Fresnel(viewDir, normal r3.Vec) float64 {
	n := r3.Norm(normal)
	if n == 0 {
		return 1
	}
	return vmath.Clamp01(1 - r3.Dot(viewDir, normal)/n)
}

// ShapeDensity applies the midtone-preserving contrast curve.
// Negative inputs are treated as zero.
func ShapeDensity(density float64) float64 {
	if density <= 0 {
		return 0
	}
	return math.Pow(density, densityGamma)
}

// RampWeights are the blend factors of the three ramp stages.
type RampWeights struct {
	Outer float64 // dark -> outer
	Core  float64 // -> core
	White float64 // -> white
}

// Weights returns the ramp blend factors for shaped density dp.
func Weights(dp float64) RampWeights {
	return RampWeights{
		Outer: vmath.Smoothstep(0.0, 0.5, dp),
		Core:  vmath.Smoothstep(0.4, 0.9, dp),
		White: vmath.Smoothstep(0.85, 1.0, dp),
	}
}

// Ramp maps shaped density through dark -> outer -> core -> white.
func Ramp(core, outer params.RGB, dp float64) params.RGB {
	w := Weights(dp)
	c := darkColor.Lerp(outer, w.Outer)
	c = c.Lerp(core, w.Core)
	return c.Lerp(params.White, w.White)
}

// Alpha erodes the silhouette with noise while keeping the forward-facing
// core at least coreOpacity - fresnel opaque.
func Alpha(dp, fresnel float64) float64 {
	erosion := vmath.Smoothstep(0.15, 0.4, dp+0.1)
	edgeFade := vmath.Mix(1, erosion, fresnel)
	return math.Max(edgeFade, coreOpacity-fresnel)
}

// Shade runs the full fragment program for one surface sample.
func Shade(u Uniforms, density float64, viewDir, normal r3.Vec) Fragment {
	fresnel := Fresnel(viewDir, normal)
	dp := ShapeDensity(density)

	color := Ramp(u.ColorCore, u.ColorOuter, dp)
	color = color.Add(u.ColorOuter.Scale(math.Pow(fresnel, rimPower) * rimGain))

	return Fragment{Color: color, Alpha: Alpha(dp, fresnel)}
}

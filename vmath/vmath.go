// Package vmath holds the scalar shading helpers shared by the surface and
// particle pipelines. Semantics follow their GLSL namesakes.
package vmath

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Mix linearly interpolates from a to b by t.
func Mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Smoothstep is the cubic Hermite ramp from 0 at edge0 to 1 at edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Fract returns x - floor(x), always in [0, 1).
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		// x slightly below an integer can round up to exactly 1.
		return 0
	}
	return f
}

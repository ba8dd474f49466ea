package noise

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CurlEpsilon is the central-difference step used by Curl.
const CurlEpsilon = 0.1

// minCurlNorm is the magnitude below which a curl sample is treated as
// degenerate and reported as the zero vector.
const minCurlNorm = 1e-12

// CurlRaw estimates the curl of the potential (N, N, N) at p, where N is
// src, using central differences with step CurlEpsilon:
//
//	x = dN/dy - dN/dz, y = dN/dz - dN/dx, z = dN/dx - dN/dy
//
// The result is divergence-free by construction.
func CurlRaw(src Source, p r3.Vec) r3.Vec {
	const e = CurlEpsilon
	dx := (src.Eval3(p.X+e, p.Y, p.Z) - src.Eval3(p.X-e, p.Y, p.Z)) / (2 * e)
	dy := (src.Eval3(p.X, p.Y+e, p.Z) - src.Eval3(p.X, p.Y-e, p.Z)) / (2 * e)
	dz := (src.Eval3(p.X, p.Y, p.Z+e) - src.Eval3(p.X, p.Y, p.Z-e)) / (2 * e)
	return r3.Vec{X: dy - dz, Y: dz - dx, Z: dx - dy}
}

// Curl returns the unit direction of CurlRaw. Degenerate samples (zero or
// non-finite magnitude) return the zero vector so callers never see NaN.
func Curl(src Source, p r3.Vec) r3.Vec {
	c := CurlRaw(src, p)
	n := r3.Norm(c)
	if n < minCurlNorm || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, c)
}

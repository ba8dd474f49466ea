package noise

import "math"

// Simplex is 3D simplex gradient noise using the permutation-polynomial
// hashing of the GPU shader variant, so CPU and GPU renditions agree.
// It carries no state; the zero value is ready to use.
type Simplex struct{}

const (
	skewF   = 1.0 / 3.0
	unskewG = 1.0 / 6.0

	// Gradient ring parameters: ns = (2/7, 0.5/7 - 1, 1/7).
	nsX = 2.0 / 7.0
	nsY = 0.5/7.0 - 1.0
	nsZ = 1.0 / 7.0

	// Squared kernel radius. Corners farther than this contribute nothing;
	// at 0.5 the falloff reaches zero before the corner leaves the cell
	// neighbourhood, so the sum stays continuous across cell boundaries.
	kernelRadius2 = 0.5

	// Output scale bringing the sum into roughly [-1, 1]. The peak of one
	// corner at radius 0.5 is about 0.0093.
	simplexScale = 105.0
)

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Eval3 returns the noise value at (x, y, z), approximately in [-1, 1].
func (Simplex) Eval3(x, y, z float64) float64 {
	// Skew to find the simplex cell.
	s := (x + y + z) * skewF
	ix, iy, iz := math.Floor(x+s), math.Floor(y+s), math.Floor(z+s)
	t := (ix + iy + iz) * unskewG
	x0, y0, z0 := x-ix+t, y-iy+t, z-iz+t

	// Rank the offsets to pick the middle two corners.
	gx, gy, gz := step(y0, x0), step(z0, y0), step(x0, z0)
	lx, ly, lz := 1-gx, 1-gy, 1-gz
	i1x, i1y, i1z := math.Min(gx, lz), math.Min(gy, lx), math.Min(gz, ly)
	i2x, i2y, i2z := math.Max(gx, lz), math.Max(gy, lx), math.Max(gz, ly)

	x1, y1, z1 := x0-i1x+unskewG, y0-i1y+unskewG, z0-i1z+unskewG
	x2, y2, z2 := x0-i2x+skewF, y0-i2y+skewF, z0-i2z+skewF
	x3, y3, z3 := x0-0.5, y0-0.5, z0-0.5

	ix, iy, iz = mod289(ix), mod289(iy), mod289(iz)
	hash := func(ox, oy, oz float64) float64 {
		return permute(permute(permute(iz+oz)+iy+oy) + ix + ox)
	}

	n := corner(hash(0, 0, 0), x0, y0, z0) +
		corner(hash(i1x, i1y, i1z), x1, y1, z1) +
		corner(hash(i2x, i2y, i2z), x2, y2, z2) +
		corner(hash(1, 1, 1), x3, y3, z3)
	return simplexScale * n
}

// corner returns one simplex corner's contribution: the radial falloff
// times the dot product of its hashed gradient with the offset.
func corner(p, dx, dy, dz float64) float64 {
	m := kernelRadius2 - (dx*dx + dy*dy + dz*dz)
	if m <= 0 {
		return 0
	}

	// Map the hash onto a 7x7 grid of gradients on an octahedron.
	j := p - 49.0*math.Floor(p*nsZ*nsZ)
	xq := math.Floor(j * nsZ)
	yq := math.Floor(j - 7.0*xq)
	gx := xq*nsX + nsY
	gy := yq*nsX + nsY
	gz := 1.0 - math.Abs(gx) - math.Abs(gy)
	if gz <= 0 {
		gx -= math.Floor(gx)*2.0 + 1.0
		gy -= math.Floor(gy)*2.0 + 1.0
	}

	norm := taylorInvSqrt(gx*gx + gy*gy + gz*gz)
	m *= m
	return m * m * norm * (gx*dx + gy*dy + gz*dz)
}

// Package sparks animates the haze of glowing particles around the sun.
// Particles are generated once; every frame derives their position and
// opacity from their spawn data and the elapsed time alone.
package sparks

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCount is the number of haze particles.
const DefaultCount = 2000

// Spawn shell and size distribution.
const (
	shellInner = 1.0
	shellDepth = 0.3

	flareChance  = 0.1
	flareMinSize = 20.0
	flareSpan    = 40.0
	dustMinSize  = 2.0
	dustSpan     = 5.0
)

// Particle is the immutable spawn record of one haze particle.
type Particle struct {
	Start       r3.Vec  // on a shell of radius [1.0, 1.3]
	Size        float64 // sprite size before perspective division
	PhaseOffset float64 // [0, 1)
	Seed        float64 // [0, 1)
}

// IsFlare reports whether the particle drew the rare large size.
func (p Particle) IsFlare() bool {
	return p.Size >= flareMinSize
}

// Spawn generates n particles uniformly distributed over the spawn shell.
func Spawn(rng *rand.Rand, n int) []Particle {
	out := make([]Particle, n)
	for i := range out {
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		r := shellInner + rng.Float64()*shellDepth

		start := r3.Vec{
			X: r * math.Sin(phi) * math.Cos(theta),
			Y: r * math.Sin(phi) * math.Sin(theta),
			Z: r * math.Cos(phi),
		}

		size := rng.Float64()*dustSpan + dustMinSize
		if rng.Float64() < flareChance {
			size = rng.Float64()*flareSpan + flareMinSize
		}

		out[i] = Particle{
			Start:       start,
			Size:        size,
			PhaseOffset: rng.Float64(),
			Seed:        rng.Float64(),
		}
	}
	return out
}

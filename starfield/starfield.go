// Package starfield scatters the background stars on a thick spherical shell
// around the scene.
package starfield

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/params"
)

// Star is one background point.
type Star struct {
	Position r3.Vec
	Color    params.RGB
	Size     float64 // in [0.5, 1.5)
}

// Generate places count stars between radius and radius+depth. Stars are
// colorless; only their lightness varies. Farther stars are dimmer.
func Generate(rng *rand.Rand, count int, radius, depth float64) []Star {
	if count <= 0 {
		return nil
	}
	stars := make([]Star, count)
	for i := range stars {
		r := radius + depth*rng.Float64()
		dir := randomDirection(rng)

		fade := 1.0
		if depth > 0 {
			fade = 1 - 0.5*(r-radius)/depth
		}
		lightness := (0.5 + 0.5*rng.Float64()) * fade
		c := colorful.Hsl(360*rng.Float64(), 0, lightness)

		stars[i] = Star{
			Position: r3.Scale(r, dir),
			Color:    params.RGB{R: c.R, G: c.G, B: c.B},
			Size:     0.5 + rng.Float64(),
		}
	}
	return stars
}

func randomDirection(rng *rand.Rand) r3.Vec {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	return r3.Vec{X: s * math.Cos(phi), Y: s * math.Sin(phi), Z: z}
}

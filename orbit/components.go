package orbit

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/params"
)

// Orbit is the circular path of a planet around the sun.
type Orbit struct {
	Distance     float64
	Speed        float64
	InitialAngle float64 // radians, randomized at spawn
}

// Body holds how a planet looks.
type Body struct {
	Name  string
	Color params.RGB
	Size  float64
	Rings bool
}

// Transform is the per-frame derived placement.
type Transform struct {
	Position r3.Vec
	Angle    float64 // orbital angle, radians
	Spin     float64 // self rotation, radians
}

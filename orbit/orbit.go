// Package orbit moves the planets around the sun. Motion is purely
// kinematic: each planet follows a fixed circle at a constant rate.
package orbit

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/params"
)

const (
	// AngularRate converts a planet's table speed into radians per second.
	AngularRate = 0.3
	// SpinStep is the self rotation added every frame.
	SpinStep = 0.01

	// Ring radii as multiples of the planet size.
	RingInner = 1.4
	RingOuter = 2.2
)

// RingColor is the tint of planetary rings.
var RingColor = params.MustParseHex("#ceb898")

// Spec is one row of the planet layout table.
type Spec struct {
	Name     string
	Color    params.RGB
	Distance float64
	Size     float64
	Speed    float64
	Rings    bool
}

// Planet is a read-only view of one planet after an update.
type Planet struct {
	Body
	Orbit
	Transform
}

// System owns the planet world.
type System struct {
	world  *ecs.World
	mapper *ecs.Map3[Orbit, Body, Transform]
	filter *ecs.Filter3[Orbit, Body, Transform]
	count  int
}

// NewSystem spawns one entity per spec with a random initial angle.
func NewSystem(specs []Spec, rng *rand.Rand) *System {
	world := ecs.NewWorld()
	s := &System{
		world:  world,
		mapper: ecs.NewMap3[Orbit, Body, Transform](world),
		filter: ecs.NewFilter3[Orbit, Body, Transform](world),
	}

	for _, sp := range specs {
		o := Orbit{
			Distance:     sp.Distance,
			Speed:        sp.Speed,
			InitialAngle: rng.Float64() * 2 * math.Pi,
		}
		b := Body{Name: sp.Name, Color: sp.Color, Size: sp.Size, Rings: sp.Rings}
		tr := Transform{Angle: o.InitialAngle, Position: Position(o, o.InitialAngle)}
		s.mapper.NewEntity(&o, &b, &tr)
		s.count++
	}
	return s
}

// Angle returns the orbital angle at elapsed seconds.
func Angle(o Orbit, elapsed float64) float64 {
	return o.InitialAngle + elapsed*o.Speed*AngularRate
}

// Position places a planet on its orbit in the XZ plane.
func Position(o Orbit, angle float64) r3.Vec {
	return r3.Vec{X: math.Cos(angle) * o.Distance, Z: math.Sin(angle) * o.Distance}
}

// Update moves every planet to its place at elapsed seconds and advances
// its spin by one frame.
func (s *System) Update(elapsed float64) {
	query := s.filter.Query()
	for query.Next() {
		o, _, tr := query.Get()
		tr.Angle = Angle(*o, elapsed)
		tr.Position = Position(*o, tr.Angle)
		tr.Spin += SpinStep
	}
}

// Len returns the number of planets.
func (s *System) Len() int {
	return s.count
}

// AppendPlanets appends a view of every planet to dst, in spawn order.
func (s *System) AppendPlanets(dst []Planet) []Planet {
	query := s.filter.Query()
	for query.Next() {
		o, b, tr := query.Get()
		dst = append(dst, Planet{Body: *b, Orbit: *o, Transform: *tr})
	}
	return dst
}

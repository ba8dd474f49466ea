package sparks

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/noise"
	"github.com/pthm-cable/solaris/vmath"
)

const (
	// SpeedMultiplier converts the animation speed into lifecycles per second.
	SpeedMultiplier = 0.5

	radialTravel  = 4.0
	swirlStrength = 1.5
	swirlScale    = 0.5
	swirlRise     = 0.2
	fadeIn        = 0.1
)

// State is the derived per-frame output of one particle.
type State struct {
	Position r3.Vec
	Phase    float64
	Alpha    float64
}

// Phase returns the particle's position in its 0..1 lifecycle. Wrapping
// back to 0 is an implicit respawn at the start position.
func Phase(elapsed, speed, offset float64) float64 {
	return vmath.Fract(elapsed*speed*SpeedMultiplier + offset)
}

// Cycle returns how many full lifecycles the particle has completed. A
// respawn is a rise in Cycle, not a drop in Phase: lowering the speed can
// move Phase backwards without any wrap.
func Cycle(elapsed, speed, offset float64) float64 {
	return math.Floor(elapsed*speed*SpeedMultiplier + offset)
}

// Period is the lifecycle length in seconds at the given speed.
// It is infinite when speed is zero.
func Period(speed float64) float64 {
	if speed == 0 {
		return math.Inf(1)
	}
	return 1 / math.Abs(speed*SpeedMultiplier)
}

// Alpha fades a particle in quickly and out linearly over its lifecycle.
// It is zero at phase 0 and tends to zero as phase approaches 1.
func Alpha(phase float64) float64 {
	return vmath.Smoothstep(0, fadeIn, phase) * (1 - phase)
}

// SwirlCoord is where the curl field is sampled for a start position.
func SwirlCoord(start r3.Vec, elapsed float64) r3.Vec {
	return r3.Add(r3.Scale(swirlScale, start), r3.Vec{Y: elapsed * swirlRise})
}

// Position drifts the particle radially outward and swirls it along the
// curl field, both growing with phase.
func Position(src noise.Source, p Particle, elapsed, phase float64) r3.Vec {
	radial := r3.Scale(phase*radialTravel, unitOrZero(p.Start))
	curl := r3.Scale(phase*swirlStrength, noise.Curl(src, SwirlCoord(p.Start, elapsed)))
	return r3.Add(r3.Add(p.Start, radial), curl)
}

// Advance computes the state of one particle at the given time and speed.
func Advance(src noise.Source, p Particle, elapsed, speed float64) State {
	phase := Phase(elapsed, speed, p.PhaseOffset)
	return State{
		Position: Position(src, p, elapsed, phase),
		Phase:    phase,
		Alpha:    Alpha(phase),
	}
}

// AdvanceAll fills dst[i] for every particle in ps. dst must be at least
// len(ps) long.
func AdvanceAll(src noise.Source, ps []Particle, dst []State, elapsed, speed float64) {
	for i := range ps {
		dst[i] = Advance(src, ps[i], elapsed, speed)
	}
}

func unitOrZero(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

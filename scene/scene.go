// Package scene drives one frame of the solar scene: it smooths the live
// parameters, advances time, and runs the surface, shading, haze and planet
// passes in that order.
package scene

import (
	"fmt"
	"math/rand"
	"runtime"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/geometry"
	"github.com/pthm-cable/solaris/noise"
	"github.com/pthm-cable/solaris/orbit"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/plasma"
	"github.com/pthm-cable/solaris/sparks"
	"github.com/pthm-cable/solaris/telemetry"
)

// Source supplies the latest parameter set. *params.Store satisfies it.
type Source interface {
	Snapshot() params.ParameterSet
}

// Options configures a scene.
type Options struct {
	Subdivisions  int
	ParticleCount int
	Seed          int64
	Noise         noise.Source
	Smoothing     float64
	HazeScale     float64 // haze group scale relative to the sun scale
	HazeSpeed     float64 // 0 follows the smoothed speed
	Planets       []orbit.Spec
	Workers       int // 0 = GOMAXPROCS

	// Optional; phase timings are recorded when set.
	Perf *telemetry.PerfCollector
}

// AnimationState is the only state carried between frames.
type AnimationState struct {
	Elapsed  float64
	Smoothed params.ParameterSet
}

// Scene owns the static buffers and the animation state.
type Scene struct {
	source Source
	opts   Options
	noise  noise.Source

	state    AnimationState
	smoother *params.Smoother
	frame    uint64

	mesh      geometry.Mesh
	particles []sparks.Particle
	planets   *orbit.System

	vertices  []plasma.Vertex
	fragments []plasma.Fragment
	haze      []sparks.State
	cycles    []float64
	planetBuf []orbit.Planet

	closed bool
}

// New builds the mesh, spawns the haze and planets, and settles the smoothed
// parameters on the source's current snapshot.
func New(source Source, opts Options) (*Scene, error) {
	if source == nil {
		return nil, fmt.Errorf("scene: nil parameter source")
	}
	if opts.Subdivisions < 0 {
		return nil, fmt.Errorf("scene: negative subdivisions %d", opts.Subdivisions)
	}
	if opts.ParticleCount < 0 {
		return nil, fmt.Errorf("scene: negative particle count %d", opts.ParticleCount)
	}
	if opts.Noise == nil {
		opts.Noise = noise.Simplex{}
	}
	if opts.HazeScale == 0 {
		opts.HazeScale = 0.5
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	initial := source.Snapshot()

	s := &Scene{
		source:    source,
		opts:      opts,
		noise:     opts.Noise,
		state:     AnimationState{Smoothed: initial},
		smoother:  params.NewSmoother(initial, opts.Smoothing),
		mesh:      geometry.Icosphere(opts.Subdivisions),
		particles: sparks.Spawn(rng, opts.ParticleCount),
		planets:   orbit.NewSystem(opts.Planets, rng),
	}
	s.vertices = make([]plasma.Vertex, len(s.mesh.Positions))
	s.fragments = make([]plasma.Fragment, len(s.mesh.Positions))
	s.haze = make([]sparks.State, len(s.particles))
	s.cycles = make([]float64, len(s.particles))
	s.planetBuf = make([]orbit.Planet, 0, s.planets.Len())
	return s, nil
}

// Mesh returns the static sphere topology.
func (s *Scene) Mesh() geometry.Mesh {
	return s.mesh
}

// Particles returns the immutable spawn records of the haze.
func (s *Scene) Particles() []sparks.Particle {
	return s.particles
}

// State returns the current animation state.
func (s *Scene) State() AnimationState {
	return s.state
}

// Closed reports whether Close has been called.
func (s *Scene) Closed() bool {
	return s.closed
}

// Close releases every buffer. Later frames are no-ops.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.mesh = geometry.Mesh{}
	s.particles = nil
	s.vertices = nil
	s.fragments = nil
	s.haze = nil
	s.cycles = nil
	s.planetBuf = nil
	s.planets = nil
}

// sunTransform maps mesh space into world space.
func sunTransform(scale float64, p r3.Vec) r3.Vec {
	return r3.Scale(scale, p)
}

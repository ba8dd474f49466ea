package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/solaris/orbit"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/plasma"
	"github.com/pthm-cable/solaris/sparks"
	"github.com/pthm-cable/solaris/telemetry"
)

// parallelThreshold is the minimum element count to split a pass.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// FrameOutput holds read-only views of one frame. Slices are owned by the
// scene and are overwritten by the next frame.
type FrameOutput struct {
	Frame    uint64
	State    AnimationState
	Uniforms plasma.Uniforms

	// Surface, indexed like the mesh positions
	Vertices  []plasma.Vertex
	Fragments []plasma.Fragment

	// Haze, indexed like the spawn records
	Haze      []sparks.State
	HazeColor params.RGB
	HazeScale float64
	HazeSpeed float64
	Respawns  int

	Planets []orbit.Planet
}

// Frame advances the scene by dt seconds and recomputes every derived
// buffer. eye is the camera position in world space and only affects the
// rim term. ok is false once the scene is closed.
// With Options.Perf set, each phase is marked with its element count;
// the caller begins and ends the profiled frame.
func (s *Scene) Frame(dt float64, eye r3.Vec) (out FrameOutput, ok bool) {
	if s.closed {
		return FrameOutput{}, false
	}
	perf := s.opts.Perf
	if perf != nil {
		perf.Mark(telemetry.PhaseSmoothing, 1)
	}

	// State is mutated exactly once, before any pass reads it.
	s.state.Smoothed = s.smoother.Step(s.source.Snapshot())
	s.state.Elapsed += dt
	s.frame++

	sm := s.state.Smoothed
	u := plasma.NewUniforms(sm, s.state.Elapsed)

	if perf != nil {
		perf.Mark(telemetry.PhaseSurface, len(s.vertices))
	}
	s.each(len(s.vertices), func(i int) {
		s.vertices[i] = plasma.Displace(s.noise, u, s.mesh.Positions[i], s.mesh.Normals[i])
	})

	if perf != nil {
		perf.Mark(telemetry.PhaseShading, len(s.fragments))
	}
	s.each(len(s.fragments), func(i int) {
		v := s.vertices[i]
		// The rim term looks at the undisplaced surface point.
		world := sunTransform(sm.Scale, v.Position)
		s.fragments[i] = plasma.Shade(u, v.Density(), plasma.ViewDir(eye, world), v.Normal)
	})

	if perf != nil {
		perf.Mark(telemetry.PhaseParticles, len(s.particles))
	}
	hazeSpeed := s.opts.HazeSpeed
	if hazeSpeed == 0 {
		hazeSpeed = sm.Speed
	}
	respawns := s.advanceHaze(s.state.Elapsed, hazeSpeed)

	if perf != nil {
		perf.Mark(telemetry.PhasePlanets, s.planets.Len())
	}
	s.planets.Update(s.state.Elapsed)
	s.planetBuf = s.planets.AppendPlanets(s.planetBuf[:0])

	return FrameOutput{
		Frame:     s.frame,
		State:     s.state,
		Uniforms:  u,
		Vertices:  s.vertices,
		Fragments: s.fragments,
		Haze:      s.haze,
		HazeColor: sm.ColorOuter,
		HazeScale: sm.Scale * s.opts.HazeScale,
		HazeSpeed: hazeSpeed,
		Respawns:  respawns,
		Planets:   s.planetBuf,
	}, true
}

// advanceHaze recomputes every particle and counts lifecycle wraps since
// the previous frame. A particle counts at most once per frame.
func (s *Scene) advanceHaze(elapsed, speed float64) int {
	counts := make([]int, s.chunks(len(s.particles)))
	s.eachChunk(len(s.particles), func(chunk, start, end int) {
		n := 0
		for i := start; i < end; i++ {
			p := s.particles[i]
			s.haze[i] = sparks.Advance(s.noise, p, elapsed, speed)
			cycle := sparks.Cycle(elapsed, speed, p.PhaseOffset)
			if s.frame > 1 && cycle > s.cycles[i] {
				n++
			}
			s.cycles[i] = cycle
		}
		counts[chunk] = n
	})
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func (s *Scene) chunks(n int) int {
	if n < parallelThreshold || s.opts.Workers <= 1 {
		return 1
	}
	return s.opts.Workers
}

// eachChunk splits [0, n) into contiguous chunks and runs fn on each,
// concurrently when n is large enough.
func (s *Scene) eachChunk(n int, fn func(chunk, start, end int)) {
	k := s.chunks(n)
	if k == 1 {
		fn(0, 0, n)
		return
	}
	size := (n + k - 1) / k

	var g errgroup.Group
	for c := 0; c < k; c++ {
		start := c * size
		end := min(start+size, n)
		if start >= end {
			continue
		}
		g.Go(func() error {
			fn(c, start, end)
			return nil
		})
	}
	// Passes are pure and never fail.
	_ = g.Wait()
}

func (s *Scene) each(n int, fn func(i int)) {
	s.eachChunk(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

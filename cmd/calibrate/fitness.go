package main

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/noise"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/scene"
	"github.com/pthm-cable/solaris/telemetry"
)

// Targets are the surface statistics a look should reach. Negative targets
// are ignored.
type Targets struct {
	DensityMean float64
	DensityStd  float64
	AlphaMean   float64
}

// Measurement is the averaged surface statistics of one evaluation.
type Measurement struct {
	DensityMean float64
	DensityStd  float64
	AlphaMean   float64
}

// loss is the summed squared relative error against the targets.
func (t Targets) loss(m Measurement) float64 {
	var sum float64
	for _, p := range [][2]float64{
		{t.DensityMean, m.DensityMean},
		{t.DensityStd, m.DensityStd},
		{t.AlphaMean, m.AlphaMean},
	} {
		if p[0] < 0 {
			continue
		}
		d := (p[1] - p[0]) / math.Max(p[0], 1e-3)
		sum += d * d
	}
	return sum
}

// fixedSource serves one parameter set for the life of a scene.
type fixedSource params.ParameterSet

func (f fixedSource) Snapshot() params.ParameterSet {
	return params.ParameterSet(f)
}

// FitnessEvaluator runs headless scenes and scores their surface statistics.
type FitnessEvaluator struct {
	params       *ParamVector
	base         params.ParameterSet
	cfg          *config.Config
	subdivisions int
	frames       int
	sampleEvery  int
	starts       []float64 // animation time skipped before each run
	targets      Targets

	mu   sync.Mutex
	last Measurement
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(pv *ParamVector, cfg *config.Config, subdivisions, frames int, starts []float64, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:       pv,
		base:         cfg.Defaults,
		cfg:          cfg,
		subdivisions: subdivisions,
		frames:       frames,
		sampleEvery:  10,
		starts:       starts,
		targets:      targets,
	}
}

// LastMeasurement returns the statistics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeasurement() Measurement {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Look returns the full parameter set for raw values x.
func (fe *FitnessEvaluator) Look(x []float64) params.ParameterSet {
	return fe.params.Apply(fe.base, x)
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Runs starting at different animation times are measured in parallel.
func (fe *FitnessEvaluator) Evaluate(x []float64) (float64, error) {
	look := fe.Look(x)

	results := make([]Measurement, len(fe.starts))
	var g errgroup.Group
	for i, start := range fe.starts {
		g.Go(func() error {
			m, err := fe.measure(look, start)
			results[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var avg Measurement
	for _, m := range results {
		avg.DensityMean += m.DensityMean
		avg.DensityStd += m.DensityStd
		avg.AlphaMean += m.AlphaMean
	}
	n := float64(len(results))
	avg.DensityMean /= n
	avg.DensityStd /= n
	avg.AlphaMean /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return fe.targets.loss(avg), nil
}

// measure runs one scene from animation time start and averages the
// sampled distributions.
func (fe *FitnessEvaluator) measure(look params.ParameterSet, start float64) (Measurement, error) {
	src, err := noise.New(fe.cfg.Noise.Kind, fe.cfg.Noise.Seed)
	if err != nil {
		return Measurement{}, fmt.Errorf("noise source: %w", err)
	}
	sc, err := scene.New(fixedSource(look), scene.Options{
		Subdivisions: fe.subdivisions,
		Seed:         fe.cfg.Scene.Seed,
		Noise:        src,
		Smoothing:    1,
		Workers:      1,
	})
	if err != nil {
		return Measurement{}, fmt.Errorf("building scene: %w", err)
	}
	defer sc.Close()

	p := fe.cfg.Camera.Position
	eye := r3.Vec{X: p[0], Y: p[1], Z: p[2]}

	if start > 0 {
		sc.Frame(start, eye)
	}

	var (
		buf                 telemetry.FrameSample
		means, stds, alphas []float64
	)
	for i := 1; i <= fe.frames; i++ {
		out, _ := sc.Frame(1.0/60, eye)
		if i%fe.sampleEvery != 0 && i != fe.frames {
			continue
		}
		sample := out.Sample(&buf)
		d := telemetry.ComputeDistribution(sample.Densities)
		means = append(means, d.Mean)
		stds = append(stds, d.Std)
		alphas = append(alphas, telemetry.Mean(sample.SurfaceAlphas))
	}

	return Measurement{
		DensityMean: telemetry.Mean(means),
		DensityStd:  telemetry.Mean(stds),
		AlphaMean:   telemetry.Mean(alphas),
	}, nil
}

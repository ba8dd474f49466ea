package telemetry

import (
	"sync"

	"github.com/pthm-cable/solaris/params"
)

// hazeVisibleAlpha matches the sprite visibility cutoff.
const hazeVisibleAlpha = 0.01

// FrameSample is the per-frame data a window is summarized from. Slices are
// read during Flush only and may be reused by the caller afterwards.
type FrameSample struct {
	Densities     []float64
	SurfaceAlphas []float64
	HazeAlphas    []float64
}

// Collector accumulates events within frame windows and produces WindowStats.
// Event recorders are safe to call from any goroutine.
type Collector struct {
	windowFrames int32

	// Current window tracking
	windowStartFrame int32

	respawns int

	mu             sync.Mutex
	paramEvents    int
	styleRequests  int
	styleFallbacks int
}

// NewCollector creates a new stats collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int32(windowFrames)}
}

// RecordRespawns records particles whose lifecycle wrapped this frame.
func (c *Collector) RecordRespawns(n int) {
	c.respawns += n
}

// RecordParamEvent records an accepted parameter edit.
func (c *Collector) RecordParamEvent() {
	c.mu.Lock()
	c.paramEvents++
	c.mu.Unlock()
}

// RecordStyle records a style generation request and whether it fell back.
func (c *Collector) RecordStyle(fallback bool) {
	c.mu.Lock()
	c.styleRequests++
	if fallback {
		c.styleFallbacks++
	}
	c.mu.Unlock()
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame int32, elapsed float64, smoothed params.ParameterSet, sample FrameSample) WindowStats {
	density := ComputeDistribution(sample.Densities)

	visible := 0
	for _, a := range sample.HazeAlphas {
		if a > hazeVisibleAlpha {
			visible++
		}
	}

	c.mu.Lock()
	paramEvents, styleRequests, styleFallbacks := c.paramEvents, c.styleRequests, c.styleFallbacks
	c.paramEvents, c.styleRequests, c.styleFallbacks = 0, 0, 0
	c.mu.Unlock()

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		ElapsedSec:       elapsed,

		Speed:             smoothed.Speed,
		Turbulence:        smoothed.Turbulence,
		Scale:             smoothed.Scale,
		DisplacementScale: smoothed.DisplacementScale,
		NoiseScale:        smoothed.NoiseScale,

		DensityMean: density.Mean,
		DensityStd:  density.Std,
		DensityP10:  density.P10,
		DensityP50:  density.P50,
		DensityP90:  density.P90,
		DensityMax:  density.Max,

		SurfaceAlphaMean: Mean(sample.SurfaceAlphas),

		HazeVisible:   visible,
		HazeAlphaMean: Mean(sample.HazeAlphas),

		Respawns:       c.respawns,
		ParamEvents:    paramEvents,
		StyleRequests:  styleRequests,
		StyleFallbacks: styleFallbacks,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.respawns = 0

	return stats
}

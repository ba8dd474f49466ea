package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/solaris/params"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{0.9, 0.1, 0.5, 0.3, 0.7}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-0.5) > 1e-12 {
		t.Errorf("mean = %v, want 0.5", d.Mean)
	}
	// Population std of {0.1,...,0.9} step 0.2
	if math.Abs(d.Std-math.Sqrt(0.08)) > 1e-12 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(0.08))
	}
	if math.Abs(d.P50-0.5) > 1e-12 || d.Max != 0.9 {
		t.Errorf("p50 = %v, max = %v", d.P50, d.Max)
	}
	// Input order is preserved.
	if values[0] != 0.9 {
		t.Error("ComputeDistribution sorted its input")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty distribution = %+v, want zero", d)
	}
	if m := Mean(nil); m != 0 {
		t.Errorf("Mean(nil) = %v, want 0", m)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3)
	if c.ShouldFlush(2) {
		t.Error("flush before window end")
	}
	if !c.ShouldFlush(3) {
		t.Error("no flush at window end")
	}

	c.RecordRespawns(4)
	c.RecordRespawns(1)
	c.RecordParamEvent()
	c.RecordStyle(false)
	c.RecordStyle(true)

	smoothed := params.Default()
	stats := c.Flush(3, 0.05, smoothed, FrameSample{
		Densities:     []float64{0.2, 0.4},
		SurfaceAlphas: []float64{1, 0.5},
		HazeAlphas:    []float64{0, 0.005, 0.5, 0.9},
	})

	if stats.Respawns != 5 || stats.ParamEvents != 1 {
		t.Errorf("respawns = %d, param events = %d", stats.Respawns, stats.ParamEvents)
	}
	if stats.StyleRequests != 2 || stats.StyleFallbacks != 1 {
		t.Errorf("style requests = %d, fallbacks = %d", stats.StyleRequests, stats.StyleFallbacks)
	}
	if stats.HazeVisible != 2 {
		t.Errorf("haze visible = %d, want 2", stats.HazeVisible)
	}
	if math.Abs(stats.DensityMean-0.3) > 1e-12 || math.Abs(stats.SurfaceAlphaMean-0.75) > 1e-12 {
		t.Errorf("density mean = %v, alpha mean = %v", stats.DensityMean, stats.SurfaceAlphaMean)
	}
	if stats.Speed != smoothed.Speed {
		t.Errorf("speed = %v, want %v", stats.Speed, smoothed.Speed)
	}

	// Counters reset for the next window.
	next := c.Flush(6, 0.1, smoothed, FrameSample{})
	if next.WindowStartFrame != 3 || next.Respawns != 0 || next.StyleRequests != 0 {
		t.Errorf("next window not reset: %+v", next)
	}
}

package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`

	// Smoothed parameters at window end
	Speed             float64 `csv:"speed"`
	Turbulence        float64 `csv:"turbulence"`
	Scale             float64 `csv:"scale"`
	DisplacementScale float64 `csv:"displacement_scale"`
	NoiseScale        float64 `csv:"noise_scale"`

	// Surface density distribution (sampled at window end)
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	DensityMax  float64 `csv:"density_max"`

	SurfaceAlphaMean float64 `csv:"surface_alpha_mean"`

	// Haze (sampled at window end)
	HazeVisible   int     `csv:"haze_visible"` // particles with alpha above the sprite cutoff
	HazeAlphaMean float64 `csv:"haze_alpha_mean"`

	// Events during window
	Respawns       int `csv:"respawns"`
	ParamEvents    int `csv:"param_events"`
	StyleRequests  int `csv:"style_requests"`
	StyleFallbacks int `csv:"style_fallbacks"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std          float64
	P10, P50, P90, Max float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std, percentiles and max.
// The input is not modified.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  floats.Max(sorted),
	}
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Float64("speed", s.Speed),
		slog.Float64("turbulence", s.Turbulence),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("surface_alpha_mean", s.SurfaceAlphaMean),
		slog.Int("haze_visible", s.HazeVisible),
		slog.Float64("haze_alpha_mean", s.HazeAlphaMean),
		slog.Int("respawns", s.Respawns),
		slog.Int("param_events", s.ParamEvents),
		slog.Int("style_requests", s.StyleRequests),
		slog.Int("style_fallbacks", s.StyleFallbacks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

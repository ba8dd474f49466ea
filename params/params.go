// Package params defines the live parameter set that drives the plasma sun,
// its documented ranges, and the single owner through which edits flow.
package params

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrUnknownField is returned when an event names a field that does not exist
// or has the wrong kind (color vs scalar).
var ErrUnknownField = errors.New("unknown parameter field")

// ErrInvalidRange is returned for a range whose bounds are reversed or NaN.
var ErrInvalidRange = errors.New("invalid range")

// Field names a parameter. Values match the JSON keys of the AI schema.
type Field string

const (
	FieldColorCore         Field = "colorCore"
	FieldColorOuter        Field = "colorOuter"
	FieldSpeed             Field = "speed"
	FieldTurbulence        Field = "turbulence"
	FieldScale             Field = "scale"
	FieldDisplacementScale Field = "displacementScale"
	FieldNoiseScale        Field = "noiseScale"
)

// ScalarFields lists the slider-driven fields in panel order.
var ScalarFields = []Field{
	FieldSpeed,
	FieldTurbulence,
	FieldDisplacementScale,
	FieldNoiseScale,
	FieldScale,
}

// ParameterSet is the user-adjustable look of the sun.
type ParameterSet struct {
	ColorCore         RGB     `yaml:"color_core" json:"colorCore"`
	ColorOuter        RGB     `yaml:"color_outer" json:"colorOuter"`
	Speed             float64 `yaml:"speed" json:"speed"`
	Turbulence        float64 `yaml:"turbulence" json:"turbulence"`
	Scale             float64 `yaml:"scale" json:"scale"`
	DisplacementScale float64 `yaml:"displacement_scale" json:"displacementScale"`
	NoiseScale        float64 `yaml:"noise_scale" json:"noiseScale"`
}

// Default returns the calibrated default look.
func Default() ParameterSet {
	return ParameterSet{
		ColorCore:         MustParseHex("#ffffff"),
		ColorOuter:        MustParseHex("#fb5151"),
		Speed:             1.4,
		Turbulence:        0.2,
		Scale:             1.4,
		DisplacementScale: 0.29,
		NoiseScale:        10.0,
	}
}

// Scalar returns the value of a scalar field.
func (p ParameterSet) Scalar(f Field) (float64, error) {
	switch f {
	case FieldSpeed:
		return p.Speed, nil
	case FieldTurbulence:
		return p.Turbulence, nil
	case FieldScale:
		return p.Scale, nil
	case FieldDisplacementScale:
		return p.DisplacementScale, nil
	case FieldNoiseScale:
		return p.NoiseScale, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// WithScalar returns a copy of p with field f set to v. The value is not
// clamped.
func (p ParameterSet) WithScalar(f Field, v float64) (ParameterSet, error) {
	ptr, err := p.scalarPtr(f)
	if err != nil {
		return p, err
	}
	*ptr = v
	return p, nil
}

func (p *ParameterSet) scalarPtr(f Field) (*float64, error) {
	switch f {
	case FieldSpeed:
		return &p.Speed, nil
	case FieldTurbulence:
		return &p.Turbulence, nil
	case FieldScale:
		return &p.Scale, nil
	case FieldDisplacementScale:
		return &p.DisplacementScale, nil
	case FieldNoiseScale:
		return &p.NoiseScale, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

func (p *ParameterSet) colorPtr(f Field) (*RGB, error) {
	switch f {
	case FieldColorCore:
		return &p.ColorCore, nil
	case FieldColorOuter:
		return &p.ColorOuter, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Lerp moves every field of p toward target by factor t in [0, 1].
// Colors are blended per channel.
func (p ParameterSet) Lerp(target ParameterSet, t float64) ParameterSet {
	return ParameterSet{
		ColorCore:         p.ColorCore.Lerp(target.ColorCore, t),
		ColorOuter:        p.ColorOuter.Lerp(target.ColorOuter, t),
		Speed:             lerp(p.Speed, target.Speed, t),
		Turbulence:        lerp(p.Turbulence, target.Turbulence, t),
		Scale:             lerp(p.Scale, target.Scale, t),
		DisplacementScale: lerp(p.DisplacementScale, target.DisplacementScale, t),
		NoiseScale:        lerp(p.NoiseScale, target.NoiseScale, t),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LogValue implements slog.LogValuer.
func (p ParameterSet) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("color_core", p.ColorCore.Hex()),
		slog.String("color_outer", p.ColorOuter.Hex()),
		slog.Float64("speed", p.Speed),
		slog.Float64("turbulence", p.Turbulence),
		slog.Float64("scale", p.Scale),
		slog.Float64("displacement_scale", p.DisplacementScale),
		slog.Float64("noise_scale", p.NoiseScale),
	)
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp limits v to the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds the documented slider range of every scalar field.
type Ranges struct {
	Speed             Range `yaml:"speed"`
	Turbulence        Range `yaml:"turbulence"`
	Scale             Range `yaml:"scale"`
	DisplacementScale Range `yaml:"displacement_scale"`
	NoiseScale        Range `yaml:"noise_scale"`
}

// DefaultRanges returns the control panel's slider limits.
func DefaultRanges() Ranges {
	return Ranges{
		Speed:             Range{Min: 0, Max: 5},
		Turbulence:        Range{Min: 0, Max: 5},
		Scale:             Range{Min: 0.5, Max: 3},
		DisplacementScale: Range{Min: 0, Max: 1},
		NoiseScale:        Range{Min: 0.1, Max: 10},
	}
}

// For returns the range of a scalar field.
func (r Ranges) For(f Field) (Range, error) {
	switch f {
	case FieldSpeed:
		return r.Speed, nil
	case FieldTurbulence:
		return r.Turbulence, nil
	case FieldScale:
		return r.Scale, nil
	case FieldDisplacementScale:
		return r.DisplacementScale, nil
	case FieldNoiseScale:
		return r.NoiseScale, nil
	}
	return Range{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Clamp limits every scalar field of p to its documented range.
func (r Ranges) Clamp(p ParameterSet) ParameterSet {
	p.Speed = r.Speed.Clamp(p.Speed)
	p.Turbulence = r.Turbulence.Clamp(p.Turbulence)
	p.Scale = r.Scale.Clamp(p.Scale)
	p.DisplacementScale = r.DisplacementScale.Clamp(p.DisplacementScale)
	p.NoiseScale = r.NoiseScale.Clamp(p.NoiseScale)
	return p
}

// Validate checks that every range is well formed.
func (r Ranges) Validate() error {
	for _, f := range ScalarFields {
		rng, _ := r.For(f)
		if math.IsNaN(rng.Min) || math.IsNaN(rng.Max) || rng.Min > rng.Max {
			return fmt.Errorf("%w: %s [%g, %g]", ErrInvalidRange, f, rng.Min, rng.Max)
		}
	}
	return nil
}

// OutOfRange lists the scalar fields of p that Clamp would change.
func (r Ranges) OutOfRange(p ParameterSet) []Field {
	var out []Field
	for _, f := range ScalarFields {
		rng, _ := r.For(f)
		v, _ := p.Scalar(f)
		if !rng.Contains(v) {
			out = append(out, f)
		}
	}
	return out
}

// Package main provides CMA-ES calibration of the plasma surface parameters.
package main

import (
	"github.com/pthm-cable/solaris/params"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Field   params.Field
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// calibrated lists the fields that shape the surface statistics. Colors,
// speed and scale are left to the base look.
var calibrated = []params.Field{
	params.FieldTurbulence,
	params.FieldDisplacementScale,
	params.FieldNoiseScale,
}

// NewParamVector bounds each calibrated field by its slider range and
// starts from the base look.
func NewParamVector(ranges params.Ranges, base params.ParameterSet) *ParamVector {
	pv := &ParamVector{}
	for _, f := range calibrated {
		r, _ := ranges.For(f)
		v, _ := base.Scalar(f)
		pv.Specs = append(pv.Specs, ParamSpec{Field: f, Min: r.Min, Max: r.Max, Default: r.Clamp(v)})
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = params.Range{Min: spec.Min, Max: spec.Max}.Clamp(v[i])
	}
	return clamped
}

// Apply writes clamped values into a copy of base.
func (pv *ParamVector) Apply(base params.ParameterSet, values []float64) params.ParameterSet {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		base, _ = base.WithScalar(spec.Field, clamped[i])
	}
	return base
}

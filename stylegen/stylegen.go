// Package stylegen turns a natural-language description into a parameter
// set. Failures never reach callers: they get the configured fallback.
package stylegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/solaris/params"
)

var (
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMissingField is returned when a response omits a required field.
	ErrMissingField = errors.New("missing field")
)

// Style is a generated look plus the model's explanation.
type Style struct {
	Config    params.ParameterSet `json:"config"`
	Reasoning string              `json:"reasoning"`
}

// Generator produces a style for a prompt. Implementations may fail.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Style, error)
}

// Result is what the service hands back.
type Result struct {
	Style
	Prompt   string
	Fallback bool
	Clamped  []params.Field // fields pulled back into range
}

// Service wraps a Generator with validation, clamping and the fallback.
type Service struct {
	gen      Generator
	fallback Style
	ranges   params.Ranges
	timeout  time.Duration
}

// NewService creates a service. gen may be nil, in which case every request
// returns the fallback.
func NewService(gen Generator, fallback Style, ranges params.Ranges, timeout time.Duration) *Service {
	return &Service{
		gen:      gen,
		fallback: fallback,
		ranges:   ranges,
		timeout:  timeout,
	}
}

// Fallback returns the style used when generation fails.
func (s *Service) Fallback() Style {
	return s.fallback
}

// Generate asks the generator for a style. It never fails: errors are logged
// and replaced by the fallback. Out-of-range values are clamped.
func (s *Service) Generate(ctx context.Context, prompt string) Result {
	if s.gen == nil {
		slog.Warn("style generation unavailable", "prompt", prompt)
		return s.fallbackResult(prompt)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	style, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("style generation failed", "prompt", prompt, "error", err)
		return s.fallbackResult(prompt)
	}

	clamped := s.ranges.OutOfRange(style.Config)
	if len(clamped) > 0 {
		slog.Info("style clamped", "prompt", prompt, "fields", clamped)
	}
	style.Config = s.ranges.Clamp(style.Config)

	return Result{Style: style, Prompt: prompt, Clamped: clamped}
}

func (s *Service) fallbackResult(prompt string) Result {
	return Result{Style: s.fallback, Prompt: prompt, Fallback: true}
}

// rawStyle mirrors the response schema with every field optional so that
// omissions can be told apart from zero values.
type rawStyle struct {
	Config *struct {
		ColorCore         *string  `json:"colorCore"`
		ColorOuter        *string  `json:"colorOuter"`
		Speed             *float64 `json:"speed"`
		Turbulence        *float64 `json:"turbulence"`
		Scale             *float64 `json:"scale"`
		DisplacementScale *float64 `json:"displacementScale"`
		NoiseScale        *float64 `json:"noiseScale"`
	} `json:"config"`
	Reasoning string `json:"reasoning"`
}

// Decode parses a JSON response. Every config field is required and colors
// must be #RRGGBB. Values are not clamped.
func Decode(text string) (Style, error) {
	if text == "" {
		return Style{}, ErrEmptyResponse
	}
	var raw rawStyle
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Style{}, fmt.Errorf("decoding style: %w", err)
	}
	c := raw.Config
	if c == nil {
		return Style{}, fmt.Errorf("%w: config", ErrMissingField)
	}

	scalars := []struct {
		field params.Field
		v     *float64
	}{
		{params.FieldSpeed, c.Speed},
		{params.FieldTurbulence, c.Turbulence},
		{params.FieldScale, c.Scale},
		{params.FieldDisplacementScale, c.DisplacementScale},
		{params.FieldNoiseScale, c.NoiseScale},
	}
	for _, s := range scalars {
		if s.v == nil {
			return Style{}, fmt.Errorf("%w: %s", ErrMissingField, s.field)
		}
	}
	if c.ColorCore == nil {
		return Style{}, fmt.Errorf("%w: %s", ErrMissingField, params.FieldColorCore)
	}
	if c.ColorOuter == nil {
		return Style{}, fmt.Errorf("%w: %s", ErrMissingField, params.FieldColorOuter)
	}

	core, err := params.ParseHex(*c.ColorCore)
	if err != nil {
		return Style{}, fmt.Errorf("%s: %w", params.FieldColorCore, err)
	}
	outer, err := params.ParseHex(*c.ColorOuter)
	if err != nil {
		return Style{}, fmt.Errorf("%s: %w", params.FieldColorOuter, err)
	}

	return Style{
		Config: params.ParameterSet{
			ColorCore:         core,
			ColorOuter:        outer,
			Speed:             *c.Speed,
			Turbulence:        *c.Turbulence,
			Scale:             *c.Scale,
			DisplacementScale: *c.DisplacementScale,
			NoiseScale:        *c.NoiseScale,
		},
		Reasoning: raw.Reasoning,
	}, nil
}

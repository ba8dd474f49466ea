// Package ui provides a descriptor-driven control surface for the scene.
// Sliders are generated from parameter metadata, so new fields only need a
// descriptor entry.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/params"
)

// SliderDescriptor defines how to display one scalar parameter.
type SliderDescriptor struct {
	Field  params.Field
	Label  string
	Format string // Printf format for the value readout
	Range  params.Range
}

// Sliders returns one descriptor per scalar field in panel order.
func Sliders(ranges params.Ranges) []SliderDescriptor {
	labels := map[params.Field]string{
		params.FieldSpeed:             "Speed",
		params.FieldTurbulence:        "Turbulence",
		params.FieldDisplacementScale: "Displacement",
		params.FieldNoiseScale:        "Noise Scale",
		params.FieldScale:             "Size",
	}
	out := make([]SliderDescriptor, 0, len(params.ScalarFields))
	for _, f := range params.ScalarFields {
		rng, _ := ranges.For(f)
		out = append(out, SliderDescriptor{
			Field:  f,
			Label:  labels[f],
			Format: "%.2f",
			Range:  rng,
		})
	}
	return out
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	Accent         rl.Color
	Warning        rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 10, B: 12, A: 200},
		PanelBorder:    rl.Color{R: 70, G: 40, B: 40, A: 255},
		SectionHeader:  rl.Color{R: 239, G: 68, B: 68, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		Accent:         rl.Color{R: 251, G: 81, B: 81, A: 255},
		Warning:        rl.Yellow,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 200, G: 90, B: 70, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

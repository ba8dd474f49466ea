package params

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a color string is not of the form #RRGGBB.
var ErrInvalidHex = errors.New("invalid hex color")

// RGB is a linear color with channels nominally in [0, 1].
// Channels may exceed 1 after additive stages; clamping is left to the renderer.
type RGB struct {
	R, G, B float64
}

// White and Black are the ramp endpoints used by the plasma shader.
var (
	White = RGB{1, 1, 1}
	Black = RGB{0, 0, 0}
)

// ParseHex parses a strict #RRGGBB color string.
func ParseHex(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	for _, c := range s[1:] {
		if !isHexDigit(c) {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return RGB{R: c.R, G: c.G, B: c.B}, nil
}

// MustParseHex is like ParseHex but panics on error. Intended for literals.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Hex formats the color as #rrggbb, clamping each channel to [0, 1].
func (c RGB) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// Colorful converts to a go-colorful color without clamping.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Lerp linearly blends c toward o by t (GLSL mix).
func (c RGB) Lerp(o RGB, t float64) RGB {
	b := c.Colorful().BlendRgb(o.Colorful(), t)
	return RGB{R: b.R, G: b.G, B: b.B}
}

// Add returns the channel-wise sum.
func (c RGB) Add(o RGB) RGB {
	return RGB{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// RGBA8 tone maps the color to 8 bits per channel. Channels above 1 are
// clamped, so the additive rim saturates to the outer color's hue.
func (c RGB) RGBA8(alpha float64) color.RGBA {
	return color.RGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(alpha),
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// MarshalText encodes the color as #rrggbb so YAML and JSON carry hex strings.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a strict #RRGGBB string.
func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

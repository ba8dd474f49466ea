package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/starfield"
)

// BackgroundRenderer draws the static star field.
type BackgroundRenderer struct {
	positions []rl.Vector3
	colors    []rl.Color
	sizes     []float32
}

// NewBackgroundRenderer creates a star field renderer.
func NewBackgroundRenderer(stars []starfield.Star) *BackgroundRenderer {
	b := &BackgroundRenderer{
		positions: make([]rl.Vector3, len(stars)),
		colors:    make([]rl.Color, len(stars)),
		sizes:     make([]float32, len(stars)),
	}
	for i, s := range stars {
		b.positions[i] = vec(s.Position, 1)
		b.colors[i] = s.Color.RGBA8(1)
		b.sizes[i] = float32(s.Size)
	}
	return b
}

// Draw renders every star. Must be called inside BeginMode3D.
// Large stars get a small cube so they survive distance; the rest are points.
func (b *BackgroundRenderer) Draw() {
	for i, p := range b.positions {
		if b.sizes[i] > 1.2 {
			rl.DrawCube(p, b.sizes[i]*0.3, b.sizes[i]*0.3, b.sizes[i]*0.3, b.colors[i])
			continue
		}
		rl.DrawPoint3D(p, b.colors[i])
	}
}

package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/camera"
	"github.com/pthm-cable/solaris/scene"
	"github.com/pthm-cable/solaris/sparks"
)

// HazeRenderer draws the haze particles as additive glow billboards.
type HazeRenderer struct {
	spriteSize int
	pixelScale float64
	sizes      []float64

	sprite      rl.Texture2D
	initialized bool
}

// NewHazeRenderer creates a haze renderer. spriteSize is the edge of the baked
// glow texture in pixels; pixelScale converts screen-space point sizes back
// into world units.
func NewHazeRenderer(particles []sparks.Particle, spriteSize int, pixelScale float64) *HazeRenderer {
	if spriteSize < 8 {
		spriteSize = 8
	}
	sizes := make([]float64, len(particles))
	for i, p := range particles {
		sizes[i] = p.Size
	}
	return &HazeRenderer{
		spriteSize: spriteSize,
		pixelScale: pixelScale,
		sizes:      sizes,
	}
}

// Init bakes the glow sprite (must be called after raylib window is created).
func (r *HazeRenderer) Init() {
	if r.initialized {
		return
	}

	n := r.spriteSize
	img := rl.GenImageColor(n, n, rl.Blank)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx := (float64(x)+0.5)/float64(n) - 0.5
			dy := (float64(y)+0.5)/float64(n) - 0.5
			s, ok := sparks.SpriteStrength(math.Hypot(dx, dy))
			if !ok {
				continue
			}
			a := uint8(math.Round(math.Min(s, 1) * 255))
			rl.ImageDrawPixel(img, int32(x), int32(y), rl.Color{R: 255, G: 255, B: 255, A: a})
		}
	}
	r.sprite = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(r.sprite, rl.FilterBilinear)

	r.initialized = true
}

// Draw renders the haze of one frame. Must be called inside BeginMode3D,
// after opaque geometry.
func (r *HazeRenderer) Draw(out scene.FrameOutput, cam *camera.Camera, rlCam rl.Camera3D) {
	if !r.initialized {
		r.Init()
	}
	if len(out.Haze) == 0 {
		return
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()

	for i, st := range out.Haze {
		if st.Alpha <= 0 || i >= len(r.sizes) {
			continue
		}
		pos := vec(st.Position, out.HazeScale)
		depth := cam.ViewDepth(glPoint(pos))
		px := sparks.PointSize(r.sizes[i], float64(depth))
		if px == 0 {
			continue
		}
		// Screen-space size times depth is constant in world units.
		world := float32(px * float64(-depth) * r.pixelScale * out.HazeScale)
		rl.DrawBillboard(rlCam, r.sprite, pos, world, out.HazeColor.RGBA8(st.Alpha))
	}

	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// Unload frees resources.
func (r *HazeRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.sprite)
		r.initialized = false
	}
}

package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/geometry"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/scene"
)

const (
	// CoreScale is the inner core radius relative to the undisplaced shell.
	CoreScale = 0.95

	coreSubdivisions = 2
)

// SunRenderer draws the opaque inner core and the displaced plasma surface.
type SunRenderer struct {
	indices []int32
	core    geometry.Mesh
	coreBuf []rl.Vector3
}

// NewSunRenderer creates a sun renderer for the scene's static mesh.
func NewSunRenderer(mesh geometry.Mesh) *SunRenderer {
	return &SunRenderer{
		indices: mesh.Indices,
		core:    geometry.Icosphere(coreSubdivisions),
	}
}

// coreTriangles returns the core mesh as flat triangle corners at the given
// sun scale. The slice is reused by the next call.
func (r *SunRenderer) coreTriangles(scale float64) []rl.Vector3 {
	r.coreBuf = r.coreBuf[:0]
	for _, i := range r.core.Indices {
		r.coreBuf = append(r.coreBuf, vec(r.core.Positions[i], scale*CoreScale))
	}
	return r.coreBuf
}

// Draw renders the core and surface of one frame. The black core writes
// depth and hides whatever lies behind the sun. Surface vertex colors are
// averaged per triangle and tone mapped by clamping; the surface is
// translucent and does not write depth.
// Must be called inside BeginMode3D.
func (r *SunRenderer) Draw(out scene.FrameOutput) {
	if len(out.Vertices) == 0 {
		return
	}
	scale := out.State.Smoothed.Scale

	core := r.coreTriangles(scale)
	for i := 0; i+2 < len(core); i += 3 {
		rl.DrawTriangle3D(core[i], core[i+1], core[i+2], rl.Black)
	}

	rl.BeginBlendMode(rl.BlendAlpha)
	rl.DisableDepthMask()

	for i := 0; i+2 < len(r.indices); i += 3 {
		a, b, c := r.indices[i], r.indices[i+1], r.indices[i+2]
		fa, fb, fc := out.Fragments[a], out.Fragments[b], out.Fragments[c]

		color := fa.Color.Add(fb.Color).Add(fc.Color).Scale(1.0 / 3)
		alpha := (fa.Alpha + fb.Alpha + fc.Alpha) / 3

		rl.DrawTriangle3D(
			vec(out.Vertices[a].Displaced, scale),
			vec(out.Vertices[b].Displaced, scale),
			vec(out.Vertices[c].Displaced, scale),
			color.RGBA8(alpha),
		)
	}

	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// DrawCorona renders a faint halo sized to the sun, tinted by the outer color.
// Must be called outside BeginMode3D with the sun center in screen space.
func (r *SunRenderer) DrawCorona(x, y, radius float32, outer params.RGB) {
	steps := 8
	for i := steps; i >= 1; i-- {
		t := float32(i) / float32(steps)
		alpha := (1 - t) * (1 - t) * 0.12
		rl.DrawCircle(int32(x), int32(y), radius*(1+t), outer.RGBA8(float64(alpha)))
	}
}

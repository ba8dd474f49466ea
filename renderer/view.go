// Package renderer draws the scene with raylib. Renderers that own GPU
// resources must be initialized after the window is created.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/camera"
)

// Camera3D converts the orbit camera into a raylib camera.
func Camera3D(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   glVec(c.Eye()),
		Target:     glVec(c.Target),
		Up:         glVec(c.Up()),
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}

// EyeWorld returns the camera position in double precision for shading.
func EyeWorld(c *camera.Camera) r3.Vec {
	e := c.Eye()
	return r3.Vec{X: float64(e[0]), Y: float64(e[1]), Z: float64(e[2])}
}

func glVec(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func vec(v r3.Vec, scale float64) rl.Vector3 {
	return rl.Vector3{
		X: float32(v.X * scale),
		Y: float32(v.Y * scale),
		Z: float32(v.Z * scale),
	}
}

func glPoint(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Package camera provides an orbit camera circling the sun.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxElevation keeps the camera off the poles where the up vector degenerates.
const maxElevation = math.Pi/2 - 0.01

// Camera orbits a target point at a clamped distance.
// Angles are in radians; elevation is measured up from the XZ plane.
type Camera struct {
	Target    mgl32.Vec3
	Azimuth   float32
	Elevation float32
	Distance  float32

	// Vertical field of view in degrees
	FOV       float32
	Near, Far float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	MinDistance, MaxDistance float32

	// AutoRotate of 1.0 is one revolution per minute.
	AutoRotate float32

	home mgl32.Vec3
}

// New creates a camera at position looking at the origin.
func New(position mgl32.Vec3, fov, viewportW, viewportH float32) *Camera {
	c := &Camera{
		FOV:         fov,
		Near:        0.1,
		Far:         1000,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 0.1,
		MaxDistance: 1000,
		home:        position,
	}
	c.SetPosition(position)
	return c
}

// SetPosition places the eye at p, keeping the current target.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	d := p.Sub(c.Target)
	c.Distance = d.Len()
	if c.Distance == 0 {
		c.Azimuth, c.Elevation = 0, 0
		return
	}
	c.Azimuth = float32(math.Atan2(float64(d[0]), float64(d[2])))
	c.Elevation = float32(math.Asin(float64(d[1] / c.Distance)))
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() mgl32.Vec3 {
	sa, ca := math.Sincos(float64(c.Azimuth))
	se, ce := math.Sincos(float64(c.Elevation))
	offset := mgl32.Vec3{
		float32(ce * sa),
		float32(se),
		float32(ce * ca),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// Up is the world up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 1, 0}
}

// View returns the world-to-view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, c.Up())
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	aspect := float32(1)
	if c.ViewportH > 0 {
		aspect = c.ViewportW / c.ViewportH
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewDepth returns the view-space z of a world point. Points in front of
// the camera are negative.
func (c *Camera) ViewDepth(p mgl32.Vec3) float32 {
	return c.View().Mul4x1(p.Vec4(1)).Z()
}

// WorldToScreen projects a world point to screen pixels with y growing
// downward. ok is false for points at or behind the eye.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (sx, sy float32, ok bool) {
	view := c.View()
	if view.Mul4x1(p.Vec4(1)).Z() >= 0 {
		return 0, 0, false
	}
	win := mgl32.Project(p, view, c.Projection(), 0, 0, int(c.ViewportW), int(c.ViewportH))
	return win[0], c.ViewportH - win[1], true
}

// Update advances auto-rotation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.AutoRotate == 0 {
		return
	}
	c.Azimuth = wrapAngle(c.Azimuth + 2*math.Pi/60*c.AutoRotate*dt)
}

// Orbit rotates the camera around the target.
func (c *Camera) Orbit(dAzimuth, dElevation float32) {
	c.Azimuth = wrapAngle(c.Azimuth + dAzimuth)
	c.Elevation = clamp(c.Elevation+dElevation, -maxElevation, maxElevation)
}

// SetDistance sets the distance to the target within limits.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy scales the distance by factor. Factors below 1 move closer.
func (c *Camera) ZoomBy(factor float32) {
	c.SetDistance(c.Distance * factor)
}

// Resize updates viewport dimensions (e.g. on window resize).
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial position.
func (c *Camera) Reset() {
	c.Target = mgl32.Vec3{}
	c.SetPosition(c.home)
	c.SetDistance(c.Distance)
}

func wrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	a = float32(math.Mod(float64(a), twoPi))
	if a < 0 {
		a += twoPi
	}
	return a
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

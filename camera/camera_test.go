package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestNewRoundTripsPosition(t *testing.T) {
	testCases := []mgl32.Vec3{
		{0, 10, 25},
		{5, 0, 0},
		{-3, -4, 12},
	}

	for _, pos := range testCases {
		cam := New(pos, 40, 1280, 800)
		eye := cam.Eye()
		for i := 0; i < 3; i++ {
			if !near(eye[i], pos[i], 1e-4) {
				t.Errorf("eye %v, want %v", eye, pos)
				break
			}
		}
	}
}

func TestViewDepthOfTarget(t *testing.T) {
	cam := New(mgl32.Vec3{0, 10, 25}, 40, 1280, 800)

	want := -mgl32.Vec3{0, 10, 25}.Len()
	if got := cam.ViewDepth(mgl32.Vec3{}); !near(got, want, 1e-3) {
		t.Errorf("ViewDepth(origin) = %f, want %f", got, want)
	}
	// A point behind the camera has positive depth.
	if got := cam.ViewDepth(mgl32.Vec3{0, 20, 50}); got <= 0 {
		t.Errorf("ViewDepth behind eye = %f, want > 0", got)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(mgl32.Vec3{0, 10, 25}, 40, 1280, 800)

	// Target should map to screen center
	sx, sy, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok {
		t.Fatal("target reported behind camera")
	}
	if !near(sx, 640, 0.01) || !near(sy, 400, 0.01) {
		t.Errorf("expected screen center (640, 400), got (%f, %f)", sx, sy)
	}

	// Points above the target appear higher on screen.
	_, upY, _ := cam.WorldToScreen(mgl32.Vec3{0, 1, 0})
	if upY >= sy {
		t.Errorf("point above target at y=%f, want < %f", upY, sy)
	}

	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 20, 50}); ok {
		t.Error("point behind camera reported visible")
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(mgl32.Vec3{0, 10, 25}, 40, 1280, 800)
	cam.MinDistance, cam.MaxDistance = 3.5, 50

	tests := []struct {
		name   string
		factor float32
		want   float32
	}{
		{"far out", 100, 50},
		{"far in", 0.0001, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.ZoomBy(tt.factor)
			if cam.Distance != tt.want {
				t.Errorf("distance = %f, want %f", cam.Distance, tt.want)
			}
		})
	}
}

func TestAutoRotate(t *testing.T) {
	cam := New(mgl32.Vec3{0, 0, 10}, 40, 100, 100)
	cam.AutoRotate = 1

	// One revolution per minute.
	for i := 0; i < 60; i++ {
		cam.Update(1)
	}
	if !near(cam.Azimuth, 0, 1e-3) && !near(cam.Azimuth, 2*math.Pi, 1e-3) {
		t.Errorf("azimuth after 60s = %f, want full turn", cam.Azimuth)
	}

	cam.Update(15)
	if !near(cam.Azimuth, math.Pi/2, 1e-3) {
		t.Errorf("azimuth after 15s = %f, want pi/2", cam.Azimuth)
	}
	if d := cam.Eye().Len(); !near(d, 10, 1e-4) {
		t.Errorf("rotation changed distance to %f", d)
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	cam := New(mgl32.Vec3{0, 0, 10}, 40, 100, 100)
	cam.Orbit(0, 10)
	if cam.Elevation >= math.Pi/2 {
		t.Errorf("elevation = %f, want below pi/2", cam.Elevation)
	}
	cam.Orbit(0, -20)
	if cam.Elevation <= -math.Pi/2 {
		t.Errorf("elevation = %f, want above -pi/2", cam.Elevation)
	}
}

func TestReset(t *testing.T) {
	home := mgl32.Vec3{0, 10, 25}
	cam := New(home, 40, 1280, 800)
	cam.Orbit(1, 0.3)
	cam.ZoomBy(0.5)
	cam.Reset()

	eye := cam.Eye()
	for i := 0; i < 3; i++ {
		if !near(eye[i], home[i], 1e-4) {
			t.Fatalf("eye after reset = %v, want %v", eye, home)
		}
	}
}

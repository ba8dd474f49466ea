package game

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	orbitSensitivity = 0.005 // radians per pixel dragged
	zoomStep         = 0.1
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Camera controls
	g.handleCameraInput()

	// Hotkeys are ignored while a text box has focus.
	if g.controls.Editing() {
		return
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyF12) {
		g.takeSnapshot()
	}

	g.handleOverlayKeys()
}

// handleOverlayKeys toggles registered overlays by hotkey.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(16, int32(h)-160)
	g.statsPanel.SetPosition(16, int32(h)-210)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overPanel := g.controls.Contains(mouse.X, mouse.Y)

	// Drag to orbit
	if !overPanel && (rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsMouseButtonDown(rl.MouseButtonRight)) {
		d := rl.GetMouseDelta()
		g.camera.Orbit(-d.X*orbitSensitivity, d.Y*orbitSensitivity)
	}

	// Zoom controls: mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		g.camera.ZoomBy(1 - wheel*zoomStep)
	}

	if g.controls.Editing() {
		return
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// takeSnapshot saves the current frame next to the run output, or in the
// working directory when output is disabled.
func (g *Game) takeSnapshot() {
	path := filepath.Join(g.outputManager.Dir(), fmt.Sprintf("snapshot_%06d.png", g.last.Frame))
	if err := g.Snapshot(path); err != nil {
		g.flashError(err)
		return
	}
	g.notice = "saved " + path
	g.noticeFrames = 120
}

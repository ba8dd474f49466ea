package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/renderer"
	"github.com/pthm-cable/solaris/starfield"
	"github.com/pthm-cable/solaris/ui"
)

const controlsLegend = "Drag: orbit | Wheel: zoom | Home: reset | Tab: panel | Space: pause | H/C/P/O/B: layers | F/T: debug | F12: snapshot"

// starField scatters the background stars. The star rng is derived from the
// run seed so stars do not shift when the particle count changes.
func starField(cfg *config.Config, seed int64) []starfield.Star {
	rng := rand.New(rand.NewSource(seed ^ 0x5eed))
	return starfield.Generate(rng, cfg.Stars.Count, cfg.Stars.Radius, cfg.Stars.Depth)
}

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordDraw()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.drawScene()
	g.drawUI()
	rl.EndDrawing()
}

// drawScene renders the corona, background, planets, sun and haze for the
// last computed frame.
func (g *Game) drawScene() {
	out := g.last
	rlCam := renderer.Camera3D(g.camera)

	if g.overlays.IsEnabled(ui.OverlayCorona) && len(out.Vertices) > 0 {
		g.drawCorona(out.State.Smoothed)
	}

	rl.BeginMode3D(rlCam)

	if g.overlays.IsEnabled(ui.OverlayStars) {
		g.backgroundRenderer.Draw()
	}
	if g.overlays.IsEnabled(ui.OverlayPlanets) {
		g.planetRenderer.Draw(out.Planets, g.overlays.IsEnabled(ui.OverlayOrbits))
	}
	g.sunRenderer.Draw(out)
	if g.overlays.IsEnabled(ui.OverlayHaze) {
		g.hazeRenderer.Draw(out, g.camera, rlCam)
	}

	rl.EndMode3D()
}

// Snapshot renders the scene without UI into an offscreen target of the
// current screen size and writes it to path as PNG.
func (g *Game) Snapshot(path string) error {
	if g.headless {
		return errors.New("snapshot requires a window")
	}
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	target := rl.LoadRenderTexture(w, h)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	g.drawScene()
	rl.EndTextureMode()

	// Render textures are stored bottom-up.
	img := rl.LoadImageFromTexture(target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s", path)
	}
	slog.Info("snapshot written", "path", path, "frame", g.last.Frame, "width", w, "height", h)
	return nil
}

// drawCorona paints the screen-space halo behind the sun.
func (g *Game) drawCorona(p params.ParameterSet) {
	sx, sy, ok := g.camera.WorldToScreen(mgl32.Vec3{})
	if !ok {
		return
	}
	halfFOV := float64(mgl32.DegToRad(g.camera.FOV)) / 2
	focal := float64(g.screenHeight) / 2 / math.Tan(halfFOV)
	radius := float32(p.Scale * focal / float64(g.camera.Distance))
	g.sunRenderer.DrawCorona(sx, sy, radius, p.ColorOuter)
}

// drawUI renders the HUD, panels and debug overlays.
func (g *Game) drawUI() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	data := ui.HUDData{
		Title:        "SOLAR FLARE",
		Subtitle:     "Procedural plasma, curl noise haze",
		Frame:        g.last.Frame,
		Elapsed:      g.last.State.Elapsed,
		FPS:          rl.GetFPS(),
		Noise:        config.Cfg().Noise.Kind,
		ScreenWidth:  w,
		ScreenHeight: h,
	}
	if g.remote != nil {
		data.Clients = g.remote.ClientCount()
	}
	if g.lastStyle != nil {
		data.Reasoning = g.lastStyle.Reasoning
		data.Fallback = g.lastStyle.Fallback
	}
	g.hud.Draw(data)

	actions := g.controls.Draw(g.store.Snapshot(), g.styleBusy.Load())
	for _, ev := range actions.Events {
		if err := g.store.Apply(ev); err != nil {
			g.flashError(err)
		}
	}
	if actions.Prompt != "" {
		g.requestStyle(actions.Prompt)
	}
	if actions.Reset {
		if err := g.store.Apply(params.Replace{Set: config.Cfg().Defaults}); err != nil {
			g.flashError(err)
		}
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.statsPanel.Draw(g.lastStats)
	}

	if g.paused {
		rl.DrawText("PAUSED", w/2-40, 16, 20, rl.Yellow)
	}
	if g.noticeFrames > 0 {
		g.noticeFrames--
		rl.DrawText(g.notice, w/2-rl.MeasureText(g.notice, 16)/2, h-60, 16, rl.Orange)
	}
	g.hud.DrawControls(w, h, controlsLegend)
}

// flashError shows a rejected edit for a couple of seconds.
func (g *Game) flashError(err error) {
	slog.Warn("edit rejected", "error", err)
	g.notice = err.Error()
	g.noticeFrames = 120
}

// Surface preview tool - interactive equirectangular map of the plasma
// surface with sliders for the noise parameters.
//
// Usage: go run ./cmd/surfacepreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/noise"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/plasma"
	"github.com/pthm-cable/solaris/telemetry"
	"github.com/pthm-cable/solaris/ui"
)

const (
	windowWidth  = 1100
	windowHeight = 640
	mapWidth     = 256
	mapHeight    = 128
	previewW     = 768
	previewH     = 384
	panelX       = previewW + 20
	panelWidth   = windowWidth - panelX - 10
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	src, err := noise.New(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		log.Fatalf("noise source: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Surface Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	p := cfg.Defaults
	var sliders []ui.SliderDescriptor
	for _, d := range ui.Sliders(cfg.Ranges) {
		// Size does not change the map
		if d.Field != params.FieldScale {
			sliders = append(sliders, d)
		}
	}

	densities := make([]float64, mapWidth*mapHeight)
	pixels := make([]color.RGBA, mapWidth*mapHeight)
	img := rl.GenImageColor(mapWidth, mapHeight, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var elapsed float64
	animating := false
	needsRegen := true
	var dist telemetry.Distribution

	for !rl.WindowShouldClose() {
		if animating {
			elapsed += float64(rl.GetFrameTime())
			needsRegen = true
		}

		if needsRegen {
			generateSurface(densities, pixels, src, plasma.NewUniforms(p, elapsed))
			rl.UpdateTexture(texture, pixels)
			dist = telemetry.ComputeDistribution(densities)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: mapWidth, Height: mapHeight},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Density  mean: %.3f  std: %.3f  p90: %.3f  max: %.3f",
			dist.Mean, dist.Std, dist.P90, dist.Max), 15, statsY, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f", elapsed), 15, statsY+20, 16, rl.LightGray)

		// Control panel
		y := float32(10)
		rl.DrawText("Surface Parameters", panelX, int32(y), 20, rl.RayWhite)
		y += 35

		for _, d := range sliders {
			v, _ := p.Scalar(d.Field)
			rl.DrawText(d.Label, panelX, int32(y), 14, rl.Gray)
			y += 18
			nv := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: y, Width: float32(panelWidth - 70), Height: 20},
				"", "",
				float32(v), float32(d.Range.Min), float32(d.Range.Max),
			)
			rl.DrawText(fmt.Sprintf(d.Format, v), panelX+panelWidth-60, int32(y+2), 16, rl.RayWhite)
			if float64(nv) != float64(float32(v)) {
				p, _ = p.WithScalar(d.Field, float64(nv))
				needsRegen = true
			}
			y += 35
		}
		y += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset Time") {
			elapsed = 0
			needsRegen = true
		}
		y += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Defaults") {
			p = cfg.Defaults
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Fallback") {
			p = cfg.Fallback.Config
			needsRegen = true
		}
		y += 55

		out, err := yaml.Marshal(map[string]params.ParameterSet{"defaults": p})
		if err != nil {
			log.Printf("failed to marshal parameters: %v", err)
		}
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.RayWhite)
		y += 25
		rl.DrawText(string(out), panelX, int32(y), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.DarkGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(string(out))
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generateSurface samples the displaced surface on a latitude/longitude grid
// and colors it with the density ramp, as seen head-on.
func generateSurface(densities []float64, pixels []color.RGBA, src noise.Source, u plasma.Uniforms) {
	for y := 0; y < mapHeight; y++ {
		lat := math.Pi * (0.5 - (float64(y)+0.5)/mapHeight)
		for x := 0; x < mapWidth; x++ {
			lon := 2 * math.Pi * (float64(x) + 0.5) / mapWidth
			pos := r3.Vec{
				X: math.Cos(lat) * math.Cos(lon),
				Y: math.Sin(lat),
				Z: math.Cos(lat) * math.Sin(lon),
			}

			i := y*mapWidth + x
			d := plasma.Displace(src, u, pos, pos).Density()
			densities[i] = d
			pixels[i] = plasma.Ramp(u.ColorCore, u.ColorOuter, plasma.ShapeDensity(d)).RGBA8(1)
		}
	}
}

package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Subtitle     string
	Reasoning    string // explanation of the last generated style
	Fallback     bool   // last style came from the fallback
	Frame        uint64
	Elapsed      float64
	FPS          int32
	Noise        string
	Clients      int // connected remote controllers
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-right corner.
func (h *HUD) Draw(data HUDData) {
	t := h.renderer.Theme
	width := int32(360)
	x := data.ScreenWidth - width - 16
	y := int32(16)

	rl.DrawRectangle(x-6, y, 2, 44, t.Accent)
	rl.DrawText(data.Title, x+4, y, 32, rl.White)
	y += 34
	rl.DrawText(data.Subtitle, x+4, y, 12, t.LabelColor)
	y += 22

	status := fmt.Sprintf("Frame: %d | t: %.1fs | FPS: %d | Noise: %s", data.Frame, data.Elapsed, data.FPS, data.Noise)
	if data.Clients > 0 {
		status += fmt.Sprintf(" | Remotes: %d", data.Clients)
	}
	rl.DrawText(status, x+4, y, 12, t.LabelColor)
	y += 20

	if data.Reasoning != "" {
		color := t.ValueColor
		if data.Fallback {
			color = t.Warning
		}
		h.renderer.DrawWrapped(x+4, y, data.Reasoning, width-8, color)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase frame cost and throughput.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %s  p95: %s  FPS: %.0f",
		stats.AvgFrame.Round(time.Microsecond), stats.P95Frame.Round(time.Microsecond), stats.DrawFPS), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range telemetry.Phases {
		st := stats.Phase[ph]

		color := rl.LightGray
		if st.Share > 0.4 {
			color = rl.Red
		} else if st.Share > 0.2 {
			color = rl.Orange
		}

		line := fmt.Sprintf("%-10s %8s %5.1f%%", ph, st.Avg.Round(time.Microsecond), st.Share*100)
		if st.Throughput > 0 {
			line += fmt.Sprintf("  %.0f/ms", st.Throughput)
		}
		rl.DrawText(line, x, y, 12, color)
		y += 14
	}
}

// StatsPanel renders the last window's surface and haze statistics.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the stats panel.
func (s *StatsPanel) Draw(w telemetry.WindowStats) {
	r := s.renderer
	padding := r.Theme.Padding
	line := r.Theme.LineHeight
	inner := s.width - padding*2

	r.DrawPanel(s.x, s.y, s.width, line*10+padding*2)

	x := s.x + padding
	y := r.DrawSectionHeader(x, s.y+padding, "Surface")
	y = r.DrawBar(x, y, "Density p50", float32(w.DensityP50), inner)
	y = r.DrawBar(x, y, "Density p90", float32(w.DensityP90), inner)
	y = r.DrawBar(x, y, "Alpha mean", float32(w.SurfaceAlphaMean), inner)
	y = r.DrawLabelValue(x, y, "Density std", fmt.Sprintf("%.3f", w.DensityStd))

	y = r.DrawSectionHeader(x, y+4, "Haze")
	y = r.DrawLabelValue(x, y, "Visible", fmt.Sprintf("%d", w.HazeVisible))
	y = r.DrawBar(x, y, "Alpha mean", float32(w.HazeAlphaMean), inner)
	r.DrawLabelValue(x, y, "Respawns", fmt.Sprintf("%d", w.Respawns))
}

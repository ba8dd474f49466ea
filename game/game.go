// Package game wires the scene, its controls and its outputs into one
// frame loop that runs either in a raylib window or headless.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/camera"
	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/noise"
	"github.com/pthm-cable/solaris/orbit"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/remote"
	"github.com/pthm-cable/solaris/renderer"
	"github.com/pthm-cable/solaris/scene"
	"github.com/pthm-cable/solaris/stylegen"
	"github.com/pthm-cable/solaris/telemetry"
	"github.com/pthm-cable/solaris/ui"
)

// Options configures a game run.
type Options struct {
	Seed       int64
	LogStats   bool   // emit window stats via slog
	OutputDir  string // empty = no CSV output
	Headless   bool
	RemoteAddr string // overrides config; empty = use config
	Prompt     string // generate a style at startup
}

// Game holds the complete run state.
type Game struct {
	rngSeed  int64
	headless bool
	logStats bool

	store  *params.Store
	scene  *scene.Scene
	styles *stylegen.Service
	remote *remote.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	camera *camera.Camera
	last   scene.FrameOutput
	tick   int32
	paused bool

	// Rendering (nil when headless)
	sunRenderer        *renderer.SunRenderer
	hazeRenderer       *renderer.HazeRenderer
	planetRenderer     *renderer.PlanetRenderer
	backgroundRenderer *renderer.BackgroundRenderer
	controls           *ui.ControlsPanel
	hud                *ui.HUD
	perfPanel          *ui.PerfPanel
	statsPanel         *ui.StatsPanel
	overlays           *ui.OverlayRegistry
	notice             string
	noticeFrames       int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	lastStats     telemetry.WindowStats
	sample        telemetry.FrameSample

	// Style generation
	styleResults chan stylegen.Result
	styleBusy    atomic.Bool
	lastStyle    *stylegen.Result

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the global config.
// Graphical games must be created after the raylib window.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	src, err := noise.New(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		return nil, fmt.Errorf("noise source: %w", err)
	}

	store := params.NewStore(cfg.Defaults, cfg.Ranges)
	perfCollector := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	sc, err := scene.New(store, scene.Options{
		Subdivisions:  cfg.Scene.Subdivisions,
		ParticleCount: cfg.Scene.ParticleCount,
		Seed:          opts.Seed,
		Noise:         src,
		Smoothing:     cfg.Smoothing.Factor,
		HazeScale:     cfg.Scene.HazeScale,
		HazeSpeed:     cfg.Haze.Speed,
		Planets:       planetSpecs(cfg),
		Workers:       cfg.Scene.Workers,
		Perf:          perfCollector,
	})
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	g := &Game{
		rngSeed:       opts.Seed,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		store:         store,
		scene:         sc,
		styles:        stylegen.FromConfig(ctx, cfg),
		ctx:           ctx,
		cancel:        cancel,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: perfCollector,
		bookmarks:     telemetry.NewBookmarkDetector(10),
		styleResults:  make(chan stylegen.Result, 8),
		screenWidth:   cfg.Derived.ScreenW32,
		screenHeight:  cfg.Derived.ScreenH32,
	}

	store.Watch(func(params.ParameterSet) {
		g.collector.RecordParamEvent()
	})

	g.camera = newCamera(cfg)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	addr := cfg.Remote.Addr
	if opts.RemoteAddr != "" {
		addr = opts.RemoteAddr
	}
	if addr != "" {
		g.startRemote(addr)
	}

	if !opts.Headless {
		g.initRendering(cfg)
	}

	if opts.Prompt != "" {
		g.requestStyle(opts.Prompt)
	}

	slog.Info("scene ready",
		"seed", opts.Seed,
		"noise", cfg.Noise.Kind,
		"triangles", sc.Mesh().TriangleCount(),
		"particles", len(sc.Particles()),
		"planets", len(cfg.Planets),
	)
	return g, nil
}

// initRendering creates the renderers and UI.
func (g *Game) initRendering(cfg *config.Config) {
	g.sunRenderer = renderer.NewSunRenderer(g.scene.Mesh())
	g.hazeRenderer = renderer.NewHazeRenderer(g.scene.Particles(), cfg.Haze.SpriteSize, cfg.Haze.PixelScale)
	g.hazeRenderer.Init()
	g.planetRenderer = renderer.NewPlanetRenderer()
	g.backgroundRenderer = renderer.NewBackgroundRenderer(starField(cfg, g.rngSeed))

	g.controls = ui.NewControlsPanel(16, 16, 280, cfg.Ranges)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(16, int32(g.screenHeight)-160)
	g.statsPanel = ui.NewStatsPanel(16, int32(g.screenHeight)-210, 260)
	g.overlays = ui.NewOverlayRegistry()
}

func newCamera(cfg *config.Config) *camera.Camera {
	c := cfg.Camera
	cam := camera.New(
		mgl32.Vec3{float32(c.Position[0]), float32(c.Position[1]), float32(c.Position[2])},
		float32(c.FOV), cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
	)
	cam.Near = float32(c.Near)
	cam.Far = float32(c.Far)
	cam.MinDistance = float32(c.MinDistance)
	cam.MaxDistance = float32(c.MaxDistance)
	cam.AutoRotate = float32(c.AutoRotate)
	return cam
}

// planetSpecs converts the configured layout table.
func planetSpecs(cfg *config.Config) []orbit.Spec {
	specs := make([]orbit.Spec, len(cfg.Planets))
	for i, p := range cfg.Planets {
		specs[i] = orbit.Spec{
			Name:     p.Name,
			Color:    cfg.Derived.Palette[i],
			Distance: p.Distance,
			Size:     p.Size,
			Speed:    p.Speed,
			Rings:    p.Rings,
		}
	}
	return specs
}

// Update advances one graphical frame.
func (g *Game) Update(dt float32) {
	g.handleInput()
	g.camera.Update(dt)
	if g.paused {
		g.drainStyles()
		return
	}
	g.step(float64(dt))
}

// UpdateHeadless advances one fixed-step frame without graphics.
func (g *Game) UpdateHeadless() {
	cfg := config.Cfg()
	dt := 1.0 / 60.0
	if cfg.Screen.TargetFPS > 0 {
		dt = 1.0 / float64(cfg.Screen.TargetFPS)
	}
	g.camera.Update(float32(dt))
	g.step(dt)
}

// step runs one scene frame and the telemetry that follows it.
func (g *Game) step(dt float64) {
	g.drainStyles()

	g.perfCollector.BeginFrame()
	out, ok := g.scene.Frame(dt, g.eye())
	if !ok {
		g.perfCollector.EndFrame(0)
		return
	}
	g.last = out
	g.tick++

	g.perfCollector.Mark(telemetry.PhaseTelemetry, 0)
	g.collector.RecordRespawns(out.Respawns)
	g.flushTelemetry()
	g.perfCollector.EndFrame(out.Respawns)
}

func (g *Game) eye() r3.Vec {
	return renderer.EyeWorld(g.camera)
}

// Store exposes the parameter store for external controllers.
func (g *Game) Store() *params.Store {
	return g.store
}

// Tick returns the number of frames advanced.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload stops background work and frees resources.
func (g *Game) Unload() {
	g.cancel()
	g.wg.Wait()
	g.drainStyles()

	if g.hazeRenderer != nil {
		g.hazeRenderer.Unload()
	}
	g.scene.Close()

	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

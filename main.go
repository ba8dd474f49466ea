package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, -1 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	remoteAddr := flag.String("remote", "", "Serve the websocket controller on this address (e.g. :8080)")
	prompt := flag.String("prompt", "", "Generate a style from this description at startup")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	switch rngSeed {
	case 0:
		rngSeed = cfg.Scene.Seed
	case -1:
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:       rngSeed,
		LogStats:   *logStats,
		OutputDir:  *outputDir,
		Headless:   *headless,
		RemoteAddr: *remoteAddr,
		Prompt:     *prompt,
	}

	if *headless {
		// Headless mode - pure CPU frames, no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"max_frames", *maxFrames,
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for ctx.Err() == nil {
			g.UpdateHeadless()

			if *maxFrames > 0 && int(g.Tick()) >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Tick())
				return
			}
		}
		slog.Info("interrupted", "frame", g.Tick())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Solar Flare")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update(rl.GetFrameTime())
		g.Draw()

		if *maxFrames > 0 && int(g.Tick()) >= *maxFrames {
			break
		}
	}
}

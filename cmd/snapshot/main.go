// Snapshot tool - advances the scene offscreen and writes one frame to a PNG.
//
// Usage: go run ./cmd/snapshot -frames 120 -prompt "toxic green star" -out sun.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	frames := flag.Int("frames", 120, "Frames to advance before capturing")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed)")
	prompt := flag.String("prompt", "", "Generate a style from this description first")
	styleWait := flag.Duration("style-wait", 30*time.Second, "Maximum time to wait for the style")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Scene.Seed
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Snapshot")
	defer rl.CloseWindow()

	g, err := game.NewGameWithOptions(game.Options{Seed: rngSeed, Prompt: *prompt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build scene: %v\n", err)
		os.Exit(1)
	}
	defer g.Unload()

	deadline := time.Now().Add(*styleWait)
	for g.StyleBusy() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	// Smoothing needs frames to reach a new style
	for i := 0; i < *frames; i++ {
		g.UpdateHeadless()
	}

	if err := g.Snapshot(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Frame %d rendered to: %s (%dx%d)\n", g.Tick(), *outPath, cfg.Screen.Width, cfg.Screen.Height)
}

// Package main provides CMA-ES calibration of the surface parameters so the
// base look reaches target density and opacity statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/solaris/config"
)

// logRow is one line of calibrate_log.csv.
type logRow struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	Turbulence        float64 `csv:"turbulence"`
	DisplacementScale float64 `csv:"displacement_scale"`
	NoiseScale        float64 `csv:"noise_scale"`
	DensityMean       float64 `csv:"density_mean"`
	DensityStd        float64 `csv:"density_std"`
	AlphaMean         float64 `csv:"alpha_mean"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func parseStarts(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("start %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = []float64{0}
	}
	return out, nil
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	subdivisions := flag.Int("subdivisions", 4, "Icosphere detail used while measuring")
	frames := flag.Int("frames", 120, "Frames measured per run")
	startsFlag := flag.String("starts", "0,30,90", "Comma-separated animation times each run starts from")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	targetMean := flag.Float64("target-density-mean", 0.35, "Target mean surface density (negative = ignore)")
	targetStd := flag.Float64("target-density-std", 0.18, "Target density standard deviation (negative = ignore)")
	targetAlpha := flag.Float64("target-alpha-mean", 0.6, "Target mean surface alpha (negative = ignore)")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	starts, err := parseStarts(*startsFlag)
	if err != nil {
		log.Fatalf("invalid --starts: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector(baseCfg.Ranges, baseCfg.Defaults)
	targets := Targets{DensityMean: *targetMean, DensityStd: *targetStd, AlphaMean: *targetAlpha}
	evaluator := NewFitnessEvaluator(params, baseCfg, *subdivisions, *frames, starts, targets)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	headerWritten := false
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(raw)
			if err != nil {
				log.Printf("evaluation failed: %v", err)
				return 1e9
			}
			evalCount++
			m := evaluator.LastMeasurement()

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			row := []logRow{{
				Eval:              evalCount,
				Fitness:           fitness,
				Turbulence:        raw[0],
				DisplacementScale: raw[1],
				NoiseScale:        raw[2],
				DensityMean:       m.DensityMean,
				DensityStd:        m.DensityStd,
				AlphaMean:         m.AlphaMean,
			}}
			if !headerWritten {
				err = gocsv.Marshal(row, logFile)
				headerWritten = true
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: loss=%.4f density=%.3f±%.3f alpha=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, m.DensityMean, m.DensityStd, m.AlphaMean, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES calibration with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Runs per evaluation: %d, frames per run: %d, subdivisions: %d\n", len(starts), *frames, *subdivisions)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("calibration ended: %v", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no successful evaluation")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best loss: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Field, bestParams[i])
	}

	bestCfg := *baseCfg
	bestCfg.Defaults = evaluator.Look(bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

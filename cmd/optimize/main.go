// Package main searches the excitation point and damping with CMA-ES for the
// strongest response, or the sharpest nodal figure, at a fixed wavenumber.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/chladni/config"
)

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

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	X0      float64 `csv:"x0"`
	Y0      float64 `csv:"y0"`
	Gamma   float64 `csv:"gamma"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	k := flag.Float64("k", 0, "Wavenumber to optimize at (0 = config value)")
	objective := flag.String("objective", ObjectiveResponse, "Objective: response or nodal")
	gridSize := flag.Int("grid", 96, "Grid size for the nodal objective")
	maxGamma := flag.Float64("max-gamma", 0.1, "Upper bound for the damping search")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if *k > 0 {
		baseCfg.Excitation.WaveNumber = *k
	}

	params := NewParamVector(*maxGamma)
	evaluator, err := NewFitnessEvaluator(params, baseCfg, *objective, *gridSize)
	if err != nil {
		log.Fatal(err)
	}

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.25,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e300
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append(bestParams[:0], clamped...)
			}

			row := []evalRow{{Eval: evalCount, Fitness: fitness, X0: clamped[0], Y0: clamped[1], Gamma: clamped[2]}}
			if evalCount == 1 {
				err = gocsv.Marshal(row, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			if evalCount%20 == 0 || evalCount == *maxEvals {
				elapsed := time.Since(startTime)
				remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
				fmt.Printf("Eval %d/%d: fitness=%.6g nodal=%.3f (best=%.6g) | elapsed: %s, ETA: %s\n",
					evalCount, *maxEvals, fitness, evaluator.LastNodal(), bestFitness,
					formatDuration(elapsed), formatDuration(remaining))
			}
			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization at k=%.4f, objective=%s, population=%d, max_evals=%d\n",
		baseCfg.Excitation.WaveNumber, *objective, popSize, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6g\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	bestCfg.Excitation.WaveNumber = baseCfg.Excitation.WaveNumber
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

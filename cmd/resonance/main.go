// Package main scans the point response of the plate over a wavenumber range,
// refines its peaks and troughs, and writes the curve and extrema as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/systems"
	"github.com/pthm-cable/chladni/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results")
	kMin := flag.Float64("k-min", 0, "Lower wavenumber (0 = config value)")
	kMax := flag.Float64("k-max", 0, "Upper wavenumber (0 = config value)")
	kStep := flag.Float64("k-step", 0, "Wavenumber step (0 = config value)")
	noRefine := flag.Bool("no-refine", false, "Skip Nelder-Mead refinement of extrema")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	sc := cfg.Scan
	if *kMin > 0 {
		sc.KMin = *kMin
	}
	if *kMax > 0 {
		sc.KMax = *kMax
	}
	if *kStep > 0 {
		sc.KStep = *kStep
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		log.Printf("failed to write config snapshot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := cfg.ResponseParams()
	n, err := systems.SampleCount(sc.KMin, sc.KMax, sc.KStep)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Scanning k in [%g, %g] step %g (%d samples, %d modes)\n", sc.KMin, sc.KMax, sc.KStep, n, p.Modes)

	start := time.Now()
	res, err := systems.ScanContext(ctx, sc.KMin, sc.KMax, sc.KStep, p)
	if err != nil {
		log.Fatalf("scan aborted: %v", err)
	}
	fmt.Printf("Scan took %s: %d peaks, %d troughs\n", time.Since(start).Round(time.Millisecond), len(res.Peaks), len(res.Troughs))

	if err := out.WriteScan(telemetry.ScanRecords(res.Samples)); err != nil {
		log.Fatalf("failed to write scan: %v", err)
	}

	refine := func(e systems.Sample, kind systems.ExtremumKind) systems.Sample {
		if *noRefine || ctx.Err() != nil {
			return e
		}
		r, err := systems.RefineExtremum(p, e, kind, sc.KStep)
		if err != nil {
			log.Printf("refining %s at k=%.4f: %v", kind, e.K, err)
			return e
		}
		return r
	}

	var records []telemetry.ExtremumRecord
	best := systems.Sample{K: cfg.Excitation.WaveNumber}
	for _, e := range res.Peaks {
		r := refine(e, systems.KindPeak)
		records = append(records, telemetry.NewExtremumRecord(systems.KindPeak, e, r))
		if r.Value > best.Value {
			best = r
		}
	}
	for _, e := range res.Troughs {
		records = append(records, telemetry.NewExtremumRecord(systems.KindTrough, e, refine(e, systems.KindTrough)))
	}
	if err := out.WriteExtrema(records); err != nil {
		log.Fatalf("failed to write extrema: %v", err)
	}

	fmt.Println("\nExtrema:")
	for _, r := range records {
		fmt.Printf("  %-6s k=%.4f -> %.6f  response=%.6g\n", r.Kind, r.K, r.RefinedK, r.RefinedValue)
	}

	if len(res.Peaks) == 0 {
		fmt.Println("\nNo peaks found; best_config.yaml not written.")
		return
	}
	cfg.Excitation.WaveNumber = best.K
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
		return
	}
	fmt.Printf("\nStrongest resonance k=%.6f saved to: %s\n", best.K, configOutPath)
}

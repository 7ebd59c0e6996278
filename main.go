package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	settingsPath := flag.String("settings", "chladni-settings.yaml", "File used by Save/Load settings")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed or time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N updates (0 = unlimited)")
	sweep := flag.Bool("sweep", false, "Start the configured wavenumber sweep immediately")
	sand := flag.Int("sand", 0, "Particles to add at start")
	scan := flag.Bool("scan", false, "Run the response scan at start")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Sand.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:         rngSeed,
		OutputDir:    *outputDir,
		SettingsPath: *settingsPath,
		Headless:     *headless,
		LogStats:     *logStats,
		Sweep:        *sweep,
		Sand:         *sand,
	}

	if *headless {
		g, err := game.NewGameWithOptions(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"k", cfg.Excitation.WaveNumber,
			"sweep", *sweep,
			"max_ticks", *maxTicks,
		)
		if *scan {
			if err := g.PlotResponse(context.Background()); err != nil {
				slog.Error("response scan failed", "error", err)
			}
		}

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && g.Frame() >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Frame())
				return
			}
			// Without a tick cap a headless sweep run ends with the sweep.
			if *maxTicks == 0 && !g.Sweeping() {
				slog.Info("sweep complete", "tick", g.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Chladni Plate")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if *scan {
		if err := g.PlotResponse(context.Background()); err != nil {
			slog.Error("response scan failed", "error", err)
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Frame() >= *maxTicks {
			break
		}
	}
}

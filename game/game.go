// Package game hosts a plate session in a raylib window or a headless loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/camera"
	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/renderer"
	"github.com/pthm-cable/chladni/session"
	"github.com/pthm-cable/chladni/systems"
	"github.com/pthm-cable/chladni/telemetry"
	"github.com/pthm-cable/chladni/ui"
)

// Options configures a Game.
type Options struct {
	Seed         int64
	OutputDir    string
	SettingsPath string
	Headless     bool
	LogStats     bool
	// Sweep starts the configured sweep immediately.
	Sweep bool
	// Sand is the number of particles added at start.
	Sand int
}

// Game wires the session to output, timing and, in graphics mode, the UI.
type Game struct {
	cfg     *config.Config
	opts    Options
	session *session.Session
	output  *telemetry.OutputManager
	perf    *telemetry.PerfCollector

	frame int
	// clock is the session time; headless runs advance it by a fixed step.
	clock time.Time
	dt    time.Duration

	cam      *camera.Camera
	probe    *probe
	plate    *renderer.PlateRenderer
	plot     *renderer.ResponsePlot
	hud      *ui.HUD
	perfUI   *ui.PerfPanel
	panel    *ui.ControlPanel
	showPerf bool
	status   string
}

// NewGameWithOptions creates a game over cfg.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		opts:   opts,
		output: output,
		perf:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		clock:  time.Unix(0, 0),
		dt:     time.Second / time.Duration(max(cfg.Screen.TargetFPS, 1)),
	}

	sessOpts := session.Options{
		Rand: rand.New(rand.NewSource(opts.Seed)),
		Perf: g.perf,
	}
	if output != nil {
		sessOpts.Sink = output
	}
	if opts.Headless {
		sessOpts.Clock = func() time.Time { return g.clock }
	}
	g.session = session.New(cfg, sessOpts)

	if !opts.Headless {
		g.cam = camera.New(maxPlateZoom)
		g.plate = renderer.NewPlateRenderer(cfg.Plate.GridSize)
		g.plot = renderer.NewResponsePlot()
		g.hud = ui.NewHUD()
		g.perfUI = ui.NewPerfPanel(int32(cfg.Screen.PlateSize)+controlPanelWidth+30, 270)
		panelX := int32(cfg.Screen.PlateSize) + 10
		g.panel = ui.NewControlPanel(panelX, 10, controlPanelWidth, ui.ValuesFromSettings(g.session.Settings()))
	}

	if err := g.start(); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

func (g *Game) start() error {
	if err := g.session.Run(g.cfg.Excitation.WaveNumber); err != nil {
		return err
	}
	if g.opts.Sand > 0 {
		g.session.AddSand(g.opts.Sand)
	}
	if g.opts.Sweep {
		if err := g.session.StartConfiguredSweep(); err != nil {
			return err
		}
	}
	return nil
}

// Session exposes the underlying plate session.
func (g *Game) Session() *session.Session { return g.session }

// Frame returns the number of updates run.
func (g *Game) Frame() int { return g.frame }

// Update runs the input and session half of a graphics-mode frame. Draw
// completes the frame.
func (g *Game) Update() {
	g.perf.RecordFrame()
	g.handleInput()
	g.perf.StartTick()
	g.advance(time.Now())
}

// UpdateHeadless advances the session by one fixed time step.
func (g *Game) UpdateHeadless() {
	g.clock = g.clock.Add(g.dt)
	g.perf.StartTick()
	g.advance(g.clock)
	g.perf.EndTick()
	g.endFrame()
}

func (g *Game) advance(now time.Time) {
	if err := g.session.Update(now); err != nil {
		slog.Error("session update failed", "error", err)
	}
}

func (g *Game) endFrame() {
	g.frame++
	window := g.cfg.Telemetry.PerfCollectorWindow
	if window > 0 && g.frame%window == 0 {
		g.flushPerf()
	}
}

func (g *Game) flushPerf() {
	stats := g.perf.Stats()
	if g.opts.LogStats {
		stats.LogStats()
	}
	if err := g.output.WritePerf(stats, g.frame); err != nil {
		slog.Warn("writing perf stats", "error", err)
	}
}

// Sweeping reports whether a sweep is still in progress.
func (g *Game) Sweeping() bool { return g.session.Sweeping() }

// PlotResponse runs the response scan and writes it to the output directory.
func (g *Game) PlotResponse(ctx context.Context) error {
	view, err := g.session.PlotResponse(ctx)
	if err != nil {
		return err
	}
	if err := g.output.WriteScan(telemetry.ScanRecords(view.Samples)); err != nil {
		return err
	}
	return g.output.WriteExtrema(extremaRecords(view))
}

func extremaRecords(view *session.ScanView) []telemetry.ExtremumRecord {
	var out []telemetry.ExtremumRecord
	for i, p := range view.Peaks {
		refined := p
		if i < len(view.RefinedPeaks) {
			refined = view.RefinedPeaks[i]
		}
		out = append(out, telemetry.NewExtremumRecord(systems.KindPeak, p, refined))
	}
	for i, t := range view.Troughs {
		refined := t
		if i < len(view.RefinedTroughs) {
			refined = view.RefinedTroughs[i]
		}
		out = append(out, telemetry.NewExtremumRecord(systems.KindTrough, t, refined))
	}
	return out
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.plate != nil {
		g.plate.Unload()
	}
	if g.frame > 0 {
		g.flushPerf()
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
}

const (
	controlPanelWidth = 300
	maxPlateZoom      = 8
)

// probe is the plate point under the mouse.
type probe struct {
	x, y float64
}

// plateBounds returns the plate area on screen.
func (g *Game) plateBounds() rl.Rectangle {
	size := float32(g.cfg.Screen.PlateSize)
	return rl.Rectangle{X: 10, Y: 10, Width: size - 20, Height: size - 20}
}

// plotBounds returns the response plot area below the plate.
func (g *Game) plotBounds() rl.Rectangle {
	top := float32(g.cfg.Screen.PlateSize)
	return rl.Rectangle{
		X:      10,
		Y:      top,
		Width:  top - 20,
		Height: float32(g.cfg.Screen.Height) - top - 30,
	}
}

package game

import (
	"context"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/ui"
)

// handleInput applies keyboard shortcuts and control panel actions.
func (g *Game) handleInput() {
	s := g.session

	if rl.IsKeyPressed(rl.KeySpace) {
		if s.Paused() {
			s.Continue()
		} else {
			s.Pause()
		}
	}
	if rl.IsKeyPressed(rl.KeyB) {
		s.SetShowBackground(!s.ShowBackground())
		g.panel.Values.ShowBackground = s.ShowBackground()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyG) {
		s.GenerateSand()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		s.ClearSand()
	}
	if rl.IsKeyPressed(rl.KeyZ) {
		g.cam.Reset()
	}
	g.handleMouse()
}

// handleMouse zooms with the wheel, pans with the right button and tracks
// the probe point over the plate.
func (g *Game) handleMouse() {
	b := g.plateBounds()
	m := rl.GetMousePosition()
	if !rl.CheckCollisionPointRec(m, b) {
		g.probe = nil
		return
	}
	u := float64((m.X - b.X) / b.Width)
	v := float64((m.Y - b.Y) / b.Height)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomAt(math.Pow(1.25, float64(wheel)), u, v)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.cam.Pan(float64(d.X/b.Width), float64(d.Y/b.Height))
	}

	x, y := g.cam.ViewToPlate(u, v)
	g.probe = &probe{x: x, y: y}
}

// applyActions runs the control panel requests drawn this frame.
func (g *Game) applyActions(a ui.Actions) {
	s := g.session

	if a.Changed {
		st := g.panel.Values.Apply(s.Settings())
		if err := s.ApplySettings(st); err != nil {
			g.status = "invalid settings"
			slog.Warn("rejected settings", "error", err)
		}
	}

	switch {
	case a.Run:
		g.report(s.Run(s.Params().K), "run")
	case a.Sweep:
		g.report(s.StartConfiguredSweep(), "sweep")
	case a.Pause:
		s.Pause()
	case a.Continue:
		s.Continue()
	case a.Cancel:
		s.Cancel()
	case a.Reset:
		s.Reset()
		g.panel.Values = ui.ValuesFromSettings(s.Settings())
		g.status = "reset"
	case a.GenerateSand:
		s.GenerateSand()
	case a.ToggleContinuous:
		if s.ContinuousSand() {
			s.StopContinuousSand()
		} else {
			s.StartContinuousSand()
		}
	case a.ClearSand:
		s.ClearSand()
	case a.Plot:
		g.perf.StartTick()
		g.report(g.PlotResponse(context.Background()), "plot")
		g.perf.EndTick()
	case a.Save:
		g.saveSettings()
	case a.Load:
		g.loadSettings()
	case a.Jump != nil:
		g.panel.Values.WaveNumber = float32(a.Jump.K)
		g.report(s.JumpTo(*a.Jump), "jump")
	}
}

func (g *Game) report(err error, what string) {
	if err != nil {
		g.status = what + ": " + err.Error()
		slog.Warn(what+" failed", "error", err)
		return
	}
	g.status = ""
}

func (g *Game) saveSettings() {
	if g.opts.SettingsPath == "" {
		g.status = "no settings path"
		return
	}
	if err := config.SaveSettings(g.opts.SettingsPath, g.session.Settings()); err != nil {
		g.report(err, "save")
		return
	}
	g.status = "settings saved"
	slog.Info("settings saved", "path", g.opts.SettingsPath)
}

func (g *Game) loadSettings() {
	if g.opts.SettingsPath == "" {
		g.status = "no settings path"
		return
	}
	st, err := config.LoadSettings(g.opts.SettingsPath, g.session.Settings())
	if err != nil {
		g.report(err, "load")
		return
	}
	if err := g.session.ApplySettings(st); err != nil {
		g.report(err, "load")
		return
	}
	g.panel.Values = ui.ValuesFromSettings(g.session.Settings())
	g.status = "settings loaded"
	slog.Info("settings loaded", "path", g.opts.SettingsPath)
}

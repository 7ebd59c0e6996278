package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/systems"
	"github.com/pthm-cable/chladni/telemetry"
	"github.com/pthm-cable/chladni/ui"
)

// Draw renders the plate, the response plot and the UI.
func (g *Game) Draw() {
	s := g.session
	g.perf.StartPhase(telemetry.PhaseRender)
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 30, G: 30, B: 36, A: 255})

	g.plate.Update(s.Grid())
	g.plate.Draw(g.plateBounds(), g.cam, s.ShowBackground(), s.Particles())

	var scan *systems.ScanResult
	state := ui.PanelState{
		Paused:     s.Paused(),
		Sweeping:   g.Sweeping(),
		Continuous: s.ContinuousSand(),
		WaveNumber: s.Params().K,
	}
	if view := s.Scan(); view != nil {
		scan = &view.ScanResult
		state.Peaks = view.Peaks
		state.Troughs = view.Troughs
	}
	g.plot.Draw(g.plotBounds(), scan, s.Params().K)

	if g.Sweeping() {
		step, steps := s.SweepProgress()
		state.SweepLabel = fmt.Sprintf("step %d/%d  k=%.2f", step+1, steps, s.Params().K)
	}
	actions := g.panel.Draw(state)

	hudX := int32(g.cfg.Screen.PlateSize) + controlPanelWidth + 30
	stats := systems.SummarizeGrid(s.Grid())
	g.hud.Draw(hudX, 10, int32(g.cfg.Screen.Width)-hudX-10, ui.HUDData{
		Title:        "Chladni Plate",
		WaveNumber:   s.Params().K,
		Frequency:    s.Frequency(),
		Particles:    len(s.Particles()),
		NodeFraction: stats.NodeFraction,
		SweepState:   s.SweepState().String(),
		FPS:          rl.GetFPS(),
		Paused:       s.Paused(),
		Status:       g.status,
		Zoom:         g.cam.Zoom,
		Probe:        g.probeReading(),
	})
	if g.showPerf {
		g.perfUI.Draw(g.perf.Stats())
	}
	g.hud.DrawControls(int32(g.cfg.Screen.Height), "[Space] pause  [G] sand  [C] clear  [B] field  [P] perf  [Wheel] zoom  [Z] reset view")

	rl.EndDrawing()
	g.perf.EndTick()
	g.endFrame()

	// Actions apply after the frame so the panel never draws half-applied values.
	g.applyActions(actions)
}

func (g *Game) probeReading() *ui.Probe {
	grid := g.session.Grid()
	if g.probe == nil || grid == nil {
		return nil
	}
	return &ui.Probe{X: g.probe.x, Y: g.probe.y, Intensity: grid.Sample(g.probe.x, g.probe.y)}
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	WaveNumber   float64
	Frequency    float64
	Particles    int
	NodeFraction float64
	SweepState   string
	FPS          int32
	Paused       bool
	Status       string
	Zoom         float64
	// Probe is the plate point under the cursor, nil when there is none.
	Probe *Probe
}

// Probe is a plate point and the normalized intensity there.
type Probe struct {
	X, Y      float64
	Intensity float64
}

// HUD renders the heads-up display over the plate.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at (x, y) with the given width.
func (h *HUD) Draw(x, y, width int32, data HUDData) {
	r := h.renderer
	t := r.Theme
	rl.DrawText(data.Title, x, y, t.TitleFontSize, t.Value)
	y += t.TitleFontSize + 6

	y = r.DrawLabelValue(x, y, "k", fmt.Sprintf("%.3f", data.WaveNumber))
	y = r.DrawLabelValue(x, y, "Frequency", fmt.Sprintf("%.1f Hz", data.Frequency))
	y = r.DrawLabelValue(x, y, "Sand", fmt.Sprintf("%d", data.Particles))
	y = r.DrawNodeBar(x, y, data.NodeFraction, width)
	y = r.DrawLabelValue(x, y, "Sweep", data.SweepState)
	y = r.DrawLabelValue(x, y, "Zoom", fmt.Sprintf("%.2fx", data.Zoom))
	if data.Probe != nil {
		y = r.DrawProbe(x, y, data.Probe.X, data.Probe.Y, data.Probe.Intensity)
	} else {
		y = r.DrawLabelValue(x, y, "Probe", "-")
	}
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, x, y, t.HeaderFontSize+2, t.Status)
	if data.Status != "" {
		rl.DrawText(data.Status, x+t.LabelWidth, y+2, t.FontSize, t.Label)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, h.renderer.Theme.HeaderFontSize, rl.Gray)
}

// PerfPanel renders per-phase timing.
type PerfPanel struct {
	x, y  int32
	theme Theme
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y, theme: DefaultTheme()}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	t := p.theme
	x, y := p.x, p.y
	rl.DrawText("Performance", x, y, t.HeaderFontSize, t.Accent)
	y += t.LineHeight
	rl.DrawText(fmt.Sprintf("update %dus avg", stats.AvgTickDuration.Microseconds()), x, y, t.FontSize, t.Status)
	y += t.LineHeight - 4

	for _, phase := range []string{telemetry.PhaseSolve, telemetry.PhaseSand, telemetry.PhaseScan, telemetry.PhaseRender} {
		pct := stats.PhasePct[phase]
		rl.DrawText(fmt.Sprintf("%-8s %5.1f%%", phase, pct), x, y, t.FontSize, t.PhaseColor(pct))
		y += t.LineHeight - 4
	}
}

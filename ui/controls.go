package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/systems"
)

// ControlValues mirrors the sliders and toggles of the control panel.
type ControlValues struct {
	WaveNumber    float32
	MaxWaveNumber float32
	Steps         float32
	StepDelay     float32 // seconds
	X0            float32
	Y0            float32
	Gamma         float32
	SandAmount    float32
	SandInterval  float32 // milliseconds

	ShowBackground bool
	SoundEnabled   bool
}

// ValuesFromSettings converts persisted settings to slider values.
func ValuesFromSettings(s config.Settings) ControlValues {
	return ControlValues{
		WaveNumber:     float32(s.Excitation.WaveNumber),
		MaxWaveNumber:  float32(s.MaxWaveNumber),
		Steps:          float32(s.Steps),
		StepDelay:      float32(s.StepDelay),
		X0:             float32(s.Excitation.X0),
		Y0:             float32(s.Excitation.Y0),
		Gamma:          float32(s.Excitation.Gamma),
		SandAmount:     float32(s.SandAmount),
		SandInterval:   float32(s.SandInterval * 1000),
		ShowBackground: s.ShowBackground,
		SoundEnabled:   s.SoundEnabled,
	}
}

// Apply writes the slider values over base.
func (v ControlValues) Apply(base config.Settings) config.Settings {
	s := base
	s.Excitation.WaveNumber = float64(v.WaveNumber)
	s.Excitation.X0 = float64(v.X0)
	s.Excitation.Y0 = float64(v.Y0)
	s.Excitation.Gamma = float64(v.Gamma)
	s.MaxWaveNumber = float64(v.MaxWaveNumber)
	s.Steps = int(math.Round(float64(v.Steps)))
	s.StepDelay = float64(v.StepDelay)
	s.SandAmount = int(math.Round(float64(v.SandAmount)))
	s.SandInterval = float64(v.SandInterval) / 1000
	s.ShowBackground = v.ShowBackground
	s.SoundEnabled = v.SoundEnabled
	return s
}

// PanelState is the session state the panel reflects.
type PanelState struct {
	Paused     bool
	Sweeping   bool
	Continuous bool
	// WaveNumber is the session's current k. A running sweep owns it.
	WaveNumber float64
	SweepLabel string
	Peaks      []systems.Sample
	Troughs    []systems.Sample
}

// Actions reports what the user requested this frame.
type Actions struct {
	Changed          bool
	Run              bool
	Sweep            bool
	Pause            bool
	Continue         bool
	Cancel           bool
	Reset            bool
	GenerateSand     bool
	ToggleContinuous bool
	ClearSand        bool
	Plot             bool
	Save             bool
	Load             bool
	Jump             *systems.Sample
}

// follow copies state the session owns into the sliders.
func (v *ControlValues) follow(st PanelState) {
	if st.Sweeping {
		v.WaveNumber = float32(st.WaveNumber)
	}
}

// ControlPanel renders the right-side column of sliders and buttons.
type ControlPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
	Values   ControlValues
}

// NewControlPanel creates a control panel at (x, y).
func NewControlPanel(x, y, width int32, values ControlValues) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        float32(x),
		y:        float32(y),
		width:    float32(width),
		Values:   values,
	}
}

// slider draws a labelled slider and reports whether the value moved.
func (c *ControlPanel) slider(y *float32, label, format string, value *float32, lo, hi float32) bool {
	t := c.renderer.Theme
	rl.DrawText(label, int32(c.x), int32(*y), t.FontSize, t.Label)
	*y += 14
	next := gui.SliderBar(
		rl.Rectangle{X: c.x, Y: *y, Width: c.width - 60, Height: 16},
		"", "",
		*value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(c.x+c.width-54), int32(*y+2), t.FontSize, t.Value)
	*y += 24
	if next != *value {
		*value = next
		return true
	}
	return false
}

func (c *ControlPanel) button(x, y, w float32, text string) bool {
	return gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, text)
}

// Draw renders the panel and returns the requested actions.
func (c *ControlPanel) Draw(st PanelState) Actions {
	var a Actions
	v := &c.Values
	v.follow(st)
	y := c.y
	half := (c.width - 8) / 2

	y = float32(c.renderer.DrawSectionHeader(int32(c.x), int32(y), "Excitation"))
	a.Changed = c.slider(&y, "Wave number k", "%.2f", &v.WaveNumber, 0.1, 30) || a.Changed
	a.Changed = c.slider(&y, "Source x0", "%.2f", &v.X0, 0, 1) || a.Changed
	a.Changed = c.slider(&y, "Source y0", "%.2f", &v.Y0, 0, 1) || a.Changed
	a.Changed = c.slider(&y, "Damping gamma", "%.3f", &v.Gamma, 0, 0.2) || a.Changed

	y = float32(c.renderer.DrawSectionHeader(int32(c.x), int32(y), "Sweep"))
	a.Changed = c.slider(&y, "Max k", "%.2f", &v.MaxWaveNumber, 0.1, 30) || a.Changed
	a.Changed = c.slider(&y, "Steps", "%.0f", &v.Steps, 1, 50) || a.Changed
	a.Changed = c.slider(&y, "Step delay (s)", "%.1f", &v.StepDelay, 0.1, 20) || a.Changed

	a.Run = c.button(c.x, y, half, "Run")
	a.Sweep = c.button(c.x+half+8, y, half, "Run sweep")
	y += 30
	if st.Paused {
		a.Continue = c.button(c.x, y, half, "Continue")
	} else {
		a.Pause = c.button(c.x, y, half, "Pause")
	}
	if st.Sweeping {
		a.Cancel = c.button(c.x+half+8, y, half, "Cancel")
	} else {
		a.Reset = c.button(c.x+half+8, y, half, "Reset")
	}
	y += 30
	if st.SweepLabel != "" {
		rl.DrawText(st.SweepLabel, int32(c.x), int32(y), c.renderer.Theme.FontSize, c.renderer.Theme.Status)
		y += 16
	}

	y = float32(c.renderer.DrawSectionHeader(int32(c.x), int32(y), "Sand"))
	a.Changed = c.slider(&y, "Amount", "%.0f", &v.SandAmount, 100, 10000) || a.Changed
	a.Changed = c.slider(&y, "Step interval (ms)", "%.0f", &v.SandInterval, 10, 500) || a.Changed
	a.GenerateSand = c.button(c.x, y, half, "Add sand")
	stream := "Stream sand"
	if st.Continuous {
		stream = "Stop stream"
	}
	a.ToggleContinuous = c.button(c.x+half+8, y, half, stream)
	y += 30
	a.ClearSand = c.button(c.x, y, half, "Clear sand")
	a.Plot = c.button(c.x+half+8, y, half, "Plot response")
	y += 30

	bg := gui.CheckBox(rl.Rectangle{X: c.x, Y: y, Width: 14, Height: 14}, "Show field", v.ShowBackground)
	snd := gui.CheckBox(rl.Rectangle{X: c.x + half + 8, Y: y, Width: 14, Height: 14}, "Sound", v.SoundEnabled)
	if bg != v.ShowBackground || snd != v.SoundEnabled {
		v.ShowBackground, v.SoundEnabled = bg, snd
		a.Changed = true
	}
	y += 24

	a.Save = c.button(c.x, y, half, "Save settings")
	a.Load = c.button(c.x+half+8, y, half, "Load settings")
	y += 34

	a.Jump = c.drawExtrema(y, half, st)
	return a
}

// drawExtrema lists peaks and troughs side by side as buttons.
func (c *ControlPanel) drawExtrema(y, colWidth float32, st PanelState) *systems.Sample {
	if len(st.Peaks) == 0 && len(st.Troughs) == 0 {
		return nil
	}
	t := c.renderer.Theme
	rl.DrawText("Peaks", int32(c.x), int32(y), t.HeaderFontSize, t.Peak)
	rl.DrawText("Troughs", int32(c.x+colWidth+8), int32(y), t.HeaderFontSize, t.Trough)
	y += 18

	var picked *systems.Sample
	column := func(x float32, samples []systems.Sample) {
		for i := range samples {
			if i >= 8 {
				break
			}
			r := rl.Rectangle{X: x, Y: y + float32(i)*22, Width: colWidth, Height: 20}
			if gui.Button(r, fmt.Sprintf("k=%.2f", samples[i].K)) {
				picked = &samples[i]
			}
		}
	}
	column(c.x, st.Peaks)
	column(c.x+colWidth+8, st.Troughs)
	return picked
}

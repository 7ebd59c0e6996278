// Package ui draws the plate viewer's control panel and heads-up display.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the viewer's colours and text metrics.
type Theme struct {
	Accent  rl.Color // section headers
	Label   rl.Color
	Value   rl.Color
	Status  rl.Color // pause and sweep progress
	Warning rl.Color // perf phases over budget
	Hot     rl.Color

	// Nodal lines and sand share the plate renderer's palette.
	NodeFill rl.Color
	BarBg    rl.Color
	Peak     rl.Color
	Trough   rl.Color

	// PhaseWarn and PhaseHot are perf shares, in percent, that change colour.
	PhaseWarn float64
	PhaseHot  float64

	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	SwatchSize     int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the viewer theme.
func DefaultTheme() Theme {
	return Theme{
		Accent:  rl.Color{R: 222, G: 184, B: 135, A: 255},
		Label:   rl.LightGray,
		Value:   rl.RayWhite,
		Status:  rl.Yellow,
		Warning: rl.Orange,
		Hot:     rl.Red,

		NodeFill: rl.Color{R: 139, G: 69, B: 19, A: 255},
		BarBg:    rl.Color{R: 40, G: 40, B: 40, A: 255},
		Peak:     rl.Color{R: 200, G: 40, B: 40, A: 255},
		Trough:   rl.Color{R: 40, G: 80, B: 200, A: 255},

		PhaseWarn: 20,
		PhaseHot:  50,

		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		SwatchSize:     12,
		FontSize:       12,
		HeaderFontSize: 14,
		TitleFontSize:  20,
	}
}

// IntensityColor maps a normalized intensity to the plate's gray level.
// Antinodes (1) are black, nodal lines (0) are white.
func IntensityColor(v float64) rl.Color {
	v = min(max(v, 0), 1)
	g := uint8((1 - v) * 255)
	return rl.Color{R: g, G: g, B: g, A: 255}
}

// PhaseColor picks the perf panel colour for a phase's share of a tick.
func (t Theme) PhaseColor(pct float64) rl.Color {
	switch {
	case pct > t.PhaseHot:
		return t.Hot
	case pct > t.PhaseWarn:
		return t.Warning
	default:
		return t.Label
	}
}

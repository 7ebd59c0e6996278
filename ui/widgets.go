package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws text rows and bars with the viewer theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.Accent)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label+":", x, y, t.FontSize, t.Label)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.Value)
	return y + t.LineHeight
}

// DrawNodeBar draws the share of the plate on nodal lines, filled in the
// sand colour.
func (r *Renderer) DrawNodeBar(x, y int32, fraction float64, width int32) int32 {
	t := r.Theme
	fraction = min(max(fraction, 0), 1)
	barX := x + t.LabelWidth
	barWidth := width - t.LabelWidth - 50

	rl.DrawText("Nodal:", x, y, t.FontSize, t.Label)
	rl.DrawRectangle(barX, y+2, barWidth, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*fraction), t.BarHeight, t.NodeFill)
	rl.DrawText(fmt.Sprintf("%.1f%%", fraction*100), barX+barWidth+5, y, t.FontSize, t.Value)
	return y + t.LineHeight + 2
}

// DrawProbe draws the probed plate point with a swatch of its gray level.
func (r *Renderer) DrawProbe(x, y int32, px, py, intensity float64) int32 {
	t := r.Theme
	rl.DrawText("Probe:", x, y, t.FontSize, t.Label)
	sx := x + t.LabelWidth
	rl.DrawRectangle(sx, y, t.SwatchSize, t.SwatchSize, IntensityColor(intensity))
	rl.DrawRectangleLines(sx, y, t.SwatchSize, t.SwatchSize, t.Label)
	text := fmt.Sprintf("(%.3f, %.3f) %.3f", px, py, intensity)
	rl.DrawText(text, sx+t.SwatchSize+6, y, t.FontSize, t.Value)
	return y + t.LineHeight
}

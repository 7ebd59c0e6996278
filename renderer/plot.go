package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/systems"
)

const (
	plotPadding = 30
	logFloor    = -9.0
)

var (
	plotCurve  = rl.Red
	plotPeak   = rl.Color{R: 200, G: 40, B: 40, A: 255}
	plotTrough = rl.Color{R: 40, G: 80, B: 200, A: 255}
)

// ResponsePlot draws log10 of the point response against wavenumber.
type ResponsePlot struct{}

// NewResponsePlot creates a response plot.
func NewResponsePlot() *ResponsePlot {
	return &ResponsePlot{}
}

func logResponse(v float64) float64 {
	if v > 1e-9 {
		return math.Log10(v)
	}
	return logFloor
}

// Draw renders res into bounds and marks currentK.
func (p *ResponsePlot) Draw(bounds rl.Rectangle, res *systems.ScanResult, currentK float64) {
	rl.DrawRectangleRec(bounds, rl.RayWhite)
	left := bounds.X + plotPadding
	right := bounds.X + bounds.Width - plotPadding
	top := bounds.Y + plotPadding
	bottom := bounds.Y + bounds.Height - plotPadding

	rl.DrawLineEx(rl.Vector2{X: left, Y: top}, rl.Vector2{X: left, Y: bottom}, 1, rl.Black)
	rl.DrawLineEx(rl.Vector2{X: left, Y: bottom}, rl.Vector2{X: right, Y: bottom}, 1, rl.Black)
	rl.DrawText("k", int32((left+right)/2), int32(bottom+10), 12, rl.Black)
	rl.DrawText("log10 f(k)", int32(bounds.X+4), int32(bounds.Y+4), 12, rl.Black)

	if res == nil || len(res.Samples) < 2 {
		rl.DrawText("no scan", int32(left+10), int32(top+10), 14, rl.Gray)
		return
	}

	kMin := res.Samples[0].K
	kMax := res.Samples[len(res.Samples)-1].K
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range res.Samples {
		v := logResponse(s.Value)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	yRange := hi - lo
	if yRange <= 1e-9 {
		yRange = 1
	}

	project := func(s systems.Sample) rl.Vector2 {
		x := left + float32((s.K-kMin)/(kMax-kMin))*(right-left)
		y := bottom - float32((logResponse(s.Value)-lo)/yRange)*(bottom-top)
		return rl.Vector2{X: x, Y: min(max(y, top), bottom)}
	}

	rl.DrawText(fmt.Sprintf("%.1f", kMin), int32(left-8), int32(bottom+4), 10, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("%.1f", kMax), int32(right-16), int32(bottom+4), 10, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("%.1f", lo), int32(bounds.X+2), int32(bottom-6), 10, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("%.1f", hi), int32(bounds.X+2), int32(top-6), 10, rl.DarkGray)

	prev := project(res.Samples[0])
	for _, s := range res.Samples[1:] {
		pt := project(s)
		rl.DrawLineEx(prev, pt, 2, plotCurve)
		prev = pt
	}
	for _, s := range res.Peaks {
		rl.DrawCircleV(project(s), 3, plotPeak)
	}
	for _, s := range res.Troughs {
		rl.DrawCircleV(project(s), 3, plotTrough)
	}

	if currentK >= kMin && currentK <= kMax {
		x := left + float32((currentK-kMin)/(kMax-kMin))*(right-left)
		rl.DrawLineEx(rl.Vector2{X: x, Y: top}, rl.Vector2{X: x, Y: bottom}, 1, rl.Gray)
	}
}

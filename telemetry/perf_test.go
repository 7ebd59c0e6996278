package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollector_PhaseTiming(t *testing.T) {
	clk := &fakeClock{t: time.Unix(100, 0)}
	pc := NewPerfCollectorWithClock(10, clk.now)

	for i := 0; i < 4; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSolve)
		clk.advance(3 * time.Millisecond)
		pc.StartPhase(PhaseSand)
		clk.advance(1 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 4*time.Millisecond {
		t.Errorf("avg tick = %v, want 4ms", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseSolve] != 3*time.Millisecond {
		t.Errorf("solve avg = %v, want 3ms", stats.PhaseAvg[PhaseSolve])
	}
	if pct := stats.PhasePct[PhaseSand]; pct != 25 {
		t.Errorf("sand pct = %v, want 25", pct)
	}
	if stats.TicksPerSecond != 250 {
		t.Errorf("ticks/sec = %v, want 250", stats.TicksPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollectorWithClock(3, clk.now)

	for _, d := range []time.Duration{100, 1, 1, 1} {
		pc.StartTick()
		pc.StartPhase(PhaseScan)
		clk.advance(d * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	// The 100ms update has rotated out of the window.
	if stats.MaxTickDuration != time.Millisecond || stats.MinTickDuration != time.Millisecond {
		t.Errorf("window extrema = [%v, %v], want 1ms", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollectorWithClock(10, clk.now)

	pc.RecordFrame()
	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("frame duration = %v, want 20ms", stats.FrameDuration)
	}
	if stats.FPS != 50 {
		t.Errorf("fps = %v, want 50", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseSolve: 80, PhaseRender: 20},
	}
	row := s.ToCSV(7)
	if row.Frame != 7 || row.AvgTickUS != 2000 || row.SolvePct != 80 || row.RenderPct != 20 || row.SandPct != 0 {
		t.Errorf("unexpected csv row: %+v", row)
	}
}

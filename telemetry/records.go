package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/chladni/systems"
)

// Frame summarises one completed grid solve.
type Frame struct {
	Step         int     `csv:"step"`
	K            float64 `csv:"k"`
	RawMin       float64 `csv:"raw_min"`
	RawMax       float64 `csv:"raw_max"`
	Mean         float64 `csv:"mean"`
	StdDev       float64 `csv:"std_dev"`
	NodeFraction float64 `csv:"node_fraction"`
	Particles    int     `csv:"particles"`
	SolveMillis  float64 `csv:"solve_ms"`
}

// NewFrame builds a frame from a solved grid. step is -1 outside a sweep.
func NewFrame(step int, k float64, g *systems.Grid, particles int, solve time.Duration) Frame {
	st := systems.SummarizeGrid(g)
	f := Frame{
		Step:         step,
		K:            k,
		Mean:         st.Mean,
		StdDev:       st.StdDev,
		NodeFraction: st.NodeFraction,
		Particles:    particles,
		SolveMillis:  float64(solve.Microseconds()) / 1000,
	}
	if g != nil {
		f.RawMin, f.RawMax = g.RawMin, g.RawMax
	}
	return f
}

// LogValue implements slog.LogValuer.
func (f Frame) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", f.Step),
		slog.Float64("k", f.K),
		slog.Float64("raw_max", f.RawMax),
		slog.Float64("mean", f.Mean),
		slog.Float64("node_fraction", f.NodeFraction),
		slog.Int("particles", f.Particles),
		slog.Float64("solve_ms", f.SolveMillis),
	)
}

// ScanRecord is one response sample.
type ScanRecord struct {
	K     float64 `csv:"k"`
	Value float64 `csv:"value"`
}

// ScanRecords converts scanner samples for CSV export.
func ScanRecords(samples []systems.Sample) []ScanRecord {
	out := make([]ScanRecord, len(samples))
	for i, s := range samples {
		out[i] = ScanRecord{K: s.K, Value: s.Value}
	}
	return out
}

// ExtremumRecord is a coarse extremum and, when refined, its polished location.
type ExtremumRecord struct {
	Kind         string  `csv:"kind"`
	K            float64 `csv:"k"`
	Value        float64 `csv:"value"`
	RefinedK     float64 `csv:"refined_k"`
	RefinedValue float64 `csv:"refined_value"`
}

// NewExtremumRecord pairs a coarse sample with its refinement.
// Pass coarse as refined when no refinement was run.
func NewExtremumRecord(kind systems.ExtremumKind, coarse, refined systems.Sample) ExtremumRecord {
	return ExtremumRecord{
		Kind:         kind.String(),
		K:            coarse.K,
		Value:        coarse.Value,
		RefinedK:     refined.K,
		RefinedValue: refined.Value,
	}
}

// LogValue implements slog.LogValuer.
func (r ExtremumRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", r.Kind),
		slog.Float64("k", r.K),
		slog.Float64("value", r.Value),
		slog.Float64("refined_k", r.RefinedK),
		slog.Float64("refined_value", r.RefinedValue),
	)
}

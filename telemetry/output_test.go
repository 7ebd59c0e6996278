package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/systems"
)

func readCSV[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var out []T
	if err := gocsv.UnmarshalFile(f, &out); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return out
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v %v", om, err)
	}
	// All methods are nil-safe.
	if err := om.WriteFrame(Frame{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteScan(nil); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report no dir and close cleanly")
	}
}

func TestOutputManagerFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	frames := []Frame{
		{Step: 0, K: 1, RawMax: 2, Particles: 10},
		{Step: 1, K: 3.5, RawMax: 4, Particles: 20},
		{Step: 2, K: 6, RawMax: 8, Particles: 30},
	}
	for _, f := range frames {
		if err := om.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{AvgTickDuration: time.Millisecond}, 60); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	got := readCSV[Frame](t, filepath.Join(dir, "sweep.csv"))
	if len(got) != len(frames) {
		t.Fatalf("read %d frames, want %d", len(got), len(frames))
	}
	for i := range frames {
		if got[i] != frames[i] {
			t.Errorf("frame %d = %+v, want %+v", i, got[i], frames[i])
		}
	}

	perf := readCSV[PerfStatsCSV](t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 1 || perf[0].AvgTickUS != 1000 || perf[0].Frame != 60 {
		t.Errorf("unexpected perf rows: %+v", perf)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot not loadable: %v", err)
	}
}

func TestOutputManagerScanAndExtrema(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	samples := []systems.Sample{{K: 1, Value: 0.1}, {K: 1.1, Value: 0.4}, {K: 1.2, Value: 0.2}}
	if err := om.WriteScan(ScanRecords(samples)); err != nil {
		t.Fatal(err)
	}
	ext := []ExtremumRecord{NewExtremumRecord(systems.KindPeak, samples[1], systems.Sample{K: 1.12, Value: 0.45})}
	if err := om.WriteExtrema(ext); err != nil {
		t.Fatal(err)
	}

	scan := readCSV[ScanRecord](t, filepath.Join(dir, "scan.csv"))
	if len(scan) != 3 || scan[1] != (ScanRecord{K: 1.1, Value: 0.4}) {
		t.Errorf("unexpected scan rows: %+v", scan)
	}
	rows := readCSV[ExtremumRecord](t, filepath.Join(dir, "extrema.csv"))
	if len(rows) != 1 || rows[0].Kind != "peak" || rows[0].RefinedK != 1.12 {
		t.Errorf("unexpected extrema rows: %+v", rows)
	}
}

func TestNewFrame(t *testing.T) {
	g, err := systems.NewGrid(2, []float64{0, 0.02, 0.5, 1})
	if err != nil {
		t.Fatal(err)
	}
	g.RawMin, g.RawMax = 0.1, 3
	f := NewFrame(4, 6.5, g, 120, 1500*time.Microsecond)
	if f.Step != 4 || f.K != 6.5 || f.Particles != 120 {
		t.Errorf("unexpected frame: %+v", f)
	}
	if f.RawMax != 3 || f.NodeFraction != 0.5 || f.SolveMillis != 1.5 {
		t.Errorf("unexpected frame stats: %+v", f)
	}
	if nf := NewFrame(-1, 2, nil, 0, 0); nf.RawMax != 0 || nf.Mean != 0 {
		t.Errorf("nil grid frame = %+v", nf)
	}
}

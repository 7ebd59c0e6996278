package ui

import (
	"testing"

	"github.com/pthm-cable/chladni/config"
)

func TestIntensityColorMatchesPlate(t *testing.T) {
	cases := []struct {
		v    float64
		gray uint8
	}{
		{0, 255},
		{1, 0},
		{0.5, 127},
		{-1, 255},
		{2, 0},
	}
	for _, tc := range cases {
		c := IntensityColor(tc.v)
		if c.R != tc.gray || c.G != tc.gray || c.B != tc.gray || c.A != 255 {
			t.Errorf("IntensityColor(%v) = %+v, want gray %d", tc.v, c, tc.gray)
		}
	}
}

func TestPhaseColor(t *testing.T) {
	th := DefaultTheme()
	if got := th.PhaseColor(10); got != th.Label {
		t.Errorf("10%% = %+v, want label colour", got)
	}
	if got := th.PhaseColor(30); got != th.Warning {
		t.Errorf("30%% = %+v, want warning colour", got)
	}
	if got := th.PhaseColor(80); got != th.Hot {
		t.Errorf("80%% = %+v, want hot colour", got)
	}
}

func TestControlValuesRoundTrip(t *testing.T) {
	s := config.Default().Settings()
	got := ValuesFromSettings(s).Apply(s)
	if got.Steps != s.Steps || got.SandAmount != s.SandAmount || got.ShowBackground != s.ShowBackground {
		t.Errorf("round trip changed settings: %+v -> %+v", s, got)
	}
	if d := got.Excitation.WaveNumber - s.Excitation.WaveNumber; d > 1e-6 || d < -1e-6 {
		t.Errorf("wave number drifted by %g", d)
	}
}

func TestSweepOwnsWaveNumber(t *testing.T) {
	v := ControlValues{WaveNumber: 2}

	v.follow(PanelState{Sweeping: true, WaveNumber: 3.5})
	if v.WaveNumber != 3.5 {
		t.Errorf("during sweep slider k = %v, want 3.5", v.WaveNumber)
	}

	// Applied mid-sweep, the settings carry the sweep's k, not the old slider.
	base := config.Default().Settings()
	if got := v.Apply(base).Excitation.WaveNumber; got != 3.5 {
		t.Errorf("applied k = %v, want 3.5", got)
	}

	v.follow(PanelState{WaveNumber: 9})
	if v.WaveNumber != 3.5 {
		t.Errorf("outside a sweep the slider is the user's, got %v", v.WaveNumber)
	}
}

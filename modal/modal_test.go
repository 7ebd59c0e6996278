package modal

import (
	"math"
	"testing"

	"github.com/pthm-cable/chladni/cplx"
)

func closeTo(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestMode(t *testing.T) {
	tests := []struct {
		m, n    int
		x, y, l float64
		want    float64
	}{
		{0, 0, 0.3, 0.7, 1, 2},
		{1, 0, 0, 0.2, 1, 2},
		{1, 0, 1, 0.2, 1, -2},
		{1, 1, 0.5, 0.1, 1, 0},
		{2, 0, 0.25, 0, 2, 1 * math.Cos(2*math.Pi*0.25/2)},
	}
	for _, tt := range tests {
		got := Mode(tt.m, tt.n, tt.x, tt.y, tt.l)
		if !closeTo(got, tt.want, 1e-12) {
			t.Errorf("Mode(%d,%d,%v,%v,%v) = %v, want %v", tt.m, tt.n, tt.x, tt.y, tt.l, got, tt.want)
		}
	}
}

func TestEigenvalue(t *testing.T) {
	if got := Eigenvalue(0, 0, 1); got != 0 {
		t.Errorf("k00 = %v, want 0", got)
	}
	if got := Eigenvalue(3, 4, 1); !closeTo(got, 5*math.Pi, 1e-12) {
		t.Errorf("k34 = %v, want 5π", got)
	}
	if got := Eigenvalue(1, 0, 2); !closeTo(got, math.Pi/2, 1e-12) {
		t.Errorf("k10(L=2) = %v, want π/2", got)
	}
}

func TestTuningDefaultsForZeroValue(t *testing.T) {
	p := Params{Modes: 1}
	if got := p.tuning(); got != DefaultTuning() {
		t.Errorf("zero tuning resolved to %+v, want defaults", got)
	}
	custom := Tuning{DampingCoefficient: 1, FeedbackGain: 0}
	p.Tuning = custom
	if got := p.tuning(); got != custom {
		t.Errorf("custom tuning resolved to %+v", got)
	}
}

func TestResolventSkipsSingularTerms(t *testing.T) {
	p := Params{K: math.Pi, X0: 0.3, Y0: 0.6, Gamma: 0, L: 1, Modes: 3}
	r := NewResolvent(p, cplx.Real(p.K))

	// Modes (1,0) and (0,1) sit exactly on k = π.
	if r.Skipped != 2 {
		t.Fatalf("expected 2 skipped terms, got %d", r.Skipped)
	}
	if len(r.Terms) != 7 {
		t.Fatalf("expected 7 retained terms, got %d", len(r.Terms))
	}
	for _, term := range r.Terms {
		if (term.M == 1 && term.N == 0) || (term.M == 0 && term.N == 1) {
			t.Errorf("singular term (%d,%d) was retained", term.M, term.N)
		}
	}

	f := Field(0.1, 0.2, p)
	if math.IsNaN(f.Re) || math.IsInf(f.Re, 0) || math.IsNaN(f.Im) || math.IsInf(f.Im, 0) {
		t.Errorf("field not finite with singular terms: %v", f)
	}
}

func TestFieldSingleMode(t *testing.T) {
	p := Params{K: 5, X0: 0.5, Y0: 0.5, Gamma: 0.01, L: 1, Modes: 1}
	got := Field(0.25, 0.75, p)

	// Only (0,0): 2·2 / (25 + 0.1i)
	want, err := cplx.Real(4).Div(cplx.New(25, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(got.Re, want.Re, 1e-14) || !closeTo(got.Im, want.Im, 1e-14) {
		t.Errorf("single-mode field = %v, want %v", got, want)
	}
}

func TestFieldReciprocity(t *testing.T) {
	points := [][2]float64{{0.1, 0.9}, {0.33, 0.27}, {0.5, 0.5}, {0.8, 0.05}}
	for _, obs := range points {
		for _, src := range points {
			p := Params{K: 7.3, X0: src[0], Y0: src[1], Gamma: 0, L: 1, Modes: 12}
			q := p
			q.X0, q.Y0 = obs[0], obs[1]

			a := Field(obs[0], obs[1], p)
			b := Field(src[0], src[1], q)
			if !closeTo(a.Re, b.Re, 1e-9) || !closeTo(a.Im, b.Im, 1e-9) {
				t.Errorf("reciprocity broken for obs=%v src=%v: %v vs %v", obs, src, a, b)
			}
			if a.Im != 0 {
				t.Errorf("expected purely real field without damping, got %v", a)
			}
		}
	}
}

func TestFieldZeroModes(t *testing.T) {
	p := DefaultParams().WithModes(0)
	if got := Field(0.2, 0.4, p); !got.IsZero() {
		t.Errorf("expected zero field with no modes, got %v", got)
	}
	if got := Response(cplx.Real(5), p); got != 0 {
		t.Errorf("expected zero response with no modes, got %v", got)
	}
}

func TestResponseMatchesClosedForm(t *testing.T) {
	p := Params{K: 5, X0: 0.5, Y0: 0.5, Gamma: 0.01, L: 1, Modes: 1}
	k := 4.0
	s, _ := cplx.Real(4).Div(cplx.New(k*k, 2*0.01*k))
	den := cplx.One().Add(s.Scale(DefaultFeedbackGain))
	q, _ := s.Div(den)

	got := Response(cplx.Real(k), p)
	if !closeTo(got, q.Abs(), 1e-12) {
		t.Errorf("Response = %v, want %v", got, q.Abs())
	}
}

func TestResponseDeterministic(t *testing.T) {
	p := DefaultParams().WithModes(20)
	a := Response(cplx.Real(6.1), p)
	b := Response(cplx.Real(6.1), p)
	if a != b {
		t.Errorf("response not deterministic: %v vs %v", a, b)
	}
	if a < 0 {
		t.Errorf("response negative: %v", a)
	}
}

func TestParamsCopies(t *testing.T) {
	p := DefaultParams()
	q := p.WithK(9).WithModes(3)
	if p.K != 5 || p.Modes != 15 {
		t.Errorf("WithK/WithModes mutated the receiver: %+v", p)
	}
	if q.K != 9 || q.Modes != 3 {
		t.Errorf("unexpected copy: %+v", q)
	}
}

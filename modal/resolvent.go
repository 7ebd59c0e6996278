package modal

import (
	"github.com/pthm-cable/chladni/cplx"
)

// Term is one retained entry of a resolvent: G = 1/((k² − kmn²) + i·c·γ·k).
type Term struct {
	M, N int
	G    cplx.Complex
}

// Resolvent holds the per-mode response of the plate to a single excitation
// wavenumber. Modes whose denominator magnitude falls below
// cplx.SingularEpsilon are dropped.
type Resolvent struct {
	Modes   int
	L       float64
	Terms   []Term
	Skipped int
}

// NewResolvent precomputes the modal denominators for wavenumber k. k is
// complex so the same routine serves the grid field (real k) and the point
// response.
func NewResolvent(p Params, k cplx.Complex) *Resolvent {
	r := &Resolvent{Modes: p.Modes, L: p.L}
	if p.Modes <= 0 {
		return r
	}
	r.Terms = make([]Term, 0, p.Modes*p.Modes)

	kSq := cplx.Pow(k, 2)
	damping := cplx.New(0, p.tuning().DampingCoefficient*p.Gamma).Mul(k)

	for n := 0; n < p.Modes; n++ {
		for m := 0; m < p.Modes; m++ {
			kmn := Eigenvalue(m, n, p.L)
			den := kSq.SubReal(kmn * kmn).Add(damping)
			if den.Abs() < cplx.SingularEpsilon {
				r.Skipped++
				continue
			}
			g, err := cplx.One().Div(den)
			if err != nil {
				r.Skipped++
				continue
			}
			r.Terms = append(r.Terms, Term{M: m, N: n, G: g})
		}
	}
	return r
}

// Sum returns Σ weight(m,n)·G(m,n) over the retained terms.
func (r *Resolvent) Sum(weight func(m, n int) float64) cplx.Complex {
	var re, im float64
	for _, t := range r.Terms {
		w := weight(t.M, t.N)
		re += w * t.G.Re
		im += w * t.G.Im
	}
	return cplx.New(re, im)
}

// Field returns the complex field amplitude at (x,y) for the excitation
// described by p.
func Field(x, y float64, p Params) cplx.Complex {
	r := NewResolvent(p, cplx.Real(p.K))
	return r.Sum(func(m, n int) float64 {
		return Mode(m, n, x, y, p.L) * Mode(m, n, p.X0, p.Y0, p.L)
	})
}

// Response returns the zero-dimensional response of the plate at the
// excitation point: |s / (1 + gain·s)| with s the self-coupled modal sum.
// The result is 0 when the feedback denominator is near-singular.
func Response(k cplx.Complex, p Params) float64 {
	r := NewResolvent(p, k)
	s := r.Sum(func(m, n int) float64 {
		f := Mode(m, n, p.X0, p.Y0, p.L)
		return f * f
	})
	den := cplx.One().Add(s.Scale(p.tuning().FeedbackGain))
	if den.Abs() < cplx.SingularEpsilon {
		return 0
	}
	q, err := s.Div(den)
	if err != nil {
		return 0
	}
	return q.Magnitude()
}

// Package modal implements the eigenmode basis of the square plate and the
// truncated modal sums built on it.
package modal

import "math"

// Default values for the two heuristic constants of the solver.
const (
	DefaultDampingCoefficient = 2.0
	DefaultFeedbackGain       = 3.3
)

// Tuning holds the heuristic constants of the solver. The zero value means
// the defaults; config.Validate rejects an explicit all-zero tuning.
type Tuning struct {
	// DampingCoefficient multiplies gamma·k in the imaginary part of every
	// modal denominator.
	DampingCoefficient float64 `yaml:"damping_coefficient"`
	// FeedbackGain is the constant in the point response s / (1 + gain·s).
	FeedbackGain float64 `yaml:"feedback_gain"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		DampingCoefficient: DefaultDampingCoefficient,
		FeedbackGain:       DefaultFeedbackGain,
	}
}

// Params describes one excitation of the plate. It is passed by value into
// every solver call.
type Params struct {
	K      float64 // excitation wavenumber
	X0, Y0 float64 // excitation point
	Gamma  float64 // damping
	L      float64 // plate side length
	Modes  int     // series truncation per axis
	Tuning Tuning
}

// DefaultParams returns the stock excitation: k=5 at the plate centre.
func DefaultParams() Params {
	return Params{
		K:      5.0,
		X0:     0.5,
		Y0:     0.5,
		Gamma:  0.01,
		L:      1.0,
		Modes:  15,
		Tuning: DefaultTuning(),
	}
}

// WithK returns a copy of p with the wavenumber replaced.
func (p Params) WithK(k float64) Params {
	p.K = k
	return p
}

// WithModes returns a copy of p with the truncation replaced.
func (p Params) WithModes(modes int) Params {
	p.Modes = modes
	return p
}

func (p Params) tuning() Tuning {
	if p.Tuning == (Tuning{}) {
		return DefaultTuning()
	}
	return p.Tuning
}

// Mode returns the (m,n) eigenfunction of the free square plate at (x,y).
func Mode(m, n int, x, y, l float64) float64 {
	return (2 / l) * math.Cos(float64(m)*math.Pi*x/l) * math.Cos(float64(n)*math.Pi*y/l)
}

// Eigenvalue returns the modal wavenumber of mode (m,n).
func Eigenvalue(m, n int, l float64) float64 {
	return (math.Pi / l) * math.Sqrt(float64(m*m+n*n))
}

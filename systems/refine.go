package systems

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/chladni/cplx"
	"github.com/pthm-cable/chladni/modal"
)

// ExtremumKind distinguishes resonances from anti-resonances.
type ExtremumKind int

const (
	KindPeak ExtremumKind = iota
	KindTrough
)

func (k ExtremumKind) String() string {
	switch k {
	case KindPeak:
		return "peak"
	case KindTrough:
		return "trough"
	default:
		return "unknown"
	}
}

// refineEvaluations caps response evaluations per refinement.
const refineEvaluations = 120

// RefineExtremum searches [e.K-halfWidth, e.K+halfWidth] for a better
// extremum of the point response with Nelder-Mead. The coarse sample is
// returned unchanged when the search does not improve on it.
func RefineExtremum(p modal.Params, e Sample, kind ExtremumKind, halfWidth float64) (Sample, error) {
	if !(halfWidth > 0) {
		return e, nil
	}
	lo, hi := e.K-halfWidth, e.K+halfWidth
	clampK := func(k float64) float64 {
		if k < lo {
			return lo
		}
		if k > hi {
			return hi
		}
		return k
	}

	sign := 1.0
	if kind == KindPeak {
		sign = -1.0
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return sign * modal.Response(cplx.Real(clampK(x[0])), p)
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: refineEvaluations,
	}
	method := &optimize.NelderMead{
		SimplexSize: halfWidth / 2,
	}

	result, err := optimize.Minimize(problem, []float64{e.K}, settings, method)
	if result == nil {
		return e, fmt.Errorf("refining %s at k=%.4f: %w", kind, e.K, err)
	}

	k := clampK(result.X[0])
	v := modal.Response(cplx.Real(k), p)
	switch {
	case kind == KindPeak && v > e.Value:
		return Sample{K: k, Value: v}, nil
	case kind == KindTrough && v < e.Value && v > TroughFloor:
		return Sample{K: k, Value: v}, nil
	}
	return e, nil
}

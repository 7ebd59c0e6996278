package systems

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/chladni/cplx"
	"github.com/pthm-cable/chladni/modal"
)

// TroughFloor is the response level at or below which a local minimum is
// treated as numerical noise rather than an anti-resonance.
const TroughFloor = 1e-6

// rangeSlack absorbs rounding when counting samples in [kMin, kMax].
const rangeSlack = 1e-9

// MaxScanSamples bounds the number of samples a single scan may allocate.
const MaxScanSamples = 1 << 24

// ErrInvalidScanRange is returned for a non-positive step, an inverted range
// or a range that needs more than MaxScanSamples samples.
var ErrInvalidScanRange = errors.New("systems: invalid scan range")

// Sample is one point of the wavenumber response curve.
type Sample struct {
	K     float64
	Value float64
}

// ScanResult holds a response sweep and its extrema, in k order.
type ScanResult struct {
	Samples []Sample
	Peaks   []Sample
	Troughs []Sample
}

// SampleCount returns how many samples Scan produces for the range.
func SampleCount(kMin, kMax, kStep float64) (int, error) {
	if !(kStep > 0) || kMax < kMin || math.IsInf(kMax-kMin, 0) {
		return 0, fmt.Errorf("%w: [%g, %g] step %g", ErrInvalidScanRange, kMin, kMax, kStep)
	}
	count := math.Floor((kMax-kMin)/kStep+rangeSlack) + 1
	if math.IsInf(count, 0) || math.IsNaN(count) || count > MaxScanSamples {
		return 0, fmt.Errorf("%w: [%g, %g] step %g needs %g samples", ErrInvalidScanRange, kMin, kMax, kStep, count)
	}
	return int(count), nil
}

// Scan samples the point response at k = kMin + i·kStep up to and including
// kMax and extracts its peaks and troughs. p.Modes is the series truncation.
func Scan(kMin, kMax, kStep float64, p modal.Params) (ScanResult, error) {
	return ScanContext(context.Background(), kMin, kMax, kStep, p)
}

// ScanContext is Scan with cancellation checked between samples. A cancelled
// scan returns the context error and no result.
func ScanContext(ctx context.Context, kMin, kMax, kStep float64, p modal.Params) (ScanResult, error) {
	n, err := SampleCount(kMin, kMax, kStep)
	if err != nil {
		return ScanResult{}, err
	}

	samples := make([]Sample, n)
	for i := range samples {
		if err := ctx.Err(); err != nil {
			return ScanResult{}, err
		}
		k := kMin + float64(i)*kStep
		samples[i] = Sample{K: k, Value: modal.Response(cplx.Real(k), p)}
	}

	peaks, troughs := FindExtrema(samples)
	return ScanResult{Samples: samples, Peaks: peaks, Troughs: troughs}, nil
}

// FindExtrema returns the strict local maxima and the strict local minima
// above TroughFloor of a sampled curve. The first and last samples are never
// reported.
func FindExtrema(samples []Sample) (peaks, troughs []Sample) {
	for i := 1; i < len(samples)-1; i++ {
		prev, cur, next := samples[i-1].Value, samples[i].Value, samples[i+1].Value
		switch {
		case cur > prev && cur > next:
			peaks = append(peaks, samples[i])
		case cur < prev && cur < next && cur > TroughFloor:
			troughs = append(troughs, samples[i])
		}
	}
	return peaks, troughs
}

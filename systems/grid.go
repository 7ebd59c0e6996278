package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/chladni/cplx"
	"github.com/pthm-cable/chladni/modal"
)

// DefaultGridSize is the stock resolution of the intensity grid.
const DefaultGridSize = 100

// flatRange is the extrema spread below which a grid is treated as flat.
const flatRange = 1e-9

var (
	// ErrInvalidGridSize is returned for grids smaller than 1×1.
	ErrInvalidGridSize = errors.New("systems: invalid grid size")

	// ErrGridMismatch is returned when supplied values do not fill the grid.
	ErrGridMismatch = errors.New("systems: grid values do not match size")
)

// Grid is a normalized intensity grid on the plate. Values are row major
// with the x index outer: Values[i*Size+j] holds the cell at
// x = L·i/Size, y = L·j/Size. A Grid is not modified after it is returned.
type Grid struct {
	Size   int
	L      float64
	Values []float64

	// Extrema of the raw squared magnitudes before normalization.
	RawMin float64
	RawMax float64
}

// NewGrid builds a grid from already normalized values. The slice is copied.
func NewGrid(size int, values []float64) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
	}
	if len(values) != size*size {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrGridMismatch, len(values), size, size)
	}
	g := &Grid{Size: size, L: 1, Values: make([]float64, len(values))}
	copy(g.Values, values)
	return g, nil
}

// At returns the value of cell (i,j).
func (g *Grid) At(i, j int) float64 {
	return g.Values[i*g.Size+j]
}

// Coord returns the physical coordinate of index i along either axis.
func (g *Grid) Coord(i int) float64 {
	return g.L * float64(i) / float64(g.Size)
}

// Sample returns the intensity of the cell containing the normalized plate
// coordinate (x,y). Out-of-range coordinates clamp to the border cells.
// A nil grid samples as 0.5.
func (g *Grid) Sample(x, y float64) float64 {
	if g == nil {
		return 0.5
	}
	i := clampIndex(int(math.Floor(x*float64(g.Size))), g.Size)
	j := clampIndex(int(math.Floor(y*float64(g.Size))), g.Size)
	return g.Values[i*g.Size+j]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// SolveGrid evaluates |ψ|² over a size×size grid for the excitation p and
// min-max normalizes it to [0,1].
//
// Flat fields fall back to a constant: 0.5 when the field is uniformly
// nonzero, 0 when it vanishes.
func SolveGrid(p modal.Params, size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
	}

	g := &Grid{Size: size, L: p.L}
	g.Values = solveRaw(p, size)

	g.RawMin, g.RawMax = math.Inf(1), 0
	for _, v := range g.Values {
		if v > g.RawMax {
			g.RawMax = v
		}
		if v < g.RawMin {
			g.RawMin = v
		}
	}

	normalize(g.Values, g.RawMin, g.RawMax)
	return g, nil
}

// normalize rescales raw intensities in place once the extrema are known.
func normalize(values []float64, lo, hi float64) {
	span := hi - lo
	if span > flatRange {
		for i, v := range values {
			values[i] = (v - lo) / span
		}
		return
	}

	fill := 0.0
	if hi > flatRange {
		fill = 0.5
	}
	for i := range values {
		values[i] = fill
	}
}

// solveRaw returns the raw squared field magnitudes.
//
// The modal sum Σ Mode(x,y)·Mode(x0,y0)·G separates into
// Σ_m cos(mπx/L) · Σ_n C(m,n)·cos(nπy/L) with C = (2/L)·Mode(x0,y0)·G,
// so each row costs O(modes²) and each cell O(modes).
func solveRaw(p modal.Params, size int) []float64 {
	raw := make([]float64, size*size)
	modes := p.Modes
	if modes <= 0 {
		return raw
	}

	r := modal.NewResolvent(p, cplx.Real(p.K))

	coefRe := make([]float64, modes*modes)
	coefIm := make([]float64, modes*modes)
	for _, t := range r.Terms {
		w := (2 / p.L) * modal.Mode(t.M, t.N, p.X0, p.Y0, p.L)
		idx := t.M*modes + t.N
		coefRe[idx] = w * t.G.Re
		coefIm[idx] = w * t.G.Im
	}

	// Both axes sample the same coordinates.
	cos := make([]float64, size*modes)
	for i := 0; i < size; i++ {
		x := p.L * float64(i) / float64(size)
		for m := 0; m < modes; m++ {
			cos[i*modes+m] = math.Cos(float64(m) * math.Pi * x / p.L)
		}
	}

	rowRe := make([]float64, modes)
	rowIm := make([]float64, modes)
	for j := 0; j < size; j++ {
		cy := cos[j*modes : (j+1)*modes]
		for m := 0; m < modes; m++ {
			var re, im float64
			base := m * modes
			for n := 0; n < modes; n++ {
				re += coefRe[base+n] * cy[n]
				im += coefIm[base+n] * cy[n]
			}
			rowRe[m], rowIm[m] = re, im
		}

		for i := 0; i < size; i++ {
			cx := cos[i*modes : (i+1)*modes]
			var re, im float64
			for m := 0; m < modes; m++ {
				re += cx[m] * rowRe[m]
				im += cx[m] * rowIm[m]
			}
			raw[i*size+j] = re*re + im*im
		}
	}
	return raw
}

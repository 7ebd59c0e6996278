package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NodeThreshold is the normalized intensity below which a cell counts as
// part of a nodal line.
const NodeThreshold = 0.05

// GridStats summarizes a solved grid.
type GridStats struct {
	Min          float64
	Max          float64
	Mean         float64
	StdDev       float64
	NodeFraction float64
}

// SummarizeGrid computes distribution statistics of the normalized values.
func SummarizeGrid(g *Grid) GridStats {
	if g == nil || len(g.Values) == 0 {
		return GridStats{}
	}

	mean, std := stat.PopMeanStdDev(g.Values, nil)

	nodes := 0
	for _, v := range g.Values {
		if v < NodeThreshold {
			nodes++
		}
	}

	return GridStats{
		Min:          floats.Min(g.Values),
		Max:          floats.Max(g.Values),
		Mean:         mean,
		StdDev:       std,
		NodeFraction: float64(nodes) / float64(len(g.Values)),
	}
}

// LogValue implements slog.LogValuer.
func (s GridStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.StdDev),
		slog.Float64("node_fraction", s.NodeFraction),
	)
}

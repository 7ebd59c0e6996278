package main

import (
	"fmt"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/cplx"
	"github.com/pthm-cable/chladni/modal"
	"github.com/pthm-cable/chladni/systems"
)

// Objective names accepted by -objective.
const (
	ObjectiveResponse = "response"
	ObjectiveNodal    = "nodal"
)

// FitnessEvaluator scores an excitation. Lower is better, as gonum minimizes.
type FitnessEvaluator struct {
	params    *ParamVector
	base      modal.Params
	objective string
	gridSize  int

	lastNodal float64
}

// NewFitnessEvaluator creates an evaluator at the base config's wavenumber.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, objective string, gridSize int) (*FitnessEvaluator, error) {
	fe := &FitnessEvaluator{
		params:    params,
		objective: objective,
		gridSize:  gridSize,
	}
	switch objective {
	case ObjectiveResponse:
		fe.base = baseCfg.ResponseParams()
	case ObjectiveNodal:
		fe.base = baseCfg.Params()
	default:
		return nil, fmt.Errorf("unknown objective %q", objective)
	}
	return fe, nil
}

// LastNodal returns the node fraction of the last nodal evaluation.
func (fe *FitnessEvaluator) LastNodal() float64 {
	return fe.lastNodal
}

func (fe *FitnessEvaluator) excitation(raw []float64) modal.Params {
	c := fe.params.Clamp(raw)
	p := fe.base
	p.X0, p.Y0, p.Gamma = c[0], c[1], c[2]
	return p
}

// Evaluate scores raw (denormalized) parameter values.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	p := fe.excitation(raw)
	switch fe.objective {
	case ObjectiveNodal:
		g, err := systems.SolveGrid(p, fe.gridSize)
		if err != nil {
			return 0
		}
		stats := systems.SummarizeGrid(g)
		fe.lastNodal = stats.NodeFraction
		// A sharp figure has thin nodal lines against a bright plate.
		return -(stats.StdDev + 0.1*stats.NodeFraction)
	default:
		return -modal.Response(cplx.Real(p.K), p)
	}
}

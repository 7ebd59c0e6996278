package main

import (
	"github.com/pthm-cable/chladni/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the excitation parameters searched by the optimizer.
func NewParamVector(maxGamma float64) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "x0", Path: "excitation.x0", Min: 0, Max: 1},
			{Name: "y0", Path: "excitation.y0", Min: 0, Max: 1},
			{Name: "gamma", Path: "excitation.gamma", Min: 0, Max: maxGamma},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into the excitation section.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Excitation.X0 = c[0]
	cfg.Excitation.Y0 = c[1]
	cfg.Excitation.Gamma = c[2]
}

// ExtractFromConfig reads the current values from a config, clamped to bounds.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.Clamp([]float64{cfg.Excitation.X0, cfg.Excitation.Y0, cfg.Excitation.Gamma})
}

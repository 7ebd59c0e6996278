package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the user-adjustable subset of the configuration that the
// viewer saves and restores between sessions.
type Settings struct {
	Excitation     ExcitationConfig `yaml:"excitation"`
	MaxWaveNumber  float64          `yaml:"max_wave_number"`
	Steps          int              `yaml:"steps"`
	StepDelay      float64          `yaml:"step_delay"`
	SandAmount     int              `yaml:"sand_amount"`
	SandInterval   float64          `yaml:"sand_interval"`
	Sound          SoundConfig      `yaml:"sound"`
	ShowBackground bool             `yaml:"show_background"`
	SoundEnabled   bool             `yaml:"sound_enabled"`
}

// Settings extracts the user-adjustable values.
func (c *Config) Settings() Settings {
	return Settings{
		Excitation:    c.Excitation,
		MaxWaveNumber: c.Sweep.MaxWaveNumber,
		Steps:         c.Sweep.Steps,
		StepDelay:     c.Sweep.StepDelay,
		SandAmount:    c.Sand.Amount,
		SandInterval:  c.Sand.StepInterval,
		Sound:         c.Sound,
	}
}

// ApplySettings returns a copy of c with s applied. The receiver is left
// untouched when the result would be invalid.
func (c *Config) ApplySettings(s Settings) (*Config, error) {
	next := *c
	next.Excitation = s.Excitation
	next.Sweep.MaxWaveNumber = s.MaxWaveNumber
	next.Sweep.Steps = s.Steps
	next.Sweep.StepDelay = s.StepDelay
	next.Sand.Amount = s.SandAmount
	next.Sand.StepInterval = s.SandInterval
	next.Sound = s.Sound

	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("applying settings: %w", err)
	}
	next.computeDerived()
	return &next, nil
}

// SaveSettings writes s to path as YAML.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// LoadSettings reads settings from path, starting from base so that fields
// missing in the file keep their current values.
func LoadSettings(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading settings file: %w", err)
	}
	s := base
	if err := yaml.Unmarshal(data, &s); err != nil {
		return base, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

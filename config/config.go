// Package config provides configuration loading and access for the plate
// simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/chladni/modal"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Plate      PlateConfig      `yaml:"plate"`
	Excitation ExcitationConfig `yaml:"excitation"`
	Tuning     modal.Tuning     `yaml:"tuning"`
	Sand       SandConfig       `yaml:"sand"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Scan       ScanConfig       `yaml:"scan"`
	Sound      SoundConfig      `yaml:"sound"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	PlateSize int `yaml:"plate_size"` // Pixel side of the plate view
}

// PlateConfig holds the geometry and resolution of the solver.
type PlateConfig struct {
	SideLength        float64 `yaml:"side_length"`
	GridSize          int     `yaml:"grid_size"`
	ModeCount         int     `yaml:"mode_count"`          // Truncation for the grid field
	ResponseModeCount int     `yaml:"response_mode_count"` // Truncation for the response scan
}

// ExcitationConfig holds the driving parameters.
type ExcitationConfig struct {
	WaveNumber float64 `yaml:"wave_number"`
	X0         float64 `yaml:"x0"`
	Y0         float64 `yaml:"y0"`
	Gamma      float64 `yaml:"gamma"`
}

// SandConfig holds particle simulation parameters.
type SandConfig struct {
	Amount        int     `yaml:"amount"`         // Particles added by GenerateSand
	StepInterval  float64 `yaml:"step_interval"`  // Seconds between migration steps
	SpeedFactor   float64 `yaml:"speed_factor"`   // Displacement per probe step
	Jitter        float64 `yaml:"jitter"`         // Full width of per-axis noise
	BatchSize     int     `yaml:"batch_size"`     // Continuous generation batch
	BatchInterval float64 `yaml:"batch_interval"` // Seconds between continuous batches
	Seed          int64   `yaml:"seed"`           // 0 = time-based
}

// SweepConfig holds the stepped wavenumber run parameters.
type SweepConfig struct {
	MaxWaveNumber    float64 `yaml:"max_wave_number"`
	Steps            int     `yaml:"steps"`
	StepDelay        float64 `yaml:"step_delay"`        // Seconds shown per step
	MinStepDelay     float64 `yaml:"min_step_delay"`    // Floor applied to StepDelay
	CalculationDelay float64 `yaml:"calculation_delay"` // Pause after each solve
}

// ScanConfig holds the response scanner range.
type ScanConfig struct {
	KMin   float64 `yaml:"k_min"`
	KMax   float64 `yaml:"k_max"`
	KStep  float64 `yaml:"k_step"`
	Refine bool    `yaml:"refine"` // Refine extrema with Nelder-Mead
}

// SoundConfig holds the wavenumber to pitch mapping.
type SoundConfig struct {
	ConstantC float64 `yaml:"constant_c"` // f = k² · C
	Amplitude float64 `yaml:"amplitude"`
	MinFreq   float64 `yaml:"min_freq"`
	MaxFreq   float64 `yaml:"max_freq"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StepInterval     time.Duration
	BatchInterval    time.Duration
	StepDelay        time.Duration
	CalculationDelay time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate checks parameter ranges and returns all violations joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Plate.SideLength > 0, "plate.side_length must be > 0, got %g", c.Plate.SideLength)
	check(c.Plate.GridSize >= 1, "plate.grid_size must be >= 1, got %d", c.Plate.GridSize)
	check(c.Plate.ModeCount >= 0, "plate.mode_count must be >= 0, got %d", c.Plate.ModeCount)
	check(c.Plate.ResponseModeCount >= 0, "plate.response_mode_count must be >= 0, got %d", c.Plate.ResponseModeCount)

	check(c.Excitation.WaveNumber > 0, "excitation.wave_number must be > 0, got %g", c.Excitation.WaveNumber)
	check(c.Excitation.X0 >= 0 && c.Excitation.X0 <= 1, "excitation.x0 must be in [0,1], got %g", c.Excitation.X0)
	check(c.Excitation.Y0 >= 0 && c.Excitation.Y0 <= 1, "excitation.y0 must be in [0,1], got %g", c.Excitation.Y0)
	check(c.Excitation.Gamma >= 0, "excitation.gamma must be >= 0, got %g", c.Excitation.Gamma)

	check(c.Tuning != (modal.Tuning{}), "tuning.damping_coefficient and tuning.feedback_gain cannot both be 0")
	check(c.Tuning.DampingCoefficient >= 0, "tuning.damping_coefficient must be >= 0, got %g", c.Tuning.DampingCoefficient)
	check(c.Tuning.FeedbackGain >= 0, "tuning.feedback_gain must be >= 0, got %g", c.Tuning.FeedbackGain)

	check(c.Sand.Amount >= 0, "sand.amount must be >= 0, got %d", c.Sand.Amount)
	check(c.Sand.StepInterval >= 0, "sand.step_interval must be >= 0, got %g", c.Sand.StepInterval)
	check(c.Sand.BatchSize >= 0, "sand.batch_size must be >= 0, got %d", c.Sand.BatchSize)
	check(c.Sand.BatchInterval > 0, "sand.batch_interval must be > 0, got %g", c.Sand.BatchInterval)

	check(c.Sweep.Steps >= 1, "sweep.steps must be >= 1, got %d", c.Sweep.Steps)
	check(c.Sweep.StepDelay >= 0, "sweep.step_delay must be >= 0, got %g", c.Sweep.StepDelay)
	check(c.Sweep.CalculationDelay >= 0, "sweep.calculation_delay must be >= 0, got %g", c.Sweep.CalculationDelay)

	check(c.Scan.KStep > 0, "scan.k_step must be > 0, got %g", c.Scan.KStep)
	check(c.Scan.KMax >= c.Scan.KMin, "scan.k_max (%g) must be >= scan.k_min (%g)", c.Scan.KMax, c.Scan.KMin)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StepInterval = seconds(c.Sand.StepInterval)
	c.Derived.BatchInterval = seconds(c.Sand.BatchInterval)
	c.Derived.CalculationDelay = seconds(c.Sweep.CalculationDelay)

	delay := c.Sweep.StepDelay
	if delay < c.Sweep.MinStepDelay {
		delay = c.Sweep.MinStepDelay
	}
	c.Derived.StepDelay = seconds(delay)

	if c.Screen.PlateSize == 0 {
		c.Screen.PlateSize = c.Screen.Height
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Params returns the grid-field excitation described by the config.
func (c *Config) Params() modal.Params {
	return modal.Params{
		K:      c.Excitation.WaveNumber,
		X0:     c.Excitation.X0,
		Y0:     c.Excitation.Y0,
		Gamma:  c.Excitation.Gamma,
		L:      c.Plate.SideLength,
		Modes:  c.Plate.ModeCount,
		Tuning: c.Tuning,
	}
}

// ResponseParams returns the excitation with the response scan truncation.
func (c *Config) ResponseParams() modal.Params {
	return c.Params().WithModes(c.Plate.ResponseModeCount)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

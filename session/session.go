// Package session owns the interactive state of a plate run: the current
// excitation, the solved intensity grid, the sand and the last response scan.
// It is driven cooperatively by Update from a render or headless loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/chladni/config"
	"github.com/pthm-cable/chladni/modal"
	"github.com/pthm-cable/chladni/systems"
	"github.com/pthm-cable/chladni/telemetry"
)

// ErrSweepRunning is returned by operations that are ignored during a sweep.
var ErrSweepRunning = errors.New("session: sweep in progress")

// FrameSink receives a summary of every completed solve.
type FrameSink interface {
	WriteFrame(f telemetry.Frame) error
}

// Options configures a Session. Zero fields take defaults.
type Options struct {
	Rand  *rand.Rand
	Clock func() time.Time
	Sink  FrameSink
	Perf  *telemetry.PerfCollector
}

// Session is the single owner of plate state. It is not safe for concurrent use.
type Session struct {
	base   *config.Config
	cfg    *config.Config
	params modal.Params

	grid *systems.Grid
	sand *systems.Sand

	clock func() time.Time
	sink  FrameSink
	perf  *telemetry.PerfCollector

	paused    bool
	animating bool
	lastStep  time.Time

	continuous bool
	lastBatch  time.Time

	sweep    sweep
	scan     *ScanView
	solveSeq int

	showBackground bool
	soundEnabled   bool
}

// ScanView is the latest response scan with optional refined extrema.
type ScanView struct {
	systems.ScanResult
	RefinedPeaks   []systems.Sample
	RefinedTroughs []systems.Sample
}

// New creates a session over cfg. cfg is also what Reset restores.
func New(cfg *config.Config, opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		seed := cfg.Sand.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		base:  cfg,
		clock: clock,
		sink:  opts.Sink,
		perf:  opts.Perf,
		sand:  systems.NewSand(rng),
	}
	s.applyConfig(cfg)
	return s
}

func (s *Session) applyConfig(cfg *config.Config) {
	s.cfg = cfg
	s.params = cfg.Params()
	s.sand.SpeedFactor = cfg.Sand.SpeedFactor
	s.sand.Jitter = cfg.Sand.Jitter
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Params returns the current excitation.
func (s *Session) Params() modal.Params { return s.params }

// Grid returns the last solved grid, or nil.
func (s *Session) Grid() *systems.Grid { return s.grid }

// Particles returns the live sand particles.
func (s *Session) Particles() []systems.Particle { return s.sand.Particles() }

// Scan returns the last response scan, or nil.
func (s *Session) Scan() *ScanView { return s.scan }

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// Animating reports whether sand migration is running.
func (s *Session) Animating() bool { return s.animating }

// ContinuousSand reports whether batches are being added on a timer.
func (s *Session) ContinuousSand() bool { return s.continuous }

// ShowBackground reports whether the intensity field should be drawn under the sand.
func (s *Session) ShowBackground() bool { return s.showBackground }

// SetShowBackground toggles drawing of the intensity field.
func (s *Session) SetShowBackground(v bool) { s.showBackground = v }

// SoundEnabled reports the sound toggle. The session only tracks it.
func (s *Session) SoundEnabled() bool { return s.soundEnabled }

// SetSoundEnabled toggles the sound flag.
func (s *Session) SetSoundEnabled(v bool) { s.soundEnabled = v }

// SetExcitation updates the driving point and damping used by the next solve.
func (s *Session) SetExcitation(x0, y0, gamma float64) {
	s.params.X0, s.params.Y0, s.params.Gamma = x0, y0, gamma
}

// Run solves the grid at wavenumber k and resumes the sand animation.
func (s *Session) Run(k float64) error {
	if s.sweep.active() {
		return ErrSweepRunning
	}
	s.paused = false
	s.stopAnimation()
	if err := s.solve(k, -1); err != nil {
		return err
	}
	s.startAnimation(s.clock())
	return nil
}

// JumpTo runs a solve at the wavenumber of a scan sample.
func (s *Session) JumpTo(e systems.Sample) error {
	return s.Run(e.K)
}

func (s *Session) solve(k float64, step int) error {
	s.phase(telemetry.PhaseSolve)
	s.params.K = k
	start := time.Now()
	g, err := systems.SolveGrid(s.params, s.cfg.Plate.GridSize)
	if err != nil {
		return fmt.Errorf("solving k=%g: %w", k, err)
	}
	s.grid = g
	s.solveSeq++

	f := telemetry.NewFrame(step, k, g, s.sand.Len(), time.Since(start))
	slog.Debug("solved", "frame", f)
	if s.sink != nil {
		if err := s.sink.WriteFrame(f); err != nil {
			slog.Warn("frame sink failed", "error", err)
		}
	}
	return nil
}

// Solves returns the number of completed grid solves.
func (s *Session) Solves() int { return s.solveSeq }

// GenerateSand appends the configured amount of random particles.
func (s *Session) GenerateSand() {
	s.AddSand(s.cfg.Sand.Amount)
}

// AddSand appends n random particles and starts the animation when possible.
func (s *Session) AddSand(n int) {
	s.sand.Spawn(n)
	if !s.paused && s.grid != nil {
		s.startAnimation(s.clock())
	}
}

// ClearSand removes all particles and stops animation and continuous generation.
func (s *Session) ClearSand() {
	s.sand.Clear()
	s.stopAnimation()
	s.StopContinuousSand()
}

// StartContinuousSand adds a batch every BatchInterval until stopped.
func (s *Session) StartContinuousSand() {
	if s.continuous {
		return
	}
	s.continuous = true
	s.lastBatch = s.clock()
}

// StopContinuousSand stops timed batch generation.
func (s *Session) StopContinuousSand() {
	s.continuous = false
}

// Pause freezes sand, continuous generation and any sweep timer.
func (s *Session) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.stopAnimation()
	s.sweep.pause(s.clock())
}

// Continue resumes from Pause. A paused sweep keeps its remaining delay.
func (s *Session) Continue() {
	if !s.paused {
		return
	}
	now := s.clock()
	s.paused = false
	s.lastBatch = now
	if s.sweep.active() {
		s.sweep.resume(now)
		if s.sweep.state == StateAwaitingStepDelay {
			s.startAnimation(now)
		}
		return
	}
	s.startAnimation(now)
}

// Update advances timers to now: the sweep, continuous sand and migration.
func (s *Session) Update(now time.Time) error {
	if s.paused {
		return nil
	}
	if err := s.advanceSweep(now); err != nil {
		return err
	}

	s.phase(telemetry.PhaseSand)
	if s.continuous {
		interval := s.cfg.Derived.BatchInterval
		if elapsed := now.Sub(s.lastBatch); elapsed >= interval {
			s.AddSand(s.cfg.Sand.BatchSize)
			s.lastBatch = now.Add(-remainder(elapsed, interval))
		}
	}
	if s.animating {
		interval := s.cfg.Derived.StepInterval
		if elapsed := now.Sub(s.lastStep); elapsed >= interval {
			s.sand.Step(s.grid)
			s.lastStep = now.Add(-remainder(elapsed, interval))
		}
	}
	return nil
}

func remainder(elapsed, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	return elapsed % interval
}

func (s *Session) startAnimation(now time.Time) {
	if s.animating || s.grid == nil || s.sand.Len() == 0 {
		return
	}
	s.animating = true
	s.lastStep = now
}

func (s *Session) stopAnimation() {
	s.animating = false
}

func (s *Session) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// PlotResponse scans the configured wavenumber range at the current
// excitation and keeps the result.
func (s *Session) PlotResponse(ctx context.Context) (*ScanView, error) {
	s.phase(telemetry.PhaseScan)
	sc := s.cfg.Scan
	p := s.params.WithModes(s.cfg.Plate.ResponseModeCount)

	res, err := systems.ScanContext(ctx, sc.KMin, sc.KMax, sc.KStep, p)
	if err != nil {
		return nil, fmt.Errorf("response scan: %w", err)
	}
	view := &ScanView{ScanResult: res}
	if sc.Refine {
		view.RefinedPeaks = refineAll(p, res.Peaks, systems.KindPeak, sc.KStep)
		view.RefinedTroughs = refineAll(p, res.Troughs, systems.KindTrough, sc.KStep)
	}
	s.scan = view
	slog.Info("response scan",
		"samples", len(res.Samples),
		"peaks", len(res.Peaks),
		"troughs", len(res.Troughs),
	)
	return view, nil
}

func refineAll(p modal.Params, coarse []systems.Sample, kind systems.ExtremumKind, width float64) []systems.Sample {
	out := make([]systems.Sample, len(coarse))
	for i, c := range coarse {
		r, err := systems.RefineExtremum(p, c, kind, width)
		if err != nil {
			slog.Warn("refinement failed", "kind", kind.String(), "k", c.K, "error", err)
			r = c
		}
		out[i] = r
	}
	return out
}

// Frequency maps the current wavenumber to the display pitch k²·C,
// clamped to the configured audible range.
func (s *Session) Frequency() float64 {
	snd := s.cfg.Sound
	f := s.params.K * s.params.K * snd.ConstantC
	return math.Min(snd.MaxFreq, math.Max(snd.MinFreq, f))
}

// Reset stops everything and restores the session's initial configuration.
func (s *Session) Reset() {
	s.sweep = sweep{}
	s.stopAnimation()
	s.StopContinuousSand()
	s.sand.Clear()
	s.applyConfig(s.base)
	s.grid = nil
	s.scan = nil
	s.paused = false
	s.showBackground = false
	s.soundEnabled = false
}

// Settings returns the user-adjustable parameters of the session.
func (s *Session) Settings() config.Settings {
	st := s.cfg.Settings()
	st.Excitation = config.ExcitationConfig{
		WaveNumber: s.params.K,
		X0:         s.params.X0,
		Y0:         s.params.Y0,
		Gamma:      s.params.Gamma,
	}
	st.ShowBackground = s.showBackground
	st.SoundEnabled = s.soundEnabled
	return st
}

// ApplySettings validates and installs st. The next solve uses it.
func (s *Session) ApplySettings(st config.Settings) error {
	cfg, err := s.cfg.ApplySettings(st)
	if err != nil {
		return err
	}
	s.applyConfig(cfg)
	s.showBackground = st.ShowBackground
	s.soundEnabled = st.SoundEnabled
	return nil
}

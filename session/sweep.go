package session

import (
	"fmt"
	"log/slog"
	"time"
)

// State is the phase of a stepped wavenumber sweep.
type State int

const (
	StateIdle State = iota
	StateSolving
	StateAwaitingStepDelay
	StatePaused
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSolving:
		return "solving"
	case StateAwaitingStepDelay:
		return "awaiting_step_delay"
	case StatePaused:
		return "paused"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// sweep schedules k_i = start + i·stepSize for i in [0, steps). Each step
// solves, waits the calculation delay in StateSolving, then shows the
// pattern for the step delay in StateAwaitingStepDelay.
type sweep struct {
	state    State
	resumeTo State

	start    float64
	stepSize float64
	steps    int
	index    int

	// solved is set once the grid for index exists.
	solved    bool
	deadline  time.Time
	remaining time.Duration

	stepDelay time.Duration
	calcDelay time.Duration
}

func (w *sweep) active() bool {
	return w.state == StateSolving || w.state == StateAwaitingStepDelay || w.state == StatePaused
}

func (w *sweep) k() float64 {
	return w.start + float64(w.index)*w.stepSize
}

func (w *sweep) pause(now time.Time) {
	if !w.active() || w.state == StatePaused {
		return
	}
	w.resumeTo = w.state
	w.remaining = max(w.deadline.Sub(now), 0)
	w.state = StatePaused
}

func (w *sweep) resume(now time.Time) {
	if w.state != StatePaused {
		return
	}
	w.state = w.resumeTo
	w.deadline = now.Add(w.remaining)
}

// StartSweep begins stepping from startK to endK over steps solves. The step
// delay is floored at the configured minimum.
func (s *Session) StartSweep(startK, endK float64, steps int, stepDelay time.Duration) error {
	if s.sweep.active() {
		return ErrSweepRunning
	}
	if steps < 1 {
		return fmt.Errorf("session: sweep needs at least one step, got %d", steps)
	}
	var stepSize float64
	if steps > 1 {
		stepSize = (endK - startK) / float64(steps-1)
	}
	minDelay := seconds(s.cfg.Sweep.MinStepDelay)
	s.sweep = sweep{
		state:     StateSolving,
		start:     startK,
		stepSize:  stepSize,
		steps:     steps,
		stepDelay: max(stepDelay, minDelay),
		calcDelay: s.cfg.Derived.CalculationDelay,
	}
	s.paused = false
	slog.Info("sweep started",
		"start_k", startK,
		"end_k", endK,
		"steps", steps,
		"step_delay", s.sweep.stepDelay,
	)
	return nil
}

// StartConfiguredSweep runs a sweep from the current wavenumber to the
// configured maximum.
func (s *Session) StartConfiguredSweep() error {
	sw := s.cfg.Sweep
	return s.StartSweep(s.params.K, sw.MaxWaveNumber, sw.Steps, seconds(sw.StepDelay))
}

// Cancel stops a sweep promptly. The last solved grid and sand are kept.
func (s *Session) Cancel() {
	if !s.sweep.active() {
		return
	}
	slog.Info("sweep cancelled", "step", s.sweep.index, "k", s.params.K)
	s.sweep.state = StateCancelled
}

// Sweeping reports whether a sweep is running or paused mid-way.
func (s *Session) Sweeping() bool { return s.sweep.active() }

// SweepState returns the current sweep phase.
func (s *Session) SweepState() State { return s.sweep.state }

// SweepProgress returns the zero-based step index and the step count.
func (s *Session) SweepProgress() (step, steps int) {
	return s.sweep.index, s.sweep.steps
}

// advanceSweep runs at most one solve per call.
func (s *Session) advanceSweep(now time.Time) error {
	w := &s.sweep
	switch w.state {
	case StateSolving:
		if !w.solved {
			s.stopAnimation()
			slog.Debug("sweep step", "step", w.index+1, "steps", w.steps, "k", w.k())
			if err := s.solve(w.k(), w.index); err != nil {
				w.state = StateIdle
				return err
			}
			w.solved = true
			w.deadline = now.Add(w.calcDelay)
			return nil
		}
		if now.Before(w.deadline) {
			return nil
		}
		s.startAnimation(now)
		w.state = StateAwaitingStepDelay
		w.deadline = now.Add(w.stepDelay)

	case StateAwaitingStepDelay:
		if now.Before(w.deadline) {
			return nil
		}
		w.index++
		w.solved = false
		if w.index >= w.steps {
			s.stopAnimation()
			w.state = StateIdle
			slog.Info("sweep finished", "steps", w.steps, "k", s.params.K)
			return nil
		}
		w.state = StateSolving
		return s.advanceSweep(now)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

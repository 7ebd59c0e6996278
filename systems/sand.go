package systems

import (
	"math/rand"
)

// Sand migration constants.
const (
	SandSpeedFactor = 0.005 // displacement per probe step
	SandJitter      = 0.001 // full width of the uniform per-axis noise
	probeScale      = 1.5   // probe distance in grid cells
)

// Particle is a grain of sand in normalized plate coordinates [0,1]².
type Particle struct {
	X, Y float64
}

// Sand is an ordered collection of particles migrating toward intensity
// minima. Particles keep their append order.
type Sand struct {
	particles []Particle
	rng       *rand.Rand

	SpeedFactor float64
	Jitter      float64
}

// NewSand creates an empty particle set drawing positions and jitter from rng.
func NewSand(rng *rand.Rand) *Sand {
	return &Sand{
		rng:         rng,
		SpeedFactor: SandSpeedFactor,
		Jitter:      SandJitter,
	}
}

// Spawn appends n uniformly distributed particles.
func (s *Sand) Spawn(n int) {
	for i := 0; i < n; i++ {
		s.particles = append(s.particles, Particle{X: s.rng.Float64(), Y: s.rng.Float64()})
	}
}

// Add appends the given particles.
func (s *Sand) Add(ps ...Particle) {
	s.particles = append(s.particles, ps...)
}

// Clear removes every particle.
func (s *Sand) Clear() {
	s.particles = s.particles[:0]
}

// Len returns the particle count.
func (s *Sand) Len() int {
	return len(s.particles)
}

// Particles returns the current particles. The slice is owned by s.
func (s *Sand) Particles() []Particle {
	return s.particles
}

// Step advances every particle one migration step over g and returns the
// number of particles that moved.
func (s *Sand) Step(g *Grid) int {
	return migrate(s.particles, g, s.rng, s.SpeedFactor, s.Jitter)
}

// StepParticles advances particles one migration step over g in place and
// returns the same slice.
func StepParticles(particles []Particle, g *Grid, rng *rand.Rand) []Particle {
	migrate(particles, g, rng, SandSpeedFactor, SandJitter)
	return particles
}

// migrate moves each particle toward the lowest of its 8 probe neighbours
// when that neighbour is strictly lower than the particle's own cell. Scan
// order is dx outer, dy inner, from -step to +step; ties keep the first.
func migrate(particles []Particle, g *Grid, rng *rand.Rand, speed, jitter float64) int {
	if g == nil || len(particles) == 0 {
		return 0
	}

	step := probeScale / float64(g.Size)
	moved := 0

	for idx := range particles {
		p := &particles[idx]

		lowest := g.Sample(p.X, p.Y)
		var moveX, moveY float64
		found := false

		for ox := -1; ox <= 1; ox++ {
			dx := float64(ox) * step
			for oy := -1; oy <= 1; oy++ {
				if ox == 0 && oy == 0 {
					continue
				}
				dy := float64(oy) * step
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx > 1 || ny < 0 || ny > 1 {
					continue
				}
				if v := g.Sample(nx, ny); v < lowest {
					lowest = v
					moveX, moveY = dx, dy
					found = true
				}
			}
		}

		if !found {
			continue
		}

		p.X = clamp01(p.X + moveX*speed + (rng.Float64()-0.5)*jitter)
		p.Y = clamp01(p.Y + moveY*speed + (rng.Float64()-0.5)*jitter)
		moved++
	}
	return moved
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

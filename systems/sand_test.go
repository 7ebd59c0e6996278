package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/chladni/modal"
)

// bowlGrid returns a grid whose values grow with L1 distance from cell (ci,cj).
func bowlGrid(t *testing.T, size, ci, cj int) *Grid {
	t.Helper()
	values := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			d := math.Abs(float64(i-ci)) + math.Abs(float64(j-cj))
			values[i*size+j] = d / float64(2*size)
		}
	}
	g, err := NewGrid(size, values)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// rampGrid returns a grid whose values depend only on the x index.
func rampGrid(t *testing.T, size int) *Grid {
	t.Helper()
	values := make([]float64, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			values[i*size+j] = float64(i) / float64(size)
		}
	}
	g, err := NewGrid(size, values)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSandSpawnIsDeterministic(t *testing.T) {
	a := NewSand(rand.New(rand.NewSource(7)))
	b := NewSand(rand.New(rand.NewSource(7)))
	a.Spawn(50)
	b.Spawn(30)
	b.Spawn(20)

	if a.Len() != 50 || b.Len() != 50 {
		t.Fatalf("expected 50 particles each, got %d and %d", a.Len(), b.Len())
	}
	for i := range a.Particles() {
		if a.Particles()[i] != b.Particles()[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a.Particles()[i], b.Particles()[i])
		}
		p := a.Particles()[i]
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Errorf("spawned particle %d outside plate: %+v", i, p)
		}
	}
}

func TestSandClear(t *testing.T) {
	s := NewSand(rand.New(rand.NewSource(1)))
	s.Spawn(10)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty sand after Clear, got %d", s.Len())
	}
	s.Add(Particle{X: 0.2, Y: 0.3})
	if s.Len() != 1 || s.Particles()[0] != (Particle{X: 0.2, Y: 0.3}) {
		t.Errorf("unexpected particles after Add: %+v", s.Particles())
	}
}

func TestStepNoGridIsNoop(t *testing.T) {
	s := NewSand(rand.New(rand.NewSource(1)))
	s.Spawn(5)
	before := append([]Particle(nil), s.Particles()...)

	if moved := s.Step(nil); moved != 0 {
		t.Errorf("expected no movement without grid, got %d", moved)
	}
	for i, p := range s.Particles() {
		if p != before[i] {
			t.Errorf("particle %d moved without grid", i)
		}
	}

	empty := NewSand(rand.New(rand.NewSource(1)))
	if moved := empty.Step(rampGrid(t, 10)); moved != 0 {
		t.Errorf("expected no movement without particles, got %d", moved)
	}
}

func TestParticleAtLocalMinimumStays(t *testing.T) {
	g := bowlGrid(t, 10, 5, 5)
	start := Particle{X: 0.55, Y: 0.55}
	particles := []Particle{start}

	for tick := 0; tick < 20; tick++ {
		particles = StepParticles(particles, g, rand.New(rand.NewSource(int64(tick))))
		if particles[0] != start {
			t.Fatalf("tick %d: particle at minimum moved to %+v", tick, particles[0])
		}
	}
}

func TestParticleMovesDownhillWithTieBreak(t *testing.T) {
	g := rampGrid(t, 10)
	particles := []Particle{{X: 0.5, Y: 0.5}}
	StepParticles(particles, g, rand.New(rand.NewSource(3)))

	// All three left neighbours tie; the scan reaches (-step,-step) first.
	step := probeScale / 10
	wantX := 0.5 - step*SandSpeedFactor
	wantY := 0.5 - step*SandSpeedFactor
	p := particles[0]
	if math.Abs(p.X-wantX) > SandJitter/2 {
		t.Errorf("x = %v, want %v ± %v", p.X, wantX, SandJitter/2)
	}
	if math.Abs(p.Y-wantY) > SandJitter/2 {
		t.Errorf("y = %v, want %v ± %v", p.Y, wantY, SandJitter/2)
	}
}

func TestSandConvergesTowardMinimum(t *testing.T) {
	g := bowlGrid(t, 20, 10, 10)
	s := NewSand(rand.New(rand.NewSource(11)))
	s.Add(Particle{X: 0.2, Y: 0.8})

	startDist := math.Hypot(0.2-0.5, 0.8-0.5)
	for i := 0; i < 1000; i++ {
		s.Step(g)
	}
	p := s.Particles()[0]
	if d := math.Hypot(p.X-0.5, p.Y-0.5); d >= startDist/2 {
		t.Errorf("particle did not approach minimum: distance %v (start %v)", d, startDist)
	}
}

func TestParticlesStayOnPlate(t *testing.T) {
	g, err := SolveGrid(modal.DefaultParams(), 40)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSand(rand.New(rand.NewSource(99)))
	s.Spawn(300)
	s.Add(Particle{0, 0}, Particle{1, 1}, Particle{0, 1}, Particle{1, 0})

	for tick := 0; tick < 200; tick++ {
		s.Step(g)
		for i, p := range s.Particles() {
			if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
				t.Fatalf("tick %d: particle %d left the plate: %+v", tick, i, p)
			}
		}
	}
}

func TestParticlesSettleOnNodalLines(t *testing.T) {
	g, err := SolveGrid(modal.DefaultParams(), 60)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSand(rand.New(rand.NewSource(5)))
	s.Spawn(400)

	mean := func() float64 {
		var sum float64
		for _, p := range s.Particles() {
			sum += g.Sample(p.X, p.Y)
		}
		return sum / float64(s.Len())
	}

	before := mean()
	for tick := 0; tick < 300; tick++ {
		s.Step(g)
	}
	if after := mean(); after >= before {
		t.Errorf("mean intensity under sand did not drop: before %v, after %v", before, after)
	}
}

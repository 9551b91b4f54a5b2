package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/funny233-github/paticle-life/internal/particle"
)

func pop(speeds ...float64) []particle.Particle {
	ps := make([]particle.Particle, len(speeds))
	for i, s := range speeds {
		ps[i] = particle.Particle{Vel: mgl64.Vec2{s, 0}}
	}
	return ps
}

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()
	if m.Value() != 0 || m.Latest() != 0 {
		t.Fatal("fresh metric must read zero")
	}

	m.Observe(pop(2, 4), 0.1)
	if m.Latest() != 3 {
		t.Fatalf("latest = %v, want 3", m.Latest())
	}
	m.Observe(pop(1, 1), 0.2)
	if m.Latest() != 1 {
		t.Fatalf("latest = %v, want 1", m.Latest())
	}
	if m.Value() != 2 {
		t.Fatalf("running mean = %v, want 2", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Latest() != 0 {
		t.Fatal("reset did not clear the metric")
	}
}

func TestMeanSpeedEmptyPopulation(t *testing.T) {
	m := NewMeanSpeed()
	m.Observe(nil, 0.1)
	if m.Latest() != 0 || m.Value() != 0 {
		t.Fatalf("empty population: latest %v value %v", m.Latest(), m.Value())
	}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	ps := []particle.Particle{
		{Vel: mgl64.Vec2{3, 4}}, // |v|^2 = 25
		{Vel: mgl64.Vec2{0, 2}}, // |v|^2 = 4
	}
	m.Observe(ps, 0.1)
	if want := 0.5*25 + 0.5*4; math.Abs(m.Latest()-want) > 1e-12 {
		t.Fatalf("latest = %v, want %v", m.Latest(), want)
	}

	m.Observe(nil, 0.2)
	if m.Latest() != 0 {
		t.Fatalf("latest after empty step = %v", m.Latest())
	}
	if want := (14.5 + 0) / 2; math.Abs(m.Value()-want) > 1e-12 {
		t.Fatalf("mean = %v, want %v", m.Value(), want)
	}
}

func TestMaxSpeedPersistsAcrossSteps(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe(pop(1, 5), 0.1)
	m.Observe(pop(2), 0.2)
	if m.Value() != 5 {
		t.Fatalf("max = %v, want 5", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Fatal("reset did not clear the metric")
	}
}

func TestMetricNames(t *testing.T) {
	names := map[string]bool{
		NewMeanSpeed().Name():     true,
		NewKineticEnergy().Name(): true,
		NewMaxSpeed().Name():      true,
	}
	if len(names) != 3 {
		t.Fatalf("metric names collide: %v", names)
	}
}

// Package metrics provides aggregate per-step statistics over the
// particle population. Metrics observe whole populations, never
// individual trajectories.
package metrics

import (
	"math"

	"github.com/funny233-github/paticle-life/internal/particle"
)

// MeanSpeed tracks the average particle speed of the latest observed
// step and the running mean across all observed steps.
type MeanSpeed struct {
	latest  float64
	total   float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(ps []particle.Particle, t float64) {
	if len(ps) == 0 {
		m.latest = 0
		return
	}
	sum := 0.0
	for i := range ps {
		sum += ps[i].Vel.Len()
	}
	m.latest = sum / float64(len(ps))
	m.total += m.latest
	m.samples++
}

// Latest returns the mean speed of the most recent step.
func (m *MeanSpeed) Latest() float64 { return m.latest }

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.latest = 0
	m.total = 0
	m.samples = 0
}

// KineticEnergy tracks the mean total kinetic energy per step with
// unit particle mass.
type KineticEnergy struct {
	latest  float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (m *KineticEnergy) Name() string { return "kinetic_energy" }

func (m *KineticEnergy) Observe(ps []particle.Particle, t float64) {
	sum := 0.0
	for i := range ps {
		v2 := ps[i].Vel.Dot(ps[i].Vel)
		sum += 0.5 * v2
	}
	m.latest = sum
	m.total += sum
	m.samples++
}

func (m *KineticEnergy) Latest() float64 { return m.latest }

func (m *KineticEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *KineticEnergy) Reset() {
	m.latest = 0
	m.total = 0
	m.samples = 0
}

// MaxSpeed records the fastest particle speed seen over the run.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(ps []particle.Particle, t float64) {
	for i := range ps {
		m.max = math.Max(m.max, ps[i].Vel.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

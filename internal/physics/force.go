// Package physics implements the per-frame force evaluation and
// integration for the particle simulation.
package physics

import (
	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
)

// Coincident particles contribute no force rather than dividing by
// zero when normalizing the displacement.
const epsilon = 1e-9

// PairForce returns the signed force magnitude between a target
// particle of type pt and a source of type qt at distance r, along the
// direction from target to source. Positive pulls the target toward
// the source, negative pushes it away.
//
// The profile has three zones:
//
//	r < d1        hard-core repulsion RepelForce*(1 - r/d1), type
//	              independent and never attractive;
//	d1 <= r < d3  the table coefficient scaled by a triangular shape
//	              that is zero at d1 and d3 and peaks at d2, rising as
//	              (r-d1)/(d2-d1) and falling as (d3-r)/(d3-d2);
//	r >= d3       exactly zero, which is what makes the spatial cutoff
//	              an exact optimization rather than an approximation.
func PairForce(pt, qt particle.Type, r float64, table *interaction.Table, cfg *config.Config) float64 {
	switch {
	case r < cfg.D1:
		return -cfg.RepelForce * (1 - r/cfg.D1)
	case r >= cfg.D3:
		return 0
	}

	var shape float64
	if r < cfg.D2 {
		shape = (r - cfg.D1) / (cfg.D2 - cfg.D1)
	} else {
		shape = (cfg.D3 - r) / (cfg.D3 - cfg.D2)
	}
	return table.Get(pt, qt) * shape
}

// wrapDelta maps a 1D displacement onto the shortest toroidal image,
// so forces act across the map seam instead of around it.
func wrapDelta(d, size float64) float64 {
	if d > size/2 {
		return d - size
	}
	if d < -size/2 {
		return d + size
	}
	return d
}

// wrapCoord maps a coordinate into [0, size).
func wrapCoord(x, size float64) float64 {
	for x < 0 {
		x += size
	}
	for x >= size {
		x -= size
	}
	return x
}

package particle

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

// Particle is the full per-particle simulation state. Identity is the
// index within the store for the duration of an epoch; relationships
// between particles are purely distance based and recomputed each
// frame, so no persistent ID is kept.
type Particle struct {
	Pos  mgl64.Vec2
	Vel  mgl64.Vec2
	Type Type
}

// Placement selects how spawn positions and types are distributed.
type Placement int

const (
	// PlaceUniform draws position and type independently at random.
	PlaceUniform Placement = iota
	// PlaceClustered assigns types from a Perlin noise field over the
	// map, so particles of the same type start in loose islands.
	PlaceClustered
)

// SpawnOptions controls bulk particle creation.
type SpawnOptions struct {
	Width     float64
	Height    float64
	Placement Placement
}

const (
	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinDepth  = 3
	perlinPeriod = 4.0 // noise features per map axis
)

// Store is the authoritative particle collection. It keeps a second
// buffer of equal length so a physics step can write next-state values
// without disturbing the positions it is still reading.
type Store struct {
	front []Particle
	back  []Particle
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the current population size.
func (s *Store) Len() int { return len(s.front) }

// Particles exposes the live particle slice. Callers must not hold the
// slice across a Swap.
func (s *Store) Particles() []Particle { return s.front }

// Scratch exposes the next-state buffer, always sized to Len.
func (s *Store) Scratch() []Particle { return s.back }

// Swap promotes the scratch buffer to the live population.
func (s *Store) Swap() {
	s.front, s.back = s.back, s.front
}

// Spawn bulk-creates n particles with random positions inside the
// map and zero velocity, replacing nothing. rng drives every draw so
// a fixed seed reproduces the population exactly.
func (s *Store) Spawn(n int, opts SpawnOptions, rng *rand.Rand) {
	var noise *perlin.Perlin
	if opts.Placement == PlaceClustered {
		noise = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinDepth, rng.Int63())
	}

	for i := 0; i < n; i++ {
		x := rng.Float64() * opts.Width
		y := rng.Float64() * opts.Height

		var t Type
		if noise != nil {
			// Map noise in [-1,1] onto the ordinal range. Neighboring
			// positions sample similar values, which forms clusters.
			v := noise.Noise2D(x/opts.Width*perlinPeriod, y/opts.Height*perlinPeriod)
			idx := int((v + 1) / 2 * TypeCount)
			if idx < 0 {
				idx = 0
			}
			if idx >= TypeCount {
				idx = TypeCount - 1
			}
			t = Type(idx)
		} else {
			t = Type(rng.Intn(TypeCount))
		}

		s.front = append(s.front, Particle{
			Pos:  mgl64.Vec2{x, y},
			Type: t,
		})
	}
	s.grow()
}

// Respawn discards the entire population and spawns a fresh one. The
// replacement is atomic from a caller's perspective: the store never
// holds a partially replaced population.
func (s *Store) Respawn(n int, opts SpawnOptions, rng *rand.Rand) {
	next := &Store{}
	next.Spawn(n, opts, rng)
	*s = *next
}

// Reset replaces the population with a copy of ps.
func (s *Store) Reset(ps []Particle) {
	s.front = append(s.front[:0], ps...)
	s.grow()
}

// grow keeps the scratch buffer the same length as the population.
func (s *Store) grow() {
	if len(s.back) < len(s.front) {
		s.back = append(s.back, make([]Particle, len(s.front)-len(s.back))...)
	}
	s.back = s.back[:len(s.front)]
}

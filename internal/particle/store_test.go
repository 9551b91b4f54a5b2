package particle

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSpawnWithinBounds(t *testing.T) {
	s := NewStore()
	opts := SpawnOptions{Width: 500, Height: 250}
	s.Spawn(1000, opts, rand.New(rand.NewSource(1)))

	if s.Len() != 1000 {
		t.Fatalf("expected 1000 particles, got %d", s.Len())
	}
	for i, p := range s.Particles() {
		x, y := p.Pos.X(), p.Pos.Y()
		if x < 0 || x >= opts.Width || y < 0 || y >= opts.Height {
			t.Fatalf("particle %d at (%f, %f) outside map", i, x, y)
		}
		if p.Vel.Len() != 0 {
			t.Fatalf("particle %d spawned with velocity", i)
		}
		if !p.Type.Valid() {
			t.Fatalf("particle %d has invalid type %v", i, p.Type)
		}
	}
}

func TestSpawnReproducible(t *testing.T) {
	opts := SpawnOptions{Width: 100, Height: 100}

	a := NewStore()
	a.Spawn(50, opts, rand.New(rand.NewSource(7)))
	b := NewStore()
	b.Spawn(50, opts, rand.New(rand.NewSource(7)))

	for i := range a.Particles() {
		if a.Particles()[i] != b.Particles()[i] {
			t.Fatalf("particle %d differs between identically seeded spawns", i)
		}
	}
}

func TestSpawnClustered(t *testing.T) {
	s := NewStore()
	opts := SpawnOptions{Width: 1000, Height: 1000, Placement: PlaceClustered}
	s.Spawn(2000, opts, rand.New(rand.NewSource(3)))

	if s.Len() != 2000 {
		t.Fatalf("expected 2000 particles, got %d", s.Len())
	}
	for i, p := range s.Particles() {
		if !p.Type.Valid() {
			t.Fatalf("particle %d has invalid type %v", i, p.Type)
		}
	}
}

func TestRespawnReplacesPopulation(t *testing.T) {
	s := NewStore()
	opts := SpawnOptions{Width: 100, Height: 100}
	rng := rand.New(rand.NewSource(1))
	s.Spawn(10, opts, rng)
	before := append([]Particle(nil), s.Particles()...)

	s.Respawn(25, opts, rng)

	if s.Len() != 25 {
		t.Fatalf("expected 25 particles after respawn, got %d", s.Len())
	}
	if len(s.Scratch()) != 25 {
		t.Fatalf("scratch buffer not resized, got %d", len(s.Scratch()))
	}
	// Old particles must be gone, not appended to.
	same := 0
	for i := 0; i < 10; i++ {
		if s.Particles()[i] == before[i] {
			same++
		}
	}
	if same == 10 {
		t.Error("respawn kept the previous population")
	}
}

func TestResetAndSwap(t *testing.T) {
	s := NewStore()
	s.Reset([]Particle{
		{Pos: mgl64.Vec2{1, 2}, Type: Red},
		{Pos: mgl64.Vec2{3, 4}, Type: Blue},
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 particles, got %d", s.Len())
	}
	s.Scratch()[0] = Particle{Pos: mgl64.Vec2{9, 9}, Type: Green}
	s.Swap()
	if s.Particles()[0].Type != Green {
		t.Error("swap did not promote scratch buffer")
	}
	if s.Len() != 2 {
		t.Errorf("swap changed population size to %d", s.Len())
	}
}

func TestSpawnZero(t *testing.T) {
	s := NewStore()
	s.Spawn(0, SpawnOptions{Width: 10, Height: 10}, rand.New(rand.NewSource(1)))
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

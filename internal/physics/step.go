package physics

import (
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/grid"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
)

// minChunk is the smallest per-worker slice worth the goroutine
// overhead when parallelizing the force pass.
const minChunk = 256

// Step advances the population by one frame: rebuild the spatial
// index, accumulate forces per particle, integrate velocity and
// position, wrap at the boundary. All writes land in the store's
// scratch buffer and are swapped in at the end, so every particle's
// force is computed against the same pre-step positions regardless of
// worker interleaving. The population size never changes.
func Step(store *particle.Store, table *interaction.Table, cfg config.Config, g *grid.Grid) {
	ps := store.Particles()
	next := store.Scratch()

	g.Reset(cfg.MapWidth, cfg.MapHeight, cfg.D3)
	for i := range ps {
		g.Insert(ps[i].Pos.X(), ps[i].Pos.Y(), i)
	}

	decay := math.Pow(0.5, cfg.Dt/cfg.HalfLife)

	parallelFor(len(ps), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			p := ps[i]
			acc := accumulate(i, ps, table, &cfg, g)

			vel := p.Vel.Mul(decay).Add(acc.Mul(cfg.Dt))
			pos := p.Pos.Add(vel.Mul(cfg.Dt))
			pos = mgl64.Vec2{
				wrapCoord(pos.X(), cfg.MapWidth),
				wrapCoord(pos.Y(), cfg.MapHeight),
			}

			next[i] = particle.Particle{Pos: pos, Vel: vel, Type: p.Type}
		}
	})

	store.Swap()
}

// accumulate sums the force contributions on particle i from every
// neighbor the grid yields. Neighbors at or beyond D3 contribute
// nothing, so the 3x3 cell query is exhaustive.
func accumulate(i int, ps []particle.Particle, table *interaction.Table, cfg *config.Config, g *grid.Grid) mgl64.Vec2 {
	p := ps[i]
	cutoff2 := cfg.D3 * cfg.D3

	var ax, ay float64
	g.ForNeighbors(p.Pos.X(), p.Pos.Y(), func(j int) {
		if j == i {
			return
		}
		q := ps[j]

		dx := wrapDelta(q.Pos.X()-p.Pos.X(), cfg.MapWidth)
		dy := wrapDelta(q.Pos.Y()-p.Pos.Y(), cfg.MapHeight)
		r2 := dx*dx + dy*dy
		if r2 >= cutoff2 {
			return
		}

		r := math.Sqrt(r2)
		if r < epsilon {
			return
		}

		f := PairForce(p.Type, q.Type, r, table, cfg)
		inv := f / r
		ax += dx * inv
		ay += dy * inv
	})

	return mgl64.Vec2{ax, ay}
}

// parallelFor splits [0, n) into contiguous chunks across workers.
// Chunks never overlap, so each worker owns a disjoint slice of the
// scratch buffer and no synchronization is needed beyond the join.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

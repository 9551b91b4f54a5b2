// Package sim owns the authoritative simulation state and the frame
// loop contract: one step at a time, external mutation applied only at
// frame boundaries.
package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/grid"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
	"github.com/funny233-github/paticle-life/internal/physics"
)

// Observer is notified after each executed physics step.
type Observer interface {
	OnStep(ps []particle.Particle, step int, t float64)
}

// Metric accumulates a scalar statistic over executed steps.
type Metric interface {
	Name() string
	Observe(ps []particle.Particle, t float64)
	Value() float64
	Reset()
}

// Engine advances a single authoritative population. Steps never
// overlap; within a step the force pass runs in parallel over disjoint
// chunks of a scratch buffer. External mutation lands in a queue (or,
// for scalar config writes, behind the state mutex) and takes effect
// at the start of the next step, so one frame always runs against a
// single config snapshot and a single interaction table.
type Engine struct {
	// mu guards cfg, table, paused and the pending queue. Step holds
	// it only while draining the queue and taking snapshots, never
	// during the physics pass itself.
	mu      sync.Mutex
	pending []func(*Engine)

	cfg       config.Config
	table     *interaction.Table
	store     *particle.Store
	grid      *grid.Grid
	rng       *rand.Rand
	placement particle.Placement
	paused    bool

	step int
	time float64

	metrics   []Metric
	observers []Observer
}

// New validates cfg, spawns the initial population and returns a ready
// engine. The seed drives spawning and interaction randomization.
func New(cfg config.Config, table *interaction.Table, placement particle.Placement, seed int64) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = interaction.New()
	}

	e := &Engine{
		cfg:       cfg,
		table:     table,
		store:     particle.NewStore(),
		grid:      grid.New(),
		rng:       rand.New(rand.NewSource(seed)),
		placement: placement,
	}
	e.store.Spawn(cfg.ParticleCount, e.spawnOptions(), e.rng)
	return e, nil
}

func (e *Engine) spawnOptions() particle.SpawnOptions {
	return particle.SpawnOptions{
		Width:     e.cfg.MapWidth,
		Height:    e.cfg.MapHeight,
		Placement: e.placement,
	}
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Step drains the mutation queue, then advances the simulation by one
// frame unless paused. It returns true when a physics step executed.
// Step must not be called concurrently with itself.
func (e *Engine) Step() bool {
	e.mu.Lock()
	for _, fn := range e.pending {
		fn(e)
	}
	e.pending = e.pending[:0]

	paused := e.paused
	snap := e.cfg.Snapshot()
	table := e.table
	e.mu.Unlock()

	if paused {
		return false
	}

	physics.Step(e.store, table, snap, e.grid)

	e.step++
	e.time += snap.Dt

	ps := e.store.Particles()
	for _, m := range e.metrics {
		m.Observe(ps, e.time)
	}
	for _, o := range e.observers {
		o.OnStep(ps, e.step, e.time)
	}
	return true
}

// Run executes up to steps frames, stopping early when ctx is
// canceled. Paused frames still count toward steps.
func (e *Engine) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.Step()
	}
	return nil
}

// Enqueue schedules fn to run with exclusive state access before the
// next physics step. fn runs with the engine lock held and must not
// call Enqueue or the typed mutators itself.
func (e *Engine) Enqueue(fn func(*Engine)) {
	e.mu.Lock()
	e.pending = append(e.pending, fn)
	e.mu.Unlock()
}

// SetPaused pauses or resumes stepping. A paused engine keeps all
// state intact and keeps draining its mutation queue.
func (e *Engine) SetPaused(paused bool) {
	e.Enqueue(func(e *Engine) { e.paused = paused })
}

// TogglePause flips the pause state.
func (e *Engine) TogglePause() {
	e.Enqueue(func(e *Engine) { e.paused = !e.paused })
}

// Respawn discards the whole population and spawns a fresh one from
// the config active at the time the request is applied. No step ever
// observes a partially replaced population.
func (e *Engine) Respawn() {
	e.Enqueue(func(e *Engine) {
		e.store.Respawn(e.cfg.ParticleCount, e.spawnOptions(), e.rng)
	})
}

// SetInteraction overwrites one interaction cell. The live table is
// never mutated in place: a copy is modified and swapped in, so an
// in-flight frame keeps the table it captured.
func (e *Engine) SetInteraction(target, source particle.Type, value float64) {
	e.Enqueue(func(e *Engine) {
		next := e.table.Clone()
		next.Set(target, source, value)
		e.table = next
	})
}

// RandomizeInteractions re-rolls every cell uniformly in [-limit, limit].
func (e *Engine) RandomizeInteractions(limit float64) {
	e.Enqueue(func(e *Engine) {
		next := interaction.New()
		next.Randomize(limit, e.rng)
		e.table = next
	})
}

// ResetInteractions replaces the whole table. Callers load and
// validate the replacement first; a failed load therefore never
// disturbs the live table.
func (e *Engine) ResetInteractions(table *interaction.Table) {
	snapshot := table.Clone()
	e.Enqueue(func(e *Engine) {
		e.table = snapshot
	})
}

// UpdateConfig applies a validated config mutation. The update
// function receives a copy; an error, or a mutation that breaks
// Validate, leaves the live config untouched. Accepted writes become
// visible to the physics step at the next frame boundary.
func (e *Engine) UpdateConfig(update func(*config.Config) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	staged := e.cfg
	if err := update(&staged); err != nil {
		return err
	}
	if err := staged.Validate(); err != nil {
		return err
	}
	e.cfg = staged
	return nil
}

// Particles returns the live population. Valid until the next Step.
func (e *Engine) Particles() []particle.Particle { return e.store.Particles() }

// Count returns the current population size.
func (e *Engine) Count() int { return e.store.Len() }

// Config returns a snapshot of the live config.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Snapshot()
}

// Table returns a copy of the live interaction table.
func (e *Engine) Table() *interaction.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Clone()
}

// Paused reports whether stepping is currently suspended. Queued pause
// requests are not reflected until the next Step drains them.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// StepCount returns the number of executed physics steps.
func (e *Engine) StepCount() int { return e.step }

// Time returns accumulated simulation time.
func (e *Engine) Time() float64 { return e.time }

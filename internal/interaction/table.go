// Package interaction stores the per-type-pair force coefficients that
// drive attraction and repulsion between particles.
package interaction

import (
	"math/rand"

	"github.com/funny233-github/paticle-life/internal/particle"
)

// Table is a dense matrix of signed interaction coefficients indexed
// by [target][source]: Get(a, b) is the coefficient applied to a
// target particle of type a when a source particle of type b sits in
// its interaction zone. The matrix is asymmetric and every cell is
// defined, which keeps the hot-path lookup a plain array access.
type Table struct {
	cells [particle.TypeCount][particle.TypeCount]float64
}

// New returns a table with every coefficient zero.
func New() *Table {
	return &Table{}
}

// Get returns the coefficient a source particle exerts on a target
// particle. Positive attracts, negative repels, zero is inert.
func (t *Table) Get(target, source particle.Type) float64 {
	return t.cells[target][source]
}

// Set overwrites one cell. Any finite value is accepted.
func (t *Table) Set(target, source particle.Type, value float64) {
	t.cells[target][source] = value
}

// Randomize overwrites every cell with an independent uniform draw
// from [-limit, limit]. A fixed rng seed reproduces the same matrix.
func (t *Table) Randomize(limit float64, rng *rand.Rand) {
	for i := range t.cells {
		for j := range t.cells[i] {
			t.cells[i][j] = (rng.Float64()*2 - 1) * limit
		}
	}
}

// Reset replaces every cell with the values from src.
func (t *Table) Reset(src *Table) {
	t.cells = src.cells
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	c := *t
	return &c
}

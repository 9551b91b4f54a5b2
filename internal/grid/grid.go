// Package grid provides a uniform spatial partition over the wrapping
// simulation map. It is rebuilt from scratch every frame and answers
// neighbor queries by visiting the 3x3 cell block around a position.
package grid

import "math"

// Grid buckets particle indices into uniform cells. The cell side must
// be at least the interaction cutoff so that any two particles closer
// than the cutoff land in the same or an adjacent cell; that is the
// invariant that lets the force pass skip every non-adjacent cell.
type Grid struct {
	cellW float64
	cellH float64
	cols  int
	rows  int
	cells [][]int
}

// New returns an empty grid. Call Reset before the first Insert.
func New() *Grid {
	return &Grid{}
}

// Reset sizes the grid for a map of width x height with the given
// minimum cell side and clears all buckets. Cell memory is kept
// between frames to avoid reallocating every rebuild.
func (g *Grid) Reset(width, height, minCell float64) {
	cols := int(math.Floor(width / minCell))
	rows := int(math.Floor(height / minCell))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if cols != g.cols || rows != g.rows {
		g.cols, g.rows = cols, rows
		g.cells = make([][]int, cols*rows)
	} else {
		for i := range g.cells {
			g.cells[i] = g.cells[i][:0]
		}
	}

	// Cells divide the map exactly so wrapped coordinates always map
	// to a valid cell. Flooring the count keeps every cell >= minCell.
	g.cellW = width / float64(cols)
	g.cellH = height / float64(rows)
}

// Cols returns the number of columns in the current layout.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows in the current layout.
func (g *Grid) Rows() int { return g.rows }

// Insert adds a particle index at a wrapped map position.
func (g *Grid) Insert(x, y float64, index int) {
	col, row := g.cell(x, y)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], index)
}

// ForNeighbors calls fn with the index of every particle in the 3x3
// cell neighborhood around (x, y), wrapping at the map edges. On small
// maps where fewer than three columns or rows exist, each cell is
// still visited at most once.
func (g *Grid) ForNeighbors(x, y float64, fn func(index int)) {
	col, row := g.cell(x, y)

	rSpan := span(g.rows)
	cSpan := span(g.cols)

	for _, dr := range rSpan {
		r := wrap(row+dr, g.rows)
		base := r * g.cols
		for _, dc := range cSpan {
			c := wrap(col+dc, g.cols)
			for _, idx := range g.cells[base+c] {
				fn(idx)
			}
		}
	}
}

func (g *Grid) cell(x, y float64) (col, row int) {
	col = int(x / g.cellW)
	row = int(y / g.cellH)
	// Positions sit in [0, size), but float rounding at the upper edge
	// can land exactly on the boundary.
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func wrap(i, n int) int {
	if i < 0 {
		return i + n
	}
	if i >= n {
		return i - n
	}
	return i
}

// span returns the cell offsets to visit along one axis. With fewer
// than three cells the usual {-1,0,1} offsets would alias onto the
// same wrapped cell and double-count its particles.
func span(n int) []int {
	switch {
	case n >= 3:
		return []int{-1, 0, 1}
	case n == 2:
		return []int{0, 1}
	default:
		return []int{0}
	}
}

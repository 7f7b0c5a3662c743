package grid

// Snapshot is an immutable copy of a grid's state, safe to hand to
// monitoring or visualization consumers running outside the goroutine that
// owns the live grid.
type Snapshot struct {
	Cells      [][]CellState
	Visited    [][]bool
	Origin     Index
	Resolution float64
}

// Snapshot deep-copies the grid's current state.
func (g *Grid) Snapshot() *Snapshot {
	rows, cols := g.Bounds()
	cells := make([][]CellState, rows)
	visited := make([][]bool, rows)
	for i := 0; i < rows; i++ {
		cells[i] = make([]CellState, cols)
		visited[i] = make([]bool, cols)
		copy(cells[i], g.cells[i])
		copy(visited[i], g.visited[i])
	}
	return &Snapshot{
		Cells:      cells,
		Visited:    visited,
		Origin:     g.origin,
		Resolution: g.resolution,
	}
}

// Bounds returns the snapshot's row and column counts.
func (s *Snapshot) Bounds() (int, int) {
	return len(s.Cells), len(s.Cells[0])
}

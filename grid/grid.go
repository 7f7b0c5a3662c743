// Package grid implements a growable 2D occupancy grid with an explicit
// origin mapping world coordinates onto array indices. The grid only ever
// expands; previously issued indices keep referring to the same world cell
// once the shift returned by EnsureContains is applied.
package grid

import (
	"math"

	"github.com/pkg/errors"
)

// CellState describes what is known about one grid cell.
type CellState uint8

// The set of known cell states. Occupied is reserved for a future sensor
// integration; the exploration engine never produces it but downstream
// consumers must be prepared to see all three states.
const (
	Unknown = CellState(iota)
	Free
	Occupied
)

func (s CellState) String() string {
	switch s {
	case Free:
		return "free"
	case Occupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// Index identifies one cell in the grid.
type Index struct {
	Row int
	Col int
}

// Add returns the element-wise sum of two indices.
func (i Index) Add(other Index) Index {
	return Index{i.Row + other.Row, i.Col + other.Col}
}

// Grid is a dense, resizable occupancy grid. It is not safe for concurrent
// use; ownership belongs to whichever goroutine drives exploration, and
// other readers must work from a Snapshot.
type Grid struct {
	cells      [][]CellState
	visited    [][]bool
	resolution float64
	origin     Index
}

// New returns a square initialSize x initialSize grid of unknown cells with
// the origin (world coordinate 0,0) at its center. resolution is the number
// of meters represented by one grid step and is fixed for the grid's
// lifetime.
func New(resolution float64, initialSize int) (*Grid, error) {
	if resolution <= 0 {
		return nil, errors.Errorf("resolution must be positive; got %f", resolution)
	}
	if initialSize <= 0 {
		return nil, errors.Errorf("initial size must be positive; got %d", initialSize)
	}
	cells := make([][]CellState, initialSize)
	visited := make([][]bool, initialSize)
	for i := range cells {
		cells[i] = make([]CellState, initialSize)
		visited[i] = make([]bool, initialSize)
	}
	return &Grid{
		cells:      cells,
		visited:    visited,
		resolution: resolution,
		origin:     Index{initialSize / 2, initialSize / 2},
	}, nil
}

// Resolution returns the meters represented by one grid step.
func (g *Grid) Resolution() float64 {
	return g.resolution
}

// Origin returns the index corresponding to world coordinate (0,0).
func (g *Grid) Origin() Index {
	return g.origin
}

// Bounds returns the current row and column counts.
func (g *Grid) Bounds() (int, int) {
	return len(g.cells), len(g.cells[0])
}

// WorldToIndex maps a world position in meters to a grid index. Rounding is
// to the nearest integer with ties away from zero (math.Round).
func (g *Grid) WorldToIndex(x, y float64) Index {
	return Index{
		Row: int(math.Round(x/g.resolution)) + g.origin.Row,
		Col: int(math.Round(y/g.resolution)) + g.origin.Col,
	}
}

// Contains reports whether idx lies within the current bounds.
func (g *Grid) Contains(idx Index) bool {
	rows, cols := g.Bounds()
	return idx.Row >= 0 && idx.Row < rows && idx.Col >= 0 && idx.Col < cols
}

// EnsureContains grows the grid just enough to include idx, padding the
// deficient sides with unknown, unvisited cells. The returned shift is the
// amount of top/left padding applied; callers holding indices from before
// the call must Add it to keep referring to the same world cells (the
// origin is adjusted internally). A contained index is a no-op and returns
// a zero shift.
func (g *Grid) EnsureContains(idx Index) Index {
	rows, cols := g.Bounds()
	padTop := maxInt(0, -idx.Row)
	padBottom := maxInt(0, idx.Row-(rows-1))
	padLeft := maxInt(0, -idx.Col)
	padRight := maxInt(0, idx.Col-(cols-1))
	if padTop == 0 && padBottom == 0 && padLeft == 0 && padRight == 0 {
		return Index{}
	}

	newRows := rows + padTop + padBottom
	newCols := cols + padLeft + padRight
	cells := make([][]CellState, newRows)
	visited := make([][]bool, newRows)
	for i := range cells {
		cells[i] = make([]CellState, newCols)
		visited[i] = make([]bool, newCols)
	}
	for i := range g.cells {
		copy(cells[i+padTop][padLeft:], g.cells[i])
		copy(visited[i+padTop][padLeft:], g.visited[i])
	}
	g.cells = cells
	g.visited = visited

	shift := Index{padTop, padLeft}
	g.origin = g.origin.Add(shift)
	return shift
}

// At returns the state of the cell at idx. Out-of-bounds indices read as
// Unknown, matching the semantics of space the grid has not yet grown into.
func (g *Grid) At(idx Index) CellState {
	if !g.Contains(idx) {
		return Unknown
	}
	return g.cells[idx.Row][idx.Col]
}

// Visited reports whether the cell at idx has been visited.
func (g *Grid) Visited(idx Index) bool {
	if !g.Contains(idx) {
		return false
	}
	return g.visited[idx.Row][idx.Col]
}

// SetFreeAndVisited marks the cell at idx as free space the agent has
// occupied. It is idempotent. idx must be contained in the grid.
func (g *Grid) SetFreeAndVisited(idx Index) {
	g.cells[idx.Row][idx.Col] = Free
	g.visited[idx.Row][idx.Col] = true
}

// NumFree returns how many cells are currently known to be free.
func (g *Grid) NumFree() int {
	var n int
	for _, row := range g.cells {
		for _, s := range row {
			if s == Free {
				n++
			}
		}
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

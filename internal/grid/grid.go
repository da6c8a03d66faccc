package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when a grid is requested with a
// non-positive width or height, or one whose cell count overflows an int.
var ErrInvalidDimensions = errors.New("grid: width and height must be positive")

// Grid describes a Width x Height board of cells. Cell i sits at
// row i/Width, column i%Width.
type Grid struct {
	Width  int
	Height int
}

// Step is a move from a cell to one of its neighbors.
type Step struct {
	Dir Direction
	To  int
}

// New returns a grid with the given dimensions.
func New(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > math.MaxInt/height {
		return Grid{}, fmt.Errorf("%w: %dx%d cells overflow", ErrInvalidDimensions, width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

// Size returns the number of cells.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// Contains reports whether i is a valid cell index.
func (g Grid) Contains(i int) bool {
	return i >= 0 && i < g.Size()
}

// Index returns the flat index of the cell at (col, row).
func (g Grid) Index(col, row int) int {
	return row*g.Width + col
}

// Coord returns the (col, row) of cell i.
func (g Grid) Coord(i int) (col, row int) {
	return i % g.Width, i / g.Width
}

// Neighbor returns the cell adjacent to from in direction d, and false when
// that side of from is the grid border.
func (g Grid) Neighbor(from int, d Direction) (int, bool) {
	switch d {
	case Up:
		if from-g.Width < 0 {
			return 0, false
		}
		return from - g.Width, true
	case Down:
		if from+g.Width >= g.Size() {
			return 0, false
		}
		return from + g.Width, true
	case Left:
		if from%g.Width == 0 {
			return 0, false
		}
		return from - 1, true
	case Right:
		if (from+1)%g.Width == 0 {
			return 0, false
		}
		return from + 1, true
	default:
		return 0, false
	}
}

// Neighbors returns the existing neighbors of from in canonical direction
// order. It panics if from is outside the grid.
func (g Grid) Neighbors(from int) []Step {
	g.mustContain(from)

	steps := make([]Step, 0, len(Directions))
	for _, d := range Directions {
		if to, ok := g.Neighbor(from, d); ok {
			steps = append(steps, Step{Dir: d, To: to})
		}
	}
	return steps
}

// Available returns the neighbors of from that are wholly unvisited in cells,
// i.e. whose mask is zero. A neighbor already reached from elsewhere is never
// offered again, which keeps carved passages acyclic.
func (g Grid) Available(cells []Mask, from int) []Step {
	if len(cells) != g.Size() {
		panic(fmt.Sprintf("grid: cell slice has %d entries, want %d", len(cells), g.Size()))
	}

	steps := g.Neighbors(from)
	available := steps[:0]
	for _, s := range steps {
		if !cells[s.To].Visited() {
			available = append(available, s)
		}
	}
	return available
}

func (g Grid) mustContain(i int) {
	if !g.Contains(i) {
		panic(fmt.Sprintf("grid: cell %d outside %dx%d grid", i, g.Width, g.Height))
	}
}

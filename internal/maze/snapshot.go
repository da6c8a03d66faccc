package maze

import (
	"slices"

	"github.com/samdwyer/mazeband/internal/grid"
)

// Snapshot is an immutable copy of a run's cells at one point in time.
type Snapshot struct {
	Width  int
	Height int
	Cells  []grid.Mask

	// Run is the number of the run the cells belong to.
	Run int
	// Cursor is the cell the traversal is at, or -1 once the run is done.
	Cursor int
	// Done is set once the traversal has no branch point left to explore.
	Done bool
	// Final marks the completed maze with its entrance and exit opened.
	// It is the last snapshot of its run.
	Final bool
	// Restarted marks the empty first snapshot of a run that replaced an
	// unfinished one.
	Restarted bool
}

// Grid returns the grid the snapshot was taken from.
func (s Snapshot) Grid() grid.Grid {
	return grid.Grid{Width: s.Width, Height: s.Height}
}

// Carved returns the number of cells with at least one passage.
func (s Snapshot) Carved() int {
	n := 0
	for _, c := range s.Cells {
		if c.Visited() {
			n++
		}
	}
	return n
}

func (g *Generator) snapshot(r *run, final bool) Snapshot {
	cursor := -1
	if r.hasCurrent {
		cursor = r.current
	}
	return Snapshot{
		Width:  g.grid.Width,
		Height: g.grid.Height,
		Cells:  slices.Clone(r.cells),
		Run:    r.number,
		Cursor: cursor,
		Done:   r.done,
		Final:  final,
	}
}

// Package maze carves perfect mazes one step at a time using a randomized
// depth-first traversal with backtracking and random early restart.
package maze

import (
	"errors"
	"fmt"
	"math"

	"github.com/samdwyer/mazeband/internal/grid"
)

var (
	// ErrInvalidDimensions is returned for a non-positive width or height.
	ErrInvalidDimensions = grid.ErrInvalidDimensions
	// ErrInvalidThreshold is returned for a threshold outside [0, 1].
	ErrInvalidThreshold = errors.New("maze: threshold must be within [0, 1]")
	// ErrNilSource is returned when no random source is supplied.
	ErrNilSource = errors.New("maze: random source is nil")
)

// Generator carves a single maze incrementally. Each call to Step advances
// the traversal by one move and returns a snapshot of the result.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	grid      grid.Grid
	threshold float64
	rng       Source
	run       *run
}

// run is the state of one attempt at carving the maze. Restarting replaces
// it wholesale.
type run struct {
	number       int
	cells        []grid.Mask
	current      int
	hasCurrent   bool
	branchPoints []int // FIFO: the oldest branch point is retried first
	done         bool
}

// New creates a generator for a width x height maze. threshold is the
// probability that any given step is allowed to proceed rather than
// restarting the run from scratch.
func New(width, height int, threshold float64, rng Source) (*Generator, error) {
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	if rng == nil {
		return nil, ErrNilSource
	}

	gen := &Generator{
		grid:      g,
		threshold: threshold,
		rng:       rng,
	}
	gen.run = gen.newRun(1)
	return gen, nil
}

// Step advances the generator and returns the resulting snapshot.
//
// A finished run, or a draw above the threshold, restarts the generator with
// a fresh run. When the run being replaced had finished, its entrance and
// exit are opened and its final snapshot is returned; the next call steps
// the new run.
func (g *Generator) Step() Snapshot {
	prev := g.run

	restarted := false
	if prev.done || g.rng.Float64() > g.threshold {
		g.run = g.newRun(prev.number + 1)
		restarted = true
	}

	if prev.done {
		prev.openEnds()
		return g.snapshot(prev, true)
	}

	if restarted {
		snap := g.snapshot(g.run, false)
		snap.Restarted = true
		return snap
	}

	g.advance()
	return g.snapshot(g.run, false)
}

// Snapshot returns the live state without stepping.
func (g *Generator) Snapshot() Snapshot {
	return g.snapshot(g.run, false)
}

// Done reports whether the live run has exhausted every branch point.
func (g *Generator) Done() bool {
	return g.run.done
}

// Run returns the number of the live run, starting at 1.
func (g *Generator) Run() int {
	return g.run.number
}

// Grid returns the grid being carved.
func (g *Generator) Grid() grid.Grid {
	return g.grid
}

// Threshold returns the per-step probability of proceeding without restart.
func (g *Generator) Threshold() float64 {
	return g.threshold
}

func (g *Generator) newRun(number int) *run {
	return &run{
		number:     number,
		cells:      make([]grid.Mask, g.grid.Size()),
		current:    g.rng.Intn(g.grid.Size()),
		hasCurrent: true,
	}
}

// advance performs one normal traversal step on the live run.
func (g *Generator) advance() {
	r := g.run
	if !r.hasCurrent {
		panic("maze: stepping a run with no cursor")
	}

	steps := g.grid.Available(r.cells, r.current)
	if len(steps) == 0 {
		g.backtrack()
		return
	}

	if len(steps) > 1 {
		r.branchPoints = append(r.branchPoints, r.current)
	}

	s := steps[g.rng.Intn(len(steps))]
	r.carve(r.current, s)
	r.current = s.To
}

// backtrack moves the cursor to the oldest branch point that still has an
// unvisited neighbor, discarding exhausted ones along the way. With none
// left the run is done.
func (g *Generator) backtrack() {
	r := g.run
	for len(r.branchPoints) > 0 {
		next := r.branchPoints[0]
		r.branchPoints = r.branchPoints[1:]

		if !g.grid.Contains(next) {
			panic(fmt.Sprintf("maze: branch point %d outside %dx%d grid", next, g.grid.Width, g.grid.Height))
		}
		if len(g.grid.Available(r.cells, next)) > 0 {
			r.current = next
			return
		}
	}

	r.done = true
	r.hasCurrent = false
}

// carve opens the passage from cell from along s on both sides.
func (r *run) carve(from int, s grid.Step) {
	if r.cells[s.To].Visited() {
		panic(fmt.Sprintf("maze: carving %s from %d into visited cell %d", s.Dir, from, s.To))
	}
	r.cells[from] = r.cells[from].With(s.Dir)
	r.cells[s.To] = r.cells[s.To].With(s.Dir.Opposite())
}

// openEnds opens the entrance at the top of the first cell and the exit at
// the bottom of the last one. Repeating it changes nothing.
func (r *run) openEnds() {
	r.cells[0] = r.cells[0].With(grid.Up)
	last := len(r.cells) - 1
	r.cells[last] = r.cells[last].With(grid.Down)
}

// Package verify checks carved mazes for the structural properties a perfect
// maze must have.
package verify

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/samdwyer/mazeband/internal/grid"
	"github.com/samdwyer/mazeband/internal/maze"
)

var (
	// ErrUnpaired is returned when a passage bit has no matching bit on the
	// neighboring cell, or leads off the grid.
	ErrUnpaired = errors.New("verify: unpaired passage")
	// ErrNotTree is returned when the passage count does not match a tree.
	ErrNotTree = errors.New("verify: passages do not form a tree")
	// ErrDisconnected is returned when some cell cannot be reached from cell 0.
	ErrDisconnected = errors.New("verify: maze is not connected")
)

// Pairing checks that every passage is recorded on both cells it joins. The
// entrance and exit of a final snapshot are the only passages allowed to
// leave the grid.
func Pairing(snap maze.Snapshot) error {
	g := snap.Grid()
	if len(snap.Cells) != g.Size() {
		return fmt.Errorf("%w: %d cells for a %dx%d grid", ErrUnpaired, len(snap.Cells), g.Width, g.Height)
	}

	for i, m := range snap.Cells {
		for _, d := range grid.Directions {
			to, ok := g.Neighbor(i, d)
			if !ok {
				if m.Has(d) && !(snap.Final && isEnd(g, i, d)) {
					return fmt.Errorf("%w: cell %d opens %s off the grid", ErrUnpaired, i, d)
				}
				continue
			}
			if m.Has(d) != snap.Cells[to].Has(d.Opposite()) {
				return fmt.Errorf("%w: cell %d %s vs cell %d %s", ErrUnpaired, i, d, to, d.Opposite())
			}
		}
	}
	return nil
}

// Graph builds an undirected graph with one vertex per cell, named by its
// index, and one edge per carved passage.
func Graph(snap maze.Snapshot) (*core.Graph, error) {
	g := snap.Grid()
	cg := core.NewGraph()

	for i := range snap.Cells {
		if err := cg.AddVertex(vertexID(i)); err != nil {
			return nil, fmt.Errorf("verify: adding cell %d: %w", i, err)
		}
	}

	// Down and Right visit each interior passage exactly once.
	for i, m := range snap.Cells {
		for _, d := range []grid.Direction{grid.Down, grid.Right} {
			if !m.Has(d) {
				continue
			}
			to, ok := g.Neighbor(i, d)
			if !ok {
				continue
			}
			if _, err := cg.AddEdge(vertexID(i), vertexID(to), 0); err != nil {
				return nil, fmt.Errorf("verify: adding passage %d-%d: %w", i, to, err)
			}
		}
	}
	return cg, nil
}

// SpanningTree checks that the snapshot's passages form a spanning tree: they
// are paired, there are exactly one fewer of them than cells, and every cell
// is reachable from cell 0.
func SpanningTree(snap maze.Snapshot) error {
	if err := Pairing(snap); err != nil {
		return err
	}

	cg, err := Graph(snap)
	if err != nil {
		return err
	}

	n := len(snap.Cells)
	if edges := cg.EdgeCount(); edges != n-1 {
		return fmt.Errorf("%w: %d passages for %d cells", ErrNotTree, edges, n)
	}

	res, err := bfs.BFS(cg, vertexID(0))
	if err != nil {
		return fmt.Errorf("verify: traversing maze: %w", err)
	}
	if len(res.Order) != n {
		return fmt.Errorf("%w: reached %d of %d cells", ErrDisconnected, len(res.Order), n)
	}
	return nil
}

func isEnd(g grid.Grid, i int, d grid.Direction) bool {
	return (i == g.Index(0, 0) && d == grid.Up) || (i == g.Index(g.Width-1, g.Height-1) && d == grid.Down)
}

func vertexID(i int) string {
	return strconv.Itoa(i)
}

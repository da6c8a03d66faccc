package ui

import (
	"github.com/samdwyer/mazeband/internal/grid"
	"github.com/samdwyer/mazeband/internal/maze"
)

// Tile is one position of a maze drawn on a character grid.
type Tile uint8

const (
	// TileWall is a wall segment or a corner between cells.
	TileWall Tile = iota
	// TilePassage is a carved cell or an open wall between two cells.
	TilePassage
	// TileUnvisited is a cell the traversal has not reached.
	TileUnvisited
	// TileCursor is the cell the traversal is at.
	TileCursor
	// TileOpening is the entrance or exit in the outer wall.
	TileOpening
)

// Layout expands a snapshot into a (2*Height+1) x (2*Width+1) tile grid,
// indexed [y][x]. Cells sit at odd coordinates and the walls between them at
// the even coordinates around.
func Layout(snap maze.Snapshot) [][]Tile {
	g := snap.Grid()
	rows := 2*g.Height + 1
	cols := 2*g.Width + 1

	tiles := make([][]Tile, rows)
	for y := range tiles {
		tiles[y] = make([]Tile, cols)
	}

	for i, m := range snap.Cells {
		col, row := g.Coord(i)
		x, y := 2*col+1, 2*row+1

		switch {
		case i == snap.Cursor:
			tiles[y][x] = TileCursor
		case m.Visited():
			tiles[y][x] = TilePassage
		default:
			tiles[y][x] = TileUnvisited
		}

		// Right and Down cover every interior wall once. Up and Down on the
		// border are the entrance and exit.
		if m.Has(grid.Right) && col < g.Width-1 {
			tiles[y][x+1] = TilePassage
		}
		if m.Has(grid.Down) {
			if row < g.Height-1 {
				tiles[y+1][x] = TilePassage
			} else {
				tiles[y+1][x] = TileOpening
			}
		}
		if m.Has(grid.Up) && row == 0 {
			tiles[y-1][x] = TileOpening
		}
	}
	return tiles
}

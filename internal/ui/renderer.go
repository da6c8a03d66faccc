package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/theme"
)

// tileWidth is the number of terminal columns per tile, which keeps tiles
// roughly square.
const tileWidth = 2

// Status is the information shown under the maze.
type Status struct {
	Paused    bool
	Completed int
	Restarts  int
}

// Renderer handles drawing mazes to the screen.
type Renderer struct {
	screen  *Screen
	palette theme.Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette theme.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Render draws the snapshot and a status line to the screen. A maze taller
// than the screen is cut off so the status line stays on the bottom row.
func (r *Renderer) Render(snap maze.Snapshot, status Status) {
	r.screen.Clear()

	width, height := r.screen.Size()
	tiles := Layout(snap)
	statusRow := min(len(tiles), height-1)

	for y, row := range tiles[:max(statusRow, 0)] {
		for x, tile := range row {
			if x*tileWidth >= width {
				break
			}
			style := r.tileStyle(tile)
			for dx := 0; dx < tileWidth; dx++ {
				r.screen.SetContent(x*tileWidth+dx, y, ' ', style)
			}
		}
	}

	if statusRow >= 0 {
		r.RenderMessage(StatusLine(snap, status), statusRow)
	}

	r.screen.Show()
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	x := 0
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, r.palette.Text)
		x++
	}
}

// StatusLine summarizes a snapshot for display.
func StatusLine(snap maze.Snapshot, status Status) string {
	state := "carving"
	switch {
	case snap.Final:
		state = "finished"
	case snap.Done:
		state = "done"
	case snap.Restarted:
		state = "restarted"
	}
	if status.Paused {
		state += " (paused)"
	}

	return fmt.Sprintf("run %d  %d/%d cells  %s  finished:%d restarts:%d  [space] pause [n] step [r] restart [q] quit",
		snap.Run, snap.Carved(), len(snap.Cells), state, status.Completed, status.Restarts)
}

func (r *Renderer) tileStyle(tile Tile) tcell.Style {
	switch tile {
	case TileWall:
		return r.palette.Wall
	case TilePassage:
		return r.palette.Passage
	case TileUnvisited:
		return r.palette.Unvisited
	case TileCursor:
		return r.palette.Cursor
	case TileOpening:
		return r.palette.Opening
	default:
		return tcell.StyleDefault
	}
}

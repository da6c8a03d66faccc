package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazeband/internal/grid"
	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/theme"
)

func TestLayoutFinishedMaze(t *testing.T) {
	// 0-1 over 2x1: entrance above 0, exit below 1.
	snap := maze.Snapshot{
		Width:  2,
		Height: 1,
		Cells:  []grid.Mask{grid.Mask(grid.Right | grid.Up), grid.Mask(grid.Left | grid.Down)},
		Cursor: -1,
		Final:  true,
	}

	want := [][]Tile{
		{TileWall, TileOpening, TileWall, TileWall, TileWall},
		{TileWall, TilePassage, TilePassage, TilePassage, TileWall},
		{TileWall, TileWall, TileWall, TileOpening, TileWall},
	}

	got := Layout(snap)
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(got))
	}
	for y := range want {
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Errorf("Tile (%d,%d): expected %d, got %d", x, y, want[y][x], got[y][x])
			}
		}
	}
}

func TestLayoutInProgress(t *testing.T) {
	// 0 1
	// 2 3  with 0-2 carved and the cursor on 2.
	snap := maze.Snapshot{
		Width:  2,
		Height: 2,
		Cells:  []grid.Mask{grid.Mask(grid.Down), 0, grid.Mask(grid.Up), 0},
		Cursor: 2,
	}

	got := Layout(snap)
	checks := []struct {
		x, y int
		want Tile
	}{
		{1, 1, TilePassage},   // cell 0
		{3, 1, TileUnvisited}, // cell 1
		{1, 3, TileCursor},    // cell 2
		{1, 2, TilePassage},   // wall between 0 and 2
		{2, 1, TileWall},      // wall between 0 and 1
		{1, 0, TileWall},      // no entrance yet
		{0, 0, TileWall},      // corner
	}
	for _, c := range checks {
		if got[c.y][c.x] != c.want {
			t.Errorf("Tile (%d,%d): expected %d, got %d", c.x, c.y, c.want, got[c.y][c.x])
		}
	}
}

func TestRendererDrawsPalette(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := Wrap(sim)
	if err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Close()
	sim.SetSize(120, 10)

	th := theme.Theme{
		Wall:      "#FF0000",
		Passage:   "#00FF00",
		Unvisited: "#0000FF",
		Cursor:    "#FFFF00",
		Opening:   "#00FFFF",
		Text:      "#FFFFFF",
	}
	r := NewRenderer(screen, th.Palette())

	snap := maze.Snapshot{
		Width:  2,
		Height: 1,
		Cells:  []grid.Mask{grid.Mask(grid.Right), grid.Mask(grid.Left)},
		Run:    3,
		Cursor: 1,
	}
	r.Render(snap, Status{Completed: 2})

	bgAt := func(x, y int) tcell.Color {
		_, _, style, _ := sim.GetContent(x, y)
		_, bg, _ := style.Decompose()
		return bg
	}

	// Each tile is two columns wide.
	if got := bgAt(0, 0); got != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Expected wall colour at corner, got %v", got)
	}
	if got := bgAt(2, 1); got != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("Expected passage colour at cell 0, got %v", got)
	}
	if got := bgAt(3, 1); got != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("Expected passage colour across the tile width, got %v", got)
	}
	if got := bgAt(6, 1); got != tcell.NewRGBColor(255, 255, 0) {
		t.Errorf("Expected cursor colour at cell 1, got %v", got)
	}

	var line strings.Builder
	for x := 0; x < 20; x++ {
		ch, _, _, _ := sim.GetContent(x, 3)
		line.WriteRune(ch)
	}
	if !strings.HasPrefix(line.String(), "run 3  2/2 cells") {
		t.Errorf("Unexpected status line %q", line.String())
	}
}

func TestRendererKeepsStatusLineOnSmallScreen(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := Wrap(sim)
	if err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Close()
	sim.SetSize(40, 4)

	th := theme.Theme{Wall: "#FF0000", Passage: "#00FF00", Unvisited: "#0000FF", Text: "#FFFFFF"}
	r := NewRenderer(screen, th.Palette())

	// An 11-row layout on a 4-row screen.
	snap := maze.Snapshot{Width: 5, Height: 5, Cells: make([]grid.Mask, 25), Run: 1, Cursor: -1}
	r.Render(snap, Status{})

	_, _, style, _ := sim.GetContent(0, 2)
	if _, bg, _ := style.Decompose(); bg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Expected wall colour above the status line, got %v", bg)
	}

	var line strings.Builder
	for x := 0; x < 5; x++ {
		ch, _, _, _ := sim.GetContent(x, 3)
		line.WriteRune(ch)
	}
	if line.String() != "run 1" {
		t.Errorf("Expected status line on the bottom row, got %q", line.String())
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		snap   maze.Snapshot
		status Status
		want   string
	}{
		{maze.Snapshot{Run: 1}, Status{}, "carving"},
		{maze.Snapshot{Run: 1, Done: true}, Status{}, "done"},
		{maze.Snapshot{Run: 1, Done: true, Final: true}, Status{}, "finished"},
		{maze.Snapshot{Run: 4, Restarted: true}, Status{Restarts: 3}, "restarted"},
		{maze.Snapshot{Run: 1}, Status{Paused: true}, "carving (paused)"},
	}

	for _, tt := range tests {
		got := StatusLine(tt.snap, tt.status)
		if !strings.Contains(got, tt.want) {
			t.Errorf("StatusLine(%+v) = %q, want it to contain %q", tt.snap, got, tt.want)
		}
	}
}

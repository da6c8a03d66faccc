package stream

import "github.com/samdwyer/mazeband/internal/maze"

// Frame is the JSON message sent for every generator step.
type Frame struct {
	Run       int    `json:"run"`
	RunID     string `json:"runId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Cells     []int  `json:"cells"` // one passage bitmask per cell, row-major
	Cursor    int    `json:"cursor"`
	Done      bool   `json:"done"`
	Final     bool   `json:"final"`
	Restarted bool   `json:"restarted"`
}

// NewFrame converts a snapshot into a frame.
func NewFrame(runID string, snap maze.Snapshot) Frame {
	// Masks are widened so they encode as a JSON array rather than base64.
	cells := make([]int, len(snap.Cells))
	for i, m := range snap.Cells {
		cells[i] = int(m)
	}
	return Frame{
		Run:       snap.Run,
		RunID:     runID,
		Width:     snap.Width,
		Height:    snap.Height,
		Cells:     cells,
		Cursor:    snap.Cursor,
		Done:      snap.Done,
		Final:     snap.Final,
		Restarted: snap.Restarted,
	}
}

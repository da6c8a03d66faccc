// Package grid provides the topology of a rectangular maze grid addressed by
// flat row-major index.
package grid

// Direction is a single cardinal direction, encoded as a bit flag so that a
// set of open passages fits in one Mask.
type Direction uint8

const (
	// Up points to the previous row.
	Up Direction = 1 << iota
	// Down points to the next row.
	Down
	// Left points to the previous column.
	Left
	// Right points to the next column.
	Right
)

// Directions lists every direction in canonical order. Random choices index
// into slices built in this order, so it must stay stable.
var Directions = [4]Direction{Up, Down, Left, Right}

// Opposite returns the direction pointing back the way d came.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return 0
	}
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Mask records which passages leave a cell. A zero mask is an unvisited cell.
type Mask uint8

// Has reports whether the passage in direction d is open.
func (m Mask) Has(d Direction) bool {
	return m&Mask(d) != 0
}

// With returns m with the passage in direction d opened.
func (m Mask) With(d Direction) Mask {
	return m | Mask(d)
}

// Visited reports whether any passage has been carved into or out of the cell.
func (m Mask) Visited() bool {
	return m != 0
}

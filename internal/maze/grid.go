package maze

import (
	"fmt"
	"strings"
)

// Cell is one discrete unit of the occupancy grid.
type Cell uint8

const (
	Open Cell = iota // walkable
	Wall             // impassable
)

// Grid is an immutable width×height occupancy table, row-major
// (index = y*width + x). The outer border ring is always Wall. A grid is
// built once per (width, height, seed) and never patched in place; a seed
// change replaces it wholesale.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// Width returns the number of cells along the x axis.
func (g *Grid) Width() int { return g.width }

// Height returns the number of cells along the y axis.
func (g *Grid) Height() int { return g.height }

// At returns the cell at (x, y). Out-of-bounds coordinates read as Wall so
// callers never walk off the table.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Wall
	}
	return g.cells[y*g.width+x]
}

// IsWall reports whether (x, y) is occupied.
func (g *Grid) IsWall(x, y int) bool {
	return g.At(x, y) == Wall
}

// Walls calls fn for every Wall cell in row-major order. This is the
// read-only export consumed by renderers; they must place instances through
// the same Mapper the collision pass uses.
func (g *Grid) Walls(fn func(x, y int)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == Wall {
				fn(x, y)
			}
		}
	}
}

// WallCount returns the number of occupied cells.
func (g *Grid) WallCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Wall {
			n++
		}
	}
	return n
}

// Equal reports whether two grids have identical dimensions and cell states.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Parse builds a grid from a row-per-string fixture, '#' for Wall and '.'
// for Open. Rows must be non-empty and equal length. Used by tests and
// scenario setup; generated maps come from Generate.
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("maze: empty fixture")
	}
	width := len(rows[0])
	cells := make([]Cell, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("maze: fixture row %d has length %d, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case '#':
				cells = append(cells, Wall)
			case '.':
				cells = append(cells, Open)
			default:
				return nil, fmt.Errorf("maze: fixture cell (%d,%d): unknown rune %q", x, y, row[x])
			}
		}
	}
	return &Grid{width: width, height: len(rows), cells: cells}, nil
}

// String renders the grid in the Parse fixture format, newline-separated.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == Wall {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < g.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

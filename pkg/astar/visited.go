package astar

import (
	"math/bits"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

const (
	primaryBit uint8 = 1 << iota
	underBit
)

// Visited records which (point, plane) states have been expanded.
// Each cell carries one bit per plane. Marks are never cleared.
type Visited struct {
	width, height int
	cells         []uint8
}

// NewVisited returns an empty tracker for a width×height maze.
func NewVisited(width, height int) *Visited {
	return &Visited{width: width, height: height, cells: make([]uint8, width*height)}
}

func planeBit(plane maze.Plane) uint8 {
	if plane == maze.Under {
		return underBit
	}
	return primaryBit
}

func (v *Visited) index(p maze.Point) (int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= v.width || p.Y >= v.height {
		return 0, false
	}
	return p.Y*v.width + p.X, true
}

// Mark records that (p, plane) was expanded. Points outside the grid are
// ignored.
func (v *Visited) Mark(p maze.Point, plane maze.Plane) {
	if i, ok := v.index(p); ok {
		v.cells[i] |= planeBit(plane)
	}
}

// IsMarked reports whether (p, plane) was expanded.
func (v *Visited) IsMarked(p maze.Point, plane maze.Plane) bool {
	i, ok := v.index(p)
	return ok && v.cells[i]&planeBit(plane) != 0
}

// Count returns the number of marked states across both planes.
func (v *Visited) Count() int {
	n := 0
	for _, c := range v.cells {
		n += bits.OnesCount8(c)
	}
	return n
}

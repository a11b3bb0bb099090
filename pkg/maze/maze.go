package maze

import (
	"fmt"
	"math/bits"
)

// Point is an (x, y) cell coordinate. X grows east, Y grows south.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// String formats the point as "(x,y)".
func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Plane identifies which passage layer a traversal occupies at a cell.
type Plane uint8

const (
	// Primary is the ordinary passage layer.
	Primary Plane = iota
	// Under is the passage that runs beneath a bridge.
	Under
)

// String returns "primary" or "under".
func (p Plane) String() string {
	if p == Under {
		return "under"
	}
	return "primary"
}

// MarshalText encodes the plane by name.
func (p Plane) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes "primary" or "under".
func (p *Plane) UnmarshalText(b []byte) error {
	switch string(b) {
	case "primary":
		*p = Primary
	case "under":
		*p = Under
	default:
		return fmt.Errorf("unknown plane %q", b)
	}
	return nil
}

// Direction is a single exit bit on the primary plane.
type Direction uint8

// Orthogonal directions.
const (
	N Direction = 0x01
	S Direction = 0x02
	E Direction = 0x04
	W Direction = 0x08
)

// UnderShift moves a primary direction bit onto the under plane.
const UnderShift = 4

// Directions lists the orthogonal directions in the order they are tried.
var Directions = []Direction{N, S, E, W}

var directionNames = map[Direction]string{N: "N", S: "S", E: "E", W: "W"}

// String returns the compass letter for d.
func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Direction(%#x)", uint8(d))
}

// Cell is the exit bitmask of one grid cell across both planes.
type Cell uint8

const (
	primaryMask Cell = 0x0f
	underMask   Cell = 0xf0
)

// Has reports whether the cell has an exit toward d on the given plane.
func (c Cell) Has(d Direction, plane Plane) bool {
	bit := Cell(d)
	if plane == Under {
		bit <<= UnderShift
	}
	return c&bit != 0
}

// Primary returns the primary-plane exits.
func (c Cell) Primary() Cell { return c & primaryMask }

// Under returns the under-plane exits, shifted down onto primary bits.
func (c Cell) Under() Cell { return (c & underMask) >> UnderShift }

// IsBridge reports whether a passage runs beneath this cell.
func (c Cell) IsBridge() bool { return c&underMask != 0 }

// IsDeadEnd reports whether the cell has exactly one exit and no bridge.
func (c Cell) IsDeadEnd() bool {
	return !c.IsBridge() && bits.OnesCount8(uint8(c.Primary())) == 1
}

// Adapter is the read-only maze view required by a solver.
//
// Cell must return the zero Cell for points that fail Valid.
type Adapter interface {
	Width() int
	Height() int
	Start() Point
	Finish() Point

	// Cell returns the exit mask for both planes at p.
	Cell(p Point) Cell

	// PotentialExits lists the directions worth testing against Cell(p).
	PotentialExits(p Point) []Direction

	// Delta returns the coordinate offset of one move toward d.
	Delta(d Direction) (dx, dy int)

	// Opposite returns the direction pointing back along d.
	Opposite(d Direction) Direction

	// Valid reports whether p lies inside the maze.
	Valid(p Point) bool
}

// Delta returns the orthogonal coordinate offset for d.
func Delta(d Direction) (dx, dy int) {
	switch d {
	case N:
		return 0, -1
	case S:
		return 0, 1
	case E:
		return 1, 0
	case W:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the orthogonal direction facing d.
func Opposite(d Direction) Direction {
	switch d {
	case N:
		return S
	case S:
		return N
	case E:
		return W
	case W:
		return E
	}
	return 0
}

// Perpendicular returns the two directions at right angles to d, as a mask.
func Perpendicular(d Direction) Cell {
	if d == N || d == S {
		return Cell(E | W)
	}
	return Cell(N | S)
}

// Move returns the point one step from p toward d using a's geometry.
func Move(a Adapter, p Point, d Direction) Point {
	dx, dy := a.Delta(d)
	return p.Add(dx, dy)
}

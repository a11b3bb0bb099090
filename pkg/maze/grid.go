package maze

import (
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Grid is an orthogonal maze stored as a row-major slice of cells.
//
// The zero value is not usable; create grids with [NewGrid] or [Generate].
// Grid is not safe for concurrent mutation.
type Grid struct {
	width, height int
	cells         []Cell
	start, finish Point
}

// NewGrid returns a width×height grid with every wall closed. The start is
// the top-left corner and the finish the bottom-right corner.
func NewGrid(width, height int) (*Grid, error) {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		finish: Point{X: width - 1, Y: height - 1},
	}, nil
}

func (g *Grid) Width() int    { return g.width }
func (g *Grid) Height() int   { return g.height }
func (g *Grid) Start() Point  { return g.start }
func (g *Grid) Finish() Point { return g.finish }

// Valid reports whether p is inside the grid.
func (g *Grid) Valid(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Cell returns the exit mask at p, or zero when p is out of bounds.
func (g *Grid) Cell(p Point) Cell {
	if !g.Valid(p) {
		return 0
	}
	return g.cells[p.Y*g.width+p.X]
}

// PotentialExits returns the four orthogonal directions.
func (g *Grid) PotentialExits(Point) []Direction { return Directions }

func (g *Grid) Delta(d Direction) (dx, dy int) { return Delta(d) }
func (g *Grid) Opposite(d Direction) Direction { return Opposite(d) }

// SetStart moves the start point.
func (g *Grid) SetStart(p Point) error {
	if err := errors.ValidateCoordinate(p.X, p.Y, g.width, g.height); err != nil {
		return err
	}
	g.start = p
	return nil
}

// SetFinish moves the finish point.
func (g *Grid) SetFinish(p Point) error {
	if err := errors.ValidateCoordinate(p.X, p.Y, g.width, g.height); err != nil {
		return err
	}
	g.finish = p
	return nil
}

// SetCell overwrites the raw exit mask at p. It does not mirror the change
// onto neighbours; use [Grid.Carve] or [Grid.Tunnel] for that.
func (g *Grid) SetCell(p Point, c Cell) error {
	if err := errors.ValidateCoordinate(p.X, p.Y, g.width, g.height); err != nil {
		return err
	}
	g.cells[p.Y*g.width+p.X] = c
	return nil
}

func (g *Grid) or(p Point, c Cell) { g.cells[p.Y*g.width+p.X] |= c }

// Carve opens the primary passage between p and its neighbour toward d.
func (g *Grid) Carve(p Point, d Direction) error {
	n := Move(g, p, d)
	if !g.Valid(p) || !g.Valid(n) {
		return errors.New(errors.ErrCodeInvalidPoint, "cannot carve %s from %v", d, p)
	}
	g.or(p, Cell(d))
	g.or(n, Cell(Opposite(d)))
	return nil
}

// Tunnel routes a passage from p toward d beneath the neighbouring cell and
// out to the cell beyond it. The crossed cell becomes a bridge: its under
// plane gains exits toward d and back, and its primary plane is untouched.
func (g *Grid) Tunnel(p Point, d Direction) error {
	over := Move(g, p, d)
	beyond := Move(g, over, d)
	if !g.Valid(p) || !g.Valid(over) || !g.Valid(beyond) {
		return errors.New(errors.ErrCodeInvalidPoint, "cannot tunnel %s from %v", d, p)
	}
	if g.Cell(over).IsBridge() {
		return errors.New(errors.ErrCodeInvalidMaze, "cell %v already bridged", over)
	}
	g.or(p, Cell(d))
	g.or(over, Cell(d|Opposite(d))<<UnderShift)
	g.or(beyond, Cell(Opposite(d)))
	return nil
}

// Bridges returns the coordinates of every bridge cell in row-major order.
func (g *Grid) Bridges() []Point {
	var out []Point
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Point{X: x, Y: y}
			if g.Cell(p).IsBridge() {
				out = append(out, p)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = append([]Cell(nil), g.cells...)
	return &c
}

// Validate checks that every opening is mirrored by the cell it leads to.
// On the under plane the mirror may sit on either plane of the neighbour,
// since a tunnel lands on the primary plane of the cell beyond the bridge.
func (g *Grid) Validate() error {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Point{X: x, Y: y}
			c := g.Cell(p)
			for _, d := range Directions {
				for _, plane := range []Plane{Primary, Under} {
					if !c.Has(d, plane) {
						continue
					}
					n := Move(g, p, d)
					if !g.Valid(n) {
						return errors.New(errors.ErrCodeInvalidMaze, "cell %v opens %s (%s) off the grid", p, d, plane)
					}
					nc := g.Cell(n)
					if !nc.Has(Opposite(d), Primary) && !nc.Has(Opposite(d), Under) {
						return errors.New(errors.ErrCodeInvalidMaze, "cell %v opens %s (%s) but %v is closed", p, d, plane, n)
					}
				}
			}
		}
	}
	return nil
}

// String draws the grid as ASCII art. Start is "S", finish is "F" and
// bridge cells are "#".
func (g *Grid) String() string {
	var b strings.Builder
	b.WriteString("+")
	for x := 0; x < g.width; x++ {
		b.WriteString("--+")
	}
	b.WriteString("\n")

	for y := 0; y < g.height; y++ {
		b.WriteString("|")
		for x := 0; x < g.width; x++ {
			p := Point{X: x, Y: y}
			c := g.Cell(p)
			switch {
			case p == g.start:
				b.WriteString("S ")
			case p == g.finish:
				b.WriteString(" F")
			case c.IsBridge():
				b.WriteString("##")
			default:
				b.WriteString("  ")
			}
			if c.Has(E, Primary) || c.Has(E, Under) {
				b.WriteString(" ")
			} else {
				b.WriteString("|")
			}
		}
		b.WriteString("\n+")
		for x := 0; x < g.width; x++ {
			c := g.Cell(Point{X: x, Y: y})
			if c.Has(S, Primary) || c.Has(S, Under) {
				b.WriteString("  +")
			} else {
				b.WriteString("--+")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Ensure Grid implements Adapter.
var _ Adapter = (*Grid)(nil)

package render

import "github.com/matzehuels/labyrinth/pkg/maze"

const (
	defaultCellSize = 30
	minCellSize     = 4
	padding         = 10.0
)

// Option configures frame rendering.
type Option func(*renderer)

type renderer struct {
	cellSize  float64
	wallWidth float64
	palette   Palette
}

// WithCellSize sets the edge length of one cell in pixels (default 30).
func WithCellSize(px int) Option {
	return func(r *renderer) {
		if px >= minCellSize {
			r.cellSize = float64(px)
		}
	}
}

// WithWallWidth sets the wall stroke width in pixels.
func WithWallWidth(px float64) Option {
	return func(r *renderer) {
		if px > 0 {
			r.wallWidth = px
		}
	}
}

// WithPalette replaces [DefaultPalette].
func WithPalette(p Palette) Option { return func(r *renderer) { r.palette = p } }

func newRenderer(opts ...Option) renderer {
	r := renderer{cellSize: defaultCellSize, palette: DefaultPalette()}
	for _, opt := range opts {
		opt(&r)
	}
	if r.wallWidth == 0 {
		r.wallWidth = max(1, r.cellSize/15)
	}
	return r
}

func (r renderer) size(m maze.Adapter) (w, h float64) {
	return 2*padding + float64(m.Width())*r.cellSize, 2*padding + float64(m.Height())*r.cellSize
}

// corner returns the top-left pixel of p.
func (r renderer) corner(p maze.Point) (x, y float64) {
	return padding + float64(p.X)*r.cellSize, padding + float64(p.Y)*r.cellSize
}

// center returns the middle pixel of p.
func (r renderer) center(p maze.Point) (x, y float64) {
	x, y = r.corner(p)
	return x + r.cellSize/2, y + r.cellSize/2
}

type line struct{ x1, y1, x2, y2 float64 }

// walls lists every closed cell edge. Each shared edge appears once.
func (r renderer) walls(m maze.Adapter) []line {
	var out []line
	cs := r.cellSize
	open := func(c maze.Cell, d maze.Direction) bool {
		return c.Has(d, maze.Primary) || c.Has(d, maze.Under)
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			p := maze.Point{X: x, Y: y}
			c := m.Cell(p)
			x0, y0 := r.corner(p)
			if !open(c, maze.N) {
				out = append(out, line{x0, y0, x0 + cs, y0})
			}
			if !open(c, maze.W) {
				out = append(out, line{x0, y0, x0, y0 + cs})
			}
			if y == m.Height()-1 && !open(c, maze.S) {
				out = append(out, line{x0, y0 + cs, x0 + cs, y0 + cs})
			}
			if x == m.Width()-1 && !open(c, maze.E) {
				out = append(out, line{x0 + cs, y0, x0 + cs, y0 + cs})
			}
		}
	}
	return out
}

// bridgeRails lists the edges of the primary corridor drawn over each
// bridge, so the passage underneath reads as a tunnel.
func (r renderer) bridgeRails(m maze.Adapter) []line {
	var out []line
	cs := r.cellSize
	inset := cs / 5
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			p := maze.Point{X: x, Y: y}
			c := m.Cell(p)
			if !c.IsBridge() {
				continue
			}
			x0, y0 := r.corner(p)
			if c.Has(maze.N, maze.Under) || c.Has(maze.S, maze.Under) {
				out = append(out,
					line{x0, y0 + inset, x0 + cs, y0 + inset},
					line{x0, y0 + cs - inset, x0 + cs, y0 + cs - inset})
			} else {
				out = append(out,
					line{x0 + inset, y0, x0 + inset, y0 + cs},
					line{x0 + cs - inset, y0, x0 + cs - inset, y0 + cs})
			}
		}
	}
	return out
}

func (r renderer) segmentLine(s Segment) line {
	x1, y1 := r.center(s.A)
	x2, y2 := r.center(s.B)
	return line{x1, y1, x2, y2}
}

func (r renderer) pathLines(path []maze.Point) []line {
	segs := segments(path)
	out := make([]line, len(segs))
	for i, s := range segs {
		out[i] = r.segmentLine(s)
	}
	return out
}

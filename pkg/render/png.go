package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

// RenderPNG rasterizes the maze and the frame's layers. It draws directly
// with gg and needs no external tools.
func RenderPNG(m maze.Adapter, f Frame, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	w, h := r.size(m)
	p := r.palette

	dc := gg.NewContext(int(math.Ceil(w)), int(math.Ceil(h)))
	dc.SetColor(p.Background)
	dc.Clear()
	dc.SetLineCap(gg.LineCapRound)

	r.pngCell(dc, m.Start(), p.Start)
	r.pngCell(dc, m.Finish(), p.Finish)

	pathWidth := r.cellSize / 4
	r.pngLines(dc, r.segmentLines(f.Stale), p.Stale, pathWidth)
	r.pngLines(dc, r.segmentLines(f.Histories), p.Histories, pathWidth)
	r.pngDots(dc, f.Open, p.Open, r.cellSize/5)
	r.pngLines(dc, r.pathLines(f.Best), p.Best, r.cellSize/3)
	if f.Current != nil {
		r.pngDots(dc, []maze.Point{*f.Current}, p.Current, r.cellSize/8)
	}

	r.pngLines(dc, r.bridgeRails(m), p.Bridge, r.wallWidth)
	r.pngLines(dc, r.walls(m), p.Wall, r.wallWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r renderer) pngCell(dc *gg.Context, pt maze.Point, c color.RGBA) {
	x, y := r.corner(pt)
	dc.SetColor(c)
	dc.DrawRectangle(x, y, r.cellSize, r.cellSize)
	dc.Fill()
}

func (r renderer) pngLines(dc *gg.Context, lines []line, c color.RGBA, width float64) {
	if len(lines) == 0 {
		return
	}
	dc.SetColor(c)
	dc.SetLineWidth(width)
	for _, l := range lines {
		dc.DrawLine(l.x1, l.y1, l.x2, l.y2)
		dc.Stroke()
	}
}

func (r renderer) pngDots(dc *gg.Context, pts []maze.Point, c color.RGBA, radius float64) {
	dc.SetColor(c)
	for _, pt := range pts {
		x, y := r.center(pt)
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
}

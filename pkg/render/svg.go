package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

// RenderSVG draws the maze and the frame's layers as an SVG document.
func RenderSVG(m maze.Adapter, f Frame, opts ...Option) []byte {
	r := newRenderer(opts...)
	w, h := r.size(m)
	p := r.palette

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fill, opacity := svgPaint(p.Background)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s" fill-opacity="%s"/>`+"\n", fill, opacity)

	r.svgCell(&buf, m.Start(), p.Start)
	r.svgCell(&buf, m.Finish(), p.Finish)

	pathWidth := r.cellSize / 4
	r.svgLines(&buf, "stale", r.segmentLines(f.Stale), p.Stale, pathWidth)
	r.svgLines(&buf, "histories", r.segmentLines(f.Histories), p.Histories, pathWidth)
	r.svgDots(&buf, "open", f.Open, p.Open, r.cellSize/5)
	r.svgLines(&buf, "best", r.pathLines(f.Best), p.Best, r.cellSize/3)
	if f.Current != nil {
		r.svgDots(&buf, "current", []maze.Point{*f.Current}, p.Current, r.cellSize/8)
	}

	r.svgLines(&buf, "bridges", r.bridgeRails(m), p.Bridge, r.wallWidth)
	r.svgLines(&buf, "walls", r.walls(m), p.Wall, r.wallWidth)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) segmentLines(segs []Segment) []line {
	out := make([]line, len(segs))
	for i, s := range segs {
		out[i] = r.segmentLine(s)
	}
	return out
}

func (r renderer) svgCell(buf *bytes.Buffer, pt maze.Point, c color.RGBA) {
	x, y := r.corner(pt)
	fill, opacity := svgPaint(c)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="%s"/>`+"\n",
		x, y, r.cellSize, r.cellSize, fill, opacity)
}

func (r renderer) svgLines(buf *bytes.Buffer, class string, lines []line, c color.RGBA, width float64) {
	if len(lines) == 0 {
		return
	}
	stroke, opacity := svgPaint(c)
	fmt.Fprintf(buf, `  <g class="%s" stroke="%s" stroke-opacity="%s" stroke-width="%.1f" stroke-linecap="round">`+"\n",
		class, stroke, opacity, width)
	for _, l := range lines {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", l.x1, l.y1, l.x2, l.y2)
	}
	buf.WriteString("  </g>\n")
}

func (r renderer) svgDots(buf *bytes.Buffer, class string, pts []maze.Point, c color.RGBA, radius float64) {
	if len(pts) == 0 {
		return
	}
	fill, opacity := svgPaint(c)
	fmt.Fprintf(buf, `  <g class="%s" fill="%s" fill-opacity="%s">`+"\n", class, fill, opacity)
	for _, pt := range pts {
		x, y := r.center(pt)
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, radius)
	}
	buf.WriteString("  </g>\n")
}

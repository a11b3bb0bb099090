package pipeline

import (
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// Render draws f in the given format.
//
//   - svg, png: the maze with the search layers of f
//   - pdf: the SVG converted with rsvg-convert
//   - dot: the Graphviz source of the cell graph, with f.Best highlighted
//   - graph: that DOT source laid out as SVG by graphviz
func Render(m maze.Adapter, f render.Frame, format string, opts ...render.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.RenderSVG(m, f, opts...), nil
	case FormatPNG:
		return render.RenderPNG(m, f, opts...)
	case FormatPDF:
		return render.ToPDF(render.RenderSVG(m, f, opts...))
	case FormatDOT:
		return []byte(render.ToDOT(m, f.Best)), nil
	case FormatGraph:
		return render.RenderDOT(render.ToDOT(m, f.Best))
	}
	return nil, ValidateFormat(format)
}

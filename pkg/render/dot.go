package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

type state struct {
	p     maze.Point
	plane maze.Plane
}

func (s state) id() string {
	if s.plane == maze.Under {
		return fmt.Sprintf("%d_%d_u", s.p.X, s.p.Y)
	}
	return fmt.Sprintf("%d_%d", s.p.X, s.p.Y)
}

// ToDOT describes the passages of m as an undirected Graphviz graph. Nodes
// are (cell, plane) states reachable along at least one passage; under-plane
// states are drawn dashed. Edges on solution are highlighted.
func ToDOT(m maze.Adapter, solution []maze.Point) string {
	onPath := make(map[Segment]bool)
	for _, s := range segments(solution) {
		onPath[s] = true
	}

	var nodes bytes.Buffer
	var edges bytes.Buffer
	declared := make(map[state]bool)
	declare := func(s state) {
		if declared[s] {
			return
		}
		declared[s] = true
		attrs := fmt.Sprintf("label=%q", s.p.String())
		switch {
		case s.p == m.Start():
			attrs += ", fillcolor=\"#3366cc\", fontcolor=white"
		case s.p == m.Finish():
			attrs += ", fillcolor=\"#cc9900\""
		}
		if s.plane == maze.Under {
			attrs += ", style=\"rounded,filled,dashed\""
		}
		fmt.Fprintf(&nodes, "  %q [%s];\n", s.id(), attrs)
	}

	declare(state{p: m.Start()})
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			p := maze.Point{X: x, Y: y}
			c := m.Cell(p)
			for _, plane := range []maze.Plane{maze.Primary, maze.Under} {
				for _, d := range m.PotentialExits(p) {
					// Emit each passage once, from its west or north end.
					if (d != maze.E && d != maze.S) || !c.Has(d, plane) {
						continue
					}
					dx, dy := m.Delta(d)
					n := p.Add(dx, dy)
					if !m.Valid(n) {
						continue
					}
					to := state{p: n}
					if m.Cell(n).Has(m.Opposite(d), maze.Under) {
						to.plane = maze.Under
					}
					from := state{p: p, plane: plane}
					declare(from)
					declare(to)

					attr := ""
					if onPath[NewSegment(p, n)] {
						attr = " [color=\"#ff5555\", penwidth=3]"
					}
					fmt.Fprintf(&edges, "  %q -- %q%s;\n", from.id(), to.id(), attr)
				}
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph maze {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10, margin=\"0.05,0.02\"];\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph with Graphviz and returns SVG.
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Package render draws bridge mazes and the state of a running search.
//
// # Overview
//
// A search is rendered one [Frame] at a time. A [Tracker] turns solver
// snapshots into frames and remembers every history segment it has seen,
// so later frames can grey out routes the search has abandoned. Each frame
// carries four layers, painted bottom to top:
//
//   - Stale: segments explored earlier that no open route uses any more
//   - Histories: every segment on a route to a frontier node
//   - Open: the frontier cells themselves
//   - Best: the route to the frontier head, or the solution once solved
//
// # Output Formats
//
// [RenderSVG] writes vector frames, [RenderPNG] rasterizes them with
// fogleman/gg, and [ToPDF] converts SVG through the external rsvg-convert
// tool:
//
//	tr := render.NewTracker()
//	frame := tr.Frame(solver.Snapshot())
//	svg := render.RenderSVG(grid, frame)
//	png, err := render.RenderPNG(grid, frame, render.WithCellSize(20))
//	pdf, err := render.ToPDF(svg)
//
// # Maze Graphs
//
// [ToDOT] describes the passages of a maze as an undirected Graphviz graph,
// one node per reachable (cell, plane) state, and [RenderDOT] lays it out
// with the embedded Graphviz engine.
package render

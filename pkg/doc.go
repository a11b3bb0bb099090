// Package pkg provides the core libraries for Labyrinth, a step-wise A* solver
// for two-plane bridge mazes.
//
// # Overview
//
// A bridge maze ("weave" maze) lets a passage cross under another one. Every
// crossing cell therefore carries two planes: the primary plane on top and
// the under plane beneath it. Labyrinth generates such mazes, searches them
// one expansion at a time, and renders every step of the search.
//
// # Architecture
//
// The typical data flow through Labyrinth:
//
//	GenerateConfig / maze JSON
//	         ↓
//	    [maze] package (grid, planes, adapter, BFS reference)
//	         ↓
//	    [astar] package (open set, visited tracker, solver state machine)
//	         ↓
//	    [render] package (frames → SVG/PNG/PDF/DOT)
//
// [pipeline] ties these together with caching and persistence, and is shared
// by the CLI and the HTTP API so both behave identically.
//
// # Quick Start
//
// Generate a maze and solve it one step at a time:
//
//	import (
//	    "github.com/matzehuels/labyrinth/pkg/astar"
//	    "github.com/matzehuels/labyrinth/pkg/maze"
//	    "github.com/matzehuels/labyrinth/pkg/render"
//	)
//
//	g, _ := maze.Generate(maze.GenerateConfig{Width: 20, Height: 20, Weave: 40, Seed: 7})
//	s, _ := astar.New(g, astar.WithHeuristic(astar.Manhattan))
//
//	tracker := render.NewTracker()
//	for !s.State().Terminal() {
//	    if _, err := s.Step(); err != nil {
//	        break
//	    }
//	    svg := render.RenderSVG(g, tracker.Frame(s.Snapshot()))
//	    _ = svg
//	}
//
// # Main Packages
//
// [maze] - Grid of cells with per-plane exits, the Adapter interface the
// solver consumes, the recursive-backtracker generator and a breadth-first
// reference solver.
//
// [astar] - The search itself: [astar.Visited] tracks expanded (point, plane)
// states, [astar.OpenSet] keeps candidates sorted by total cost and prunes
// duplicates, and [astar.Solver] advances through initialized → stepping →
// solved/exhausted.
//
// [render] - Frames built from solver snapshots, drawn as SVG, PNG (gg),
// PDF (rsvg-convert) or a Graphviz state graph.
//
// [io] - JSON import and export of mazes.
//
// [pipeline] - Generate → solve → render with caching, persistence and TOML
// configuration.
//
// [cache] - File and Redis caches keyed by content hashes.
//
// [store] - Recorded labyrinths and knowledge bases, in memory or in MongoDB.
//
// [session] - Interactive solving sessions for the HTTP API.
//
// [observability] - Hooks for metrics, implemented by internal/metrics.
//
// [errors] - Error codes shared by every entry point.
//
// # Testing
//
// Run tests:
//
//	go test ./...                    # All tests
//	go test ./pkg/astar/...          # Specific package
//	go test -tags integration ./...  # Include Redis and MongoDB tests
//
// [maze]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze
// [astar]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/astar
// [render]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/errors
package pkg

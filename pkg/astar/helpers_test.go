package astar

import (
	"testing"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

func pt(x, y int) maze.Point { return maze.Point{X: x, Y: y} }

// openGrid returns a w×h grid with every interior wall removed.
func openGrid(t *testing.T, w, h int) *maze.Grid {
	t.Helper()
	g, err := maze.NewGrid(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				mustCarve(t, g, pt(x, y), maze.E)
			}
			if y+1 < h {
				mustCarve(t, g, pt(x, y), maze.S)
			}
		}
	}
	return g
}

func mustCarve(t *testing.T, g *maze.Grid, p maze.Point, d maze.Direction) {
	t.Helper()
	if err := g.Carve(p, d); err != nil {
		t.Fatalf("Carve(%v, %s): %v", p, d, err)
	}
}

func mustSolver(t *testing.T, m maze.Adapter, opts ...Option) *Solver {
	t.Helper()
	s, err := New(m, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

// drain steps s to completion and returns the popped nodes.
func drain(t *testing.T, s *Solver, limit int) []*Node {
	t.Helper()
	var popped []*Node
	for i := 0; i < limit; i++ {
		n, err := s.Step()
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if n == nil {
			return popped
		}
		popped = append(popped, n)
	}
	t.Fatalf("search did not finish within %d steps", limit)
	return nil
}

func equalPoints(a, b []maze.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

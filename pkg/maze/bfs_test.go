package maze

import "testing"

func openGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				_ = g.Carve(Point{x, y}, E)
			}
			if y+1 < h {
				_ = g.Carve(Point{x, y}, S)
			}
		}
	}
	return g
}

func TestShortestPathOpenGrid(t *testing.T) {
	g := openGrid(t, 3, 3)
	path, ok := ShortestPath(g)
	if !ok {
		t.Fatal("ShortestPath() found no route in an open grid")
	}
	if len(path) != 5 {
		t.Errorf("len(path) = %d, want 5 (%v)", len(path), path)
	}
	if path[0] != g.Start() || path[len(path)-1] != g.Finish() {
		t.Errorf("path endpoints = %v .. %v", path[0], path[len(path)-1])
	}
}

func TestShortestPathStartIsFinish(t *testing.T) {
	g, _ := NewGrid(1, 1)
	path, ok := ShortestPath(g)
	if !ok || len(path) != 1 || path[0] != (Point{0, 0}) {
		t.Errorf("ShortestPath() = %v, %v", path, ok)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g, _ := NewGrid(3, 1)
	_ = g.Carve(Point{0, 0}, E)
	if _, ok := ShortestPath(g); ok {
		t.Error("ShortestPath() should fail when the finish is walled off")
	}
}

func TestShortestPathThroughBridge(t *testing.T) {
	// Column 1 runs north-south under a corridor along row 1.
	g, _ := NewGrid(3, 3)
	_ = g.Carve(Point{0, 1}, E)
	_ = g.Carve(Point{1, 1}, E)
	_ = g.Tunnel(Point{1, 0}, S)
	_ = g.SetStart(Point{1, 0})
	_ = g.SetFinish(Point{1, 2})

	path, ok := ShortestPath(g)
	if !ok {
		t.Fatal("ShortestPath() should cross under the bridge")
	}
	want := []Point{{1, 0}, {1, 1}, {1, 2}}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

package maze

import (
	"strings"
	"testing"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

func TestCellHas(t *testing.T) {
	c := Cell(N|E) | Cell(S|W)<<UnderShift

	tests := []struct {
		d     Direction
		plane Plane
		want  bool
	}{
		{N, Primary, true},
		{E, Primary, true},
		{S, Primary, false},
		{W, Primary, false},
		{S, Under, true},
		{W, Under, true},
		{N, Under, false},
		{E, Under, false},
	}

	for _, tt := range tests {
		if got := c.Has(tt.d, tt.plane); got != tt.want {
			t.Errorf("Has(%s, %s) = %v, want %v", tt.d, tt.plane, got, tt.want)
		}
	}
	if !c.IsBridge() {
		t.Error("cell with under exits should be a bridge")
	}
	if c.Under() != Cell(S|W) {
		t.Errorf("Under() = %#x, want %#x", c.Under(), Cell(S|W))
	}
}

func TestDeltaOpposite(t *testing.T) {
	for _, d := range Directions {
		dx, dy := Delta(d)
		ox, oy := Delta(Opposite(d))
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("Delta(%s) and Delta(Opposite) do not cancel", d)
		}
		if Opposite(Opposite(d)) != d {
			t.Errorf("Opposite is not an involution for %s", d)
		}
	}
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(4, 3)
	if err != nil {
		t.Fatalf("NewGrid() error: %v", err)
	}
	if g.Start() != (Point{0, 0}) || g.Finish() != (Point{3, 2}) {
		t.Errorf("default endpoints = %v %v", g.Start(), g.Finish())
	}
	if g.Valid(Point{4, 0}) || g.Valid(Point{0, -1}) {
		t.Error("Valid accepted an out-of-bounds point")
	}
	if g.Cell(Point{-1, -1}) != 0 {
		t.Error("Cell outside the grid should be zero")
	}

	if _, err := NewGrid(0, 3); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("NewGrid(0, 3) error = %v, want INVALID_DIMENSIONS", err)
	}
}

func TestCarve(t *testing.T) {
	g, _ := NewGrid(2, 2)
	if err := g.Carve(Point{0, 0}, E); err != nil {
		t.Fatalf("Carve() error: %v", err)
	}
	if !g.Cell(Point{0, 0}).Has(E, Primary) || !g.Cell(Point{1, 0}).Has(W, Primary) {
		t.Error("Carve should open both sides")
	}
	if err := g.Carve(Point{1, 0}, E); !errors.Is(err, errors.ErrCodeInvalidPoint) {
		t.Errorf("carving off the grid error = %v, want INVALID_POINT", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestTunnel(t *testing.T) {
	g, _ := NewGrid(3, 3)
	// Horizontal corridor through the middle cell.
	_ = g.Carve(Point{0, 1}, E)
	_ = g.Carve(Point{1, 1}, E)

	if err := g.Tunnel(Point{1, 0}, S); err != nil {
		t.Fatalf("Tunnel() error: %v", err)
	}

	mid := g.Cell(Point{1, 1})
	if !mid.IsBridge() {
		t.Fatal("middle cell should be a bridge")
	}
	if !mid.Has(N, Under) || !mid.Has(S, Under) {
		t.Error("bridge should carry N/S on the under plane")
	}
	if mid.Has(N, Primary) || mid.Has(S, Primary) {
		t.Error("bridge primary plane should be untouched")
	}
	if !g.Cell(Point{1, 2}).Has(N, Primary) {
		t.Error("landing cell should open back toward the bridge")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if got := g.Bridges(); len(got) != 1 || got[0] != (Point{1, 1}) {
		t.Errorf("Bridges() = %v", got)
	}

	if err := g.Tunnel(Point{1, 0}, S); !errors.Is(err, errors.ErrCodeInvalidMaze) {
		t.Errorf("double tunnel error = %v, want INVALID_MAZE", err)
	}
}

func TestValidateDetectsOneSidedOpening(t *testing.T) {
	g, _ := NewGrid(2, 1)
	_ = g.SetCell(Point{0, 0}, Cell(E))
	if err := g.Validate(); !errors.Is(err, errors.ErrCodeInvalidMaze) {
		t.Errorf("Validate() error = %v, want INVALID_MAZE", err)
	}

	_ = g.SetCell(Point{0, 0}, Cell(W))
	if err := g.Validate(); !errors.Is(err, errors.ErrCodeInvalidMaze) {
		t.Errorf("opening off the grid: Validate() error = %v, want INVALID_MAZE", err)
	}
}

func TestSetEndpoints(t *testing.T) {
	g, _ := NewGrid(3, 3)
	if err := g.SetStart(Point{1, 1}); err != nil {
		t.Fatalf("SetStart() error: %v", err)
	}
	if err := g.SetFinish(Point{3, 3}); !errors.Is(err, errors.ErrCodeInvalidPoint) {
		t.Errorf("SetFinish out of bounds error = %v", err)
	}
	if g.Start() != (Point{1, 1}) {
		t.Errorf("Start() = %v", g.Start())
	}
}

func TestClone(t *testing.T) {
	g, _ := NewGrid(2, 2)
	c := g.Clone()
	_ = c.Carve(Point{0, 0}, S)
	if g.Cell(Point{0, 0}) != 0 {
		t.Error("mutating a clone changed the original")
	}
}

func TestString(t *testing.T) {
	g, _ := NewGrid(2, 1)
	_ = g.Carve(Point{0, 0}, E)

	want := strings.Join([]string{
		"+--+--+",
		"|S   F|",
		"+--+--+",
		"",
	}, "\n")
	if got := g.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

package astar

import (
	"math"
	"testing"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

func TestHeuristics(t *testing.T) {
	tests := []struct {
		name string
		h    Heuristic
		want float64
	}{
		{"euclidean", Euclidean, 5},
		{"manhattan", Manhattan, 7},
		{"zero", Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h(pt(1, 1), pt(4, 5)); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("h = %v, want %v", got, tt.want)
			}
			if got := tt.h(pt(2, 2), pt(2, 2)); got != 0 {
				t.Errorf("h at goal = %v, want 0", got)
			}
		})
	}
}

func TestParseHeuristic(t *testing.T) {
	for _, name := range append(HeuristicNames(), "", "Manhattan") {
		if _, err := ParseHeuristic(name); err != nil {
			t.Errorf("ParseHeuristic(%q) error: %v", name, err)
		}
	}

	_, err := ParseHeuristic("chebyshev")
	if !errors.Is(err, errors.ErrCodeInvalidHeuristic) {
		t.Errorf("ParseHeuristic(chebyshev) = %v", err)
	}
}

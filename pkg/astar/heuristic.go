package astar

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// Heuristic estimates the remaining distance from p to goal.
type Heuristic func(p, goal maze.Point) float64

// Euclidean is the straight-line distance. It is the default.
func Euclidean(p, goal maze.Point) float64 {
	return math.Hypot(float64(goal.X-p.X), float64(goal.Y-p.Y))
}

// Manhattan is the grid distance |dx| + |dy|.
func Manhattan(p, goal maze.Point) float64 {
	return math.Abs(float64(goal.X-p.X)) + math.Abs(float64(goal.Y-p.Y))
}

// Zero turns the search into uniform-cost search.
func Zero(maze.Point, maze.Point) float64 { return 0 }

var heuristics = map[string]Heuristic{
	"euclidean": Euclidean,
	"manhattan": Manhattan,
	"zero":      Zero,
}

// HeuristicNames lists the names accepted by [ParseHeuristic], sorted.
func HeuristicNames() []string {
	names := make([]string, 0, len(heuristics))
	for name := range heuristics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseHeuristic looks up a heuristic by name, case-insensitively.
// An empty name selects [Euclidean].
func ParseHeuristic(name string) (Heuristic, error) {
	if name == "" {
		return Euclidean, nil
	}
	h, ok := heuristics[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidHeuristic,
			"unknown heuristic %q (valid: %s)", name, strings.Join(HeuristicNames(), ", "))
	}
	return h, nil
}

package astar

import "github.com/matzehuels/labyrinth/pkg/maze"

// Snapshot is a self-contained copy of solver state between two steps.
// Renderers consume snapshots; they never touch the live frontier.
type Snapshot struct {
	Step       int          `json:"step"`
	State      State        `json:"-"`
	StateName  string       `json:"state"`
	Current    *Node        `json:"current,omitempty"`
	Open       []Node       `json:"open"`
	Best       []maze.Point `json:"best,omitempty"`
	Solution   []maze.Point `json:"solution,omitempty"`
	Expansions int          `json:"expansions"`
	Pruned     int          `json:"pruned"`
}

// Snapshot captures the current state of the search.
func (s *Solver) Snapshot() Snapshot {
	snap := Snapshot{
		Step:       s.steps,
		State:      s.state,
		StateName:  s.state.String(),
		Open:       s.Open(),
		Best:       s.Best(),
		Solution:   s.Solution(),
		Expansions: s.Expansions(),
		Pruned:     s.pruned,
	}
	if last, ok := s.Last(); ok {
		snap.Current = &last
	}
	return snap
}

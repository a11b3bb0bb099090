package render

import (
	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// Segment is one move between adjacent cells. A and B are stored in
// row-major order so a segment and its reverse compare equal.
type Segment struct {
	A, B maze.Point
}

// NewSegment returns the normalized segment between a and b.
func NewSegment(a, b maze.Point) Segment {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return Segment{A: a, B: b}
}

// Frame is everything needed to draw one step of a search.
type Frame struct {
	Step  int
	State astar.State

	Best      []maze.Point
	Open      []maze.Point
	Histories []Segment
	Stale     []Segment

	// Current is the node expanded by the step, if any.
	Current *maze.Point
	// Solved marks Best as the final solution.
	Solved bool
}

// Tracker builds frames from consecutive snapshots of one search and
// accumulates the segments earlier frames explored.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	seen  map[Segment]struct{}
	order []Segment
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[Segment]struct{})}
}

// Frame converts snap into a frame and records its histories.
func (t *Tracker) Frame(snap astar.Snapshot) Frame {
	f := Frame{
		Step:   snap.Step,
		State:  snap.State,
		Best:   append([]maze.Point(nil), snap.Best...),
		Solved: snap.State == astar.Solved,
	}
	if snap.Current != nil {
		p := snap.Current.Point
		f.Current = &p
	}

	live := make(map[Segment]struct{})
	for _, n := range snap.Open {
		f.Open = append(f.Open, n.Point)
		for _, s := range segments(n.Path()) {
			if _, ok := live[s]; ok {
				continue
			}
			live[s] = struct{}{}
			f.Histories = append(f.Histories, s)
		}
	}
	if f.Solved {
		for _, s := range segments(snap.Solution) {
			live[s] = struct{}{}
		}
	}

	for _, s := range t.order {
		if _, ok := live[s]; !ok {
			f.Stale = append(f.Stale, s)
		}
	}
	for _, s := range f.Histories {
		if _, ok := t.seen[s]; !ok {
			t.seen[s] = struct{}{}
			t.order = append(t.order, s)
		}
	}
	return f
}

// Explored returns the number of distinct segments seen so far.
func (t *Tracker) Explored() int { return len(t.order) }

// segments splits a path into consecutive moves.
func segments(path []maze.Point) []Segment {
	if len(path) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		out = append(out, NewSegment(path[i-1], path[i]))
	}
	return out
}

// StaticFrame draws a finished route with no search layers, for rendering
// a maze together with its solution.
func StaticFrame(solution []maze.Point) Frame {
	return Frame{Best: solution, Solved: len(solution) > 0, State: astar.Solved}
}

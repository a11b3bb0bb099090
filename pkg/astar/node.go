package astar

import "github.com/matzehuels/labyrinth/pkg/maze"

// Node is a frontier entry: one (point, plane) state together with the route
// that reached it.
//
// A node held by an [OpenSet] belongs to the set until it is popped or
// pruned. Accessors that expose frontier contents return copies.
type Node struct {
	Point maze.Point `json:"point"`
	Plane maze.Plane `json:"plane"`

	// PathCost is the number of moves from the start.
	PathCost int `json:"path_cost"`
	// Estimate is the heuristic guess for the remaining distance.
	Estimate float64 `json:"estimate"`

	// History holds every point from the start up to, but not including,
	// Point.
	History []maze.Point `json:"history"`
}

// TotalCost is the sort key of the frontier: PathCost + Estimate.
func (n *Node) TotalCost() float64 { return float64(n.PathCost) + n.Estimate }

// Path returns a fresh slice of History followed by Point.
func (n *Node) Path() []maze.Point {
	path := make([]maze.Point, len(n.History)+1)
	copy(path, n.History)
	path[len(n.History)] = n.Point
	return path
}

// Clone returns a deep copy of n.
func (n *Node) Clone() Node {
	c := *n
	c.History = append([]maze.Point(nil), n.History...)
	return c
}

// child builds the successor of n at p. The history slice is freshly
// allocated so siblings never share backing arrays.
func (n *Node) child(p maze.Point, plane maze.Plane, estimate float64) *Node {
	return &Node{
		Point:    p,
		Plane:    plane,
		PathCost: n.PathCost + 1,
		Estimate: estimate,
		History:  n.Path(),
	}
}

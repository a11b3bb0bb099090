package astar

import (
	"sort"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// DuplicateFunc reports whether next, which sorts directly after the freshly
// inserted node, is a stale duplicate of it and should be dropped.
type DuplicateFunc func(inserted, next *Node) bool

// SamePoint treats nodes at the same coordinate as duplicates regardless of
// plane. It is the default pruning rule.
func SamePoint(inserted, next *Node) bool { return inserted.Point == next.Point }

// SamePointAndPlane treats nodes as duplicates only when both coordinate and
// plane match.
func SamePointAndPlane(inserted, next *Node) bool {
	return inserted.Point == next.Point && inserted.Plane == next.Plane
}

// OpenSet is the search frontier, kept in ascending [Node.TotalCost] order.
// Nodes of equal cost stay in insertion order.
//
// The zero value is an empty set using [SamePoint].
type OpenSet struct {
	nodes []*Node
	dup   DuplicateFunc
}

// NewOpenSet returns an empty set that prunes with dup. A nil dup selects
// [SamePoint].
func NewOpenSet(dup DuplicateFunc) *OpenSet {
	return &OpenSet{dup: dup}
}

func (s *OpenSet) duplicate() DuplicateFunc {
	if s.dup == nil {
		return SamePoint
	}
	return s.dup
}

// Insert places n after every node whose total cost is <= its own, then
// drops each immediate successor that the duplicate rule matches. It returns
// the number of nodes pruned.
func (s *OpenSet) Insert(n *Node) int {
	cost := n.TotalCost()
	i := sort.Search(len(s.nodes), func(i int) bool {
		return s.nodes[i].TotalCost() > cost
	})

	s.nodes = append(s.nodes, nil)
	copy(s.nodes[i+1:], s.nodes[i:])
	s.nodes[i] = n

	dup := s.duplicate()
	j := i + 1
	for j < len(s.nodes) && dup(n, s.nodes[j]) {
		j++
	}
	pruned := j - i - 1
	if pruned > 0 {
		s.nodes = append(s.nodes[:i+1], s.nodes[j:]...)
		clear(s.nodes[len(s.nodes) : len(s.nodes)+pruned])
	}
	return pruned
}

// Pop removes and returns the cheapest node. It reports false when the set
// is empty.
func (s *OpenSet) Pop() (*Node, bool) {
	if len(s.nodes) == 0 {
		return nil, false
	}
	n := s.nodes[0]
	s.nodes[0] = nil
	s.nodes = s.nodes[1:]
	return n, true
}

// Head returns a copy of the cheapest node without removing it.
func (s *OpenSet) Head() (Node, bool) {
	if len(s.nodes) == 0 {
		return Node{}, false
	}
	return s.nodes[0].Clone(), true
}

// Len returns the number of queued nodes.
func (s *OpenSet) Len() int { return len(s.nodes) }

// Nodes returns copies of the queued nodes in frontier order.
func (s *OpenSet) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Clear drops every queued node.
func (s *OpenSet) Clear() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}

// Validate walks the whole set and returns an INVARIANT_VIOLATION error if
// any node costs less than its predecessor.
func (s *OpenSet) Validate() error {
	for i := 1; i < len(s.nodes); i++ {
		prev, cur := s.nodes[i-1], s.nodes[i]
		if cur.TotalCost() < prev.TotalCost() {
			return errors.New(errors.ErrCodeInvariant,
				"open set unsorted at %d: %v (%.3f) after %v (%.3f)",
				i, cur.Point, cur.TotalCost(), prev.Point, prev.TotalCost())
		}
	}
	return nil
}

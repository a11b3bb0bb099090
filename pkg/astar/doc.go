// Package astar implements a step-wise A* search over two-plane bridge mazes.
//
// # Overview
//
// A bridge maze lets two unrelated passages cross at the same coordinate: one
// on the primary plane and one running underneath. The search therefore works
// on (point, plane) states rather than bare points. Each call to
// [Solver.Step] performs exactly one expansion so a caller can observe, render,
// or pause the search between steps:
//
//	s, err := astar.New(grid)
//	if err != nil {
//	    return err
//	}
//	for {
//	    n, err := s.Step()
//	    if err != nil {
//	        return err // invariant violation, never retried
//	    }
//	    if n == nil {
//	        break // solved or exhausted
//	    }
//	    draw(s.Snapshot())
//	}
//
// # Frontier
//
// The frontier is an [OpenSet]: a slice kept sorted by [Node.TotalCost].
// Equal-cost nodes keep their insertion order, so the first path found to a
// given cost wins. After every insertion the nodes that immediately follow the
// new node and match the set's [DuplicateFunc] are pruned. The default,
// [SamePoint], compares coordinates only and ignores the plane; it can
// discard a cheaper route on the other plane of a bridge cell. Use
// [WithDuplicateFunc]([SamePointAndPlane]) for plane-aware pruning.
//
// # Visited States
//
// A state is marked in the [Visited] tracker when it is popped for
// expansion, not when it is enqueued. Neighbours that are already marked are
// never enqueued, and a popped node whose state was marked in the meantime is
// dropped without being expanded again.
//
// # Heuristics
//
// [Euclidean] is the default estimate. It is consistent on orthogonal grids
// with unit move cost but is not a proven lower bound for every maze
// topology. [Manhattan] and [Zero] are provided for comparison and any
// function with the [Heuristic] signature may be supplied with
// [WithHeuristic].
//
// # Concurrency
//
// A Solver owns its open set and visited tracker exclusively and is not safe
// for concurrent use. It performs no I/O and starts no goroutines; callers
// that need a bound on search time stop calling Step.
package astar

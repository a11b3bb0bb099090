package maze

// state is a (point, plane) pair, the unit of traversal in a bridged maze.
type state struct {
	p     Point
	plane Plane
}

// ShortestPath finds a fewest-moves route from a.Start() to a.Finish() with a
// breadth-first search over (point, plane) states. It returns the visited
// points in order, including both endpoints, and false if the finish cannot
// be reached.
func ShortestPath(a Adapter) ([]Point, bool) {
	start, finish := state{p: a.Start()}, a.Finish()
	if start.p == finish {
		return []Point{finish}, true
	}

	prev := map[state]state{start: start}
	queue := []state{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		c := a.Cell(cur.p)
		for _, d := range a.PotentialExits(cur.p) {
			if !c.Has(d, cur.plane) {
				continue
			}
			n := Move(a, cur.p, d)
			if !a.Valid(n) {
				continue
			}
			next := state{p: n}
			if a.Cell(n).Has(a.Opposite(d), Under) {
				next.plane = Under
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if n == finish {
				return unwind(prev, next, start), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func unwind(prev map[state]state, end, start state) []Point {
	var path []Point
	for s := end; ; s = prev[s] {
		path = append(path, s.p)
		if s == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

package astar

import (
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// State is the lifecycle phase of a [Solver].
type State int

const (
	// Initialized means no step has been taken yet.
	Initialized State = iota
	// Stepping means at least one node was expanded and the search goes on.
	Stepping
	// Solved means the goal was popped. Terminal.
	Solved
	// Exhausted means the frontier emptied before the goal was reached.
	// Terminal.
	Exhausted
)

var stateNames = [...]string{"initialized", "stepping", "solved", "exhausted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further progress is possible.
func (s State) Terminal() bool { return s == Solved || s == Exhausted }

// Option configures a [Solver].
type Option func(*config)

type config struct {
	heuristic    Heuristic
	duplicate    DuplicateFunc
	start, goal  *maze.Point
	checkOpenSet bool
}

// WithHeuristic replaces the default [Euclidean] estimate.
func WithHeuristic(h Heuristic) Option {
	return func(c *config) { c.heuristic = h }
}

// WithDuplicateFunc replaces the default [SamePoint] pruning rule.
func WithDuplicateFunc(fn DuplicateFunc) Option {
	return func(c *config) { c.duplicate = fn }
}

// WithEndpoints searches from start to goal instead of the maze's own
// start and finish.
func WithEndpoints(start, goal maze.Point) Option {
	return func(c *config) { c.start, c.goal = &start, &goal }
}

// WithInvariantChecks validates the whole open set after every expansion.
// A broken ordering is returned from [Solver.Step] as INVARIANT_VIOLATION.
func WithInvariantChecks() Option {
	return func(c *config) { c.checkOpenSet = true }
}

// Solver runs one A* search, one expansion per [Solver.Step].
type Solver struct {
	maze        maze.Adapter
	start, goal maze.Point
	heuristic   Heuristic
	checkOpen   bool

	open    *OpenSet
	visited *Visited

	state    State
	solution []maze.Point
	last     *Node
	err      error

	steps     int
	pruned    int
	discarded int
}

// New prepares a search over m. The frontier starts with a single node at
// the start point on the primary plane.
func New(m maze.Adapter, opts ...Option) (*Solver, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "maze is nil")
	}
	cfg := config{heuristic: Euclidean, duplicate: SamePoint}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.heuristic == nil {
		return nil, errors.New(errors.ErrCodeInvalidHeuristic, "heuristic is nil")
	}

	start, goal := m.Start(), m.Finish()
	if cfg.start != nil {
		start, goal = *cfg.start, *cfg.goal
	}
	for _, p := range []maze.Point{start, goal} {
		if !m.Valid(p) {
			return nil, errors.New(errors.ErrCodeInvalidPoint,
				"endpoint %v outside %dx%d maze", p, m.Width(), m.Height())
		}
	}

	s := &Solver{
		maze:      m,
		start:     start,
		goal:      goal,
		heuristic: cfg.heuristic,
		checkOpen: cfg.checkOpenSet,
		open:      NewOpenSet(cfg.duplicate),
		visited:   NewVisited(m.Width(), m.Height()),
	}
	s.open.Insert(&Node{Point: start, Plane: maze.Primary, Estimate: s.heuristic(start, goal)})
	return s, nil
}

// Step performs one expansion and returns the node it popped. It returns
// nil, nil once the search is solved or exhausted, and keeps doing so on
// later calls. A non-nil error means an internal invariant broke; the
// solver is then unusable and every later call returns the same error.
func (s *Solver) Step() (*Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.state.Terminal() {
		return nil, nil
	}

	var current *Node
	for {
		n, ok := s.open.Pop()
		if !ok {
			s.state = Exhausted
			return nil, nil
		}
		if n.Point == s.goal {
			s.state = Solved
			s.solution = n.Path()
			s.open.Clear()
			s.finish(n)
			return n, nil
		}
		if !s.visited.IsMarked(n.Point, n.Plane) {
			current = n
			break
		}
		s.discarded++
	}

	s.visited.Mark(current.Point, current.Plane)
	s.expand(current)
	s.state = Stepping
	s.finish(current)

	if s.checkOpen {
		if err := s.open.Validate(); err != nil {
			s.err = err
			return current, err
		}
	}
	return current, nil
}

func (s *Solver) finish(n *Node) {
	s.last = n
	s.steps++
}

// expand enqueues every unexpanded neighbour reachable from n on its plane.
func (s *Solver) expand(n *Node) {
	cell := s.maze.Cell(n.Point)
	for _, d := range s.maze.PotentialExits(n.Point) {
		if !cell.Has(d, n.Plane) {
			continue
		}
		dx, dy := s.maze.Delta(d)
		p := n.Point.Add(dx, dy)
		if !s.maze.Valid(p) {
			continue
		}
		plane := maze.Primary
		if s.maze.Cell(p).Has(s.maze.Opposite(d), maze.Under) {
			plane = maze.Under
		}
		if s.visited.IsMarked(p, plane) {
			continue
		}
		s.pruned += s.open.Insert(n.child(p, plane, s.heuristic(p, s.goal)))
	}
}

// Run steps until the search ends or limit steps have been taken in this
// call. A limit <= 0 means no limit. Hitting the limit first returns a
// STEP_LIMIT error; the solver stays usable.
func (s *Solver) Run(limit int) error {
	for taken := 0; limit <= 0 || taken < limit; taken++ {
		n, err := s.Step()
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
	}
	if s.state.Terminal() {
		return nil
	}
	// An empty frontier ends the search without another step.
	if _, ok := s.open.Head(); !ok {
		s.state = Exhausted
		return nil
	}
	return errors.New(errors.ErrCodeStepLimit, "no result after %d steps", limit)
}

// State returns the current lifecycle phase.
func (s *Solver) State() State { return s.state }

// IsSolved reports whether the goal was reached.
func (s *Solver) IsSolved() bool { return s.state == Solved }

// IsExhausted reports whether the frontier ran dry without reaching the goal.
func (s *Solver) IsExhausted() bool { return s.state == Exhausted }

// Solution returns the route from start to goal, or nil before the search
// is solved.
func (s *Solver) Solution() []maze.Point {
	if s.solution == nil {
		return nil
	}
	return append([]maze.Point(nil), s.solution...)
}

// Open returns a copy of the frontier in cost order.
func (s *Solver) Open() []Node { return s.open.Nodes() }

// Best returns the most promising route so far: the solution once solved,
// otherwise the path of the frontier head. It is nil when the frontier is
// empty and no solution exists.
func (s *Solver) Best() []maze.Point {
	if s.solution != nil {
		return s.Solution()
	}
	head, ok := s.open.Head()
	if !ok {
		return nil
	}
	return head.Path()
}

// Last returns a copy of the node popped by the most recent step.
func (s *Solver) Last() (Node, bool) {
	if s.last == nil {
		return Node{}, false
	}
	return s.last.Clone(), true
}

// Expanded reports whether (p, plane) has been expanded.
func (s *Solver) Expanded(p maze.Point, plane maze.Plane) bool {
	return s.visited.IsMarked(p, plane)
}

// Steps returns the number of Step calls that popped a node.
func (s *Solver) Steps() int { return s.steps }

// Expansions returns the number of distinct states expanded.
func (s *Solver) Expansions() int { return s.visited.Count() }

// Pruned returns the number of frontier nodes dropped as duplicates.
func (s *Solver) Pruned() int { return s.pruned }

// Discarded returns the number of popped nodes skipped because their state
// had already been expanded.
func (s *Solver) Discarded() int { return s.discarded }

// Start returns the search origin.
func (s *Solver) Start() maze.Point { return s.start }

// Goal returns the search target.
func (s *Solver) Goal() maze.Point { return s.goal }

// Maze returns the adapter being searched.
func (s *Solver) Maze() maze.Adapter { return s.maze }

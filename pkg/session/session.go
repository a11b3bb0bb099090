// Package session holds live stepping sessions for the HTTP API.
//
// A [Session] owns one maze, one [astar.Solver] and the [render.Tracker]
// that accumulates its frame layers. Clients advance it one expansion at a
// time and fetch the frame for the latest step. Sessions never share state:
// each one has its own solver, and all access to it goes through the
// session mutex.
//
// # Usage
//
//	sess, err := session.New(grid, session.Options{Heuristic: "manhattan"}, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	frame, err := sess.Step(1)
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")

	// ErrFull is returned when a store has reached its session limit.
	ErrFull = errors.New("too many sessions")
)

// Default durations and limits.
const (
	// DefaultTTL is how long an idle session lives. Every step extends it.
	DefaultTTL = 30 * time.Minute

	// MaxStepsPerCall bounds a single [Session.Step] call.
	MaxStepsPerCall = 1000
)

// Options selects how a session searches.
type Options struct {
	// Heuristic names an [astar.Heuristic]; empty selects euclidean.
	Heuristic string `json:"heuristic,omitempty"`

	// PlaneAware keeps open nodes that share a point but not a plane.
	PlaneAware bool `json:"plane_aware,omitempty"`

	// CheckInvariants validates the open set after every expansion.
	CheckInvariants bool `json:"check_invariants,omitempty"`
}

// Session is one live search.
type Session struct {
	ID        string
	Maze      *maze.Grid
	Options   Options
	CreatedAt time.Time

	mu        sync.Mutex
	solver    *astar.Solver
	tracker   *render.Tracker
	frame     render.Frame
	ttl       time.Duration
	expiresAt time.Time
}

// New starts a session on grid. The solver is seeded but has not stepped.
func New(grid *maze.Grid, opts Options, ttl time.Duration) (*Session, error) {
	h, err := astar.ParseHeuristic(opts.Heuristic)
	if err != nil {
		return nil, err
	}
	solverOpts := []astar.Option{astar.WithHeuristic(h)}
	if opts.PlaneAware {
		solverOpts = append(solverOpts, astar.WithDuplicateFunc(astar.SamePointAndPlane))
	}
	if opts.CheckInvariants {
		solverOpts = append(solverOpts, astar.WithInvariantChecks())
	}
	solver, err := astar.New(grid, solverOpts...)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Maze:      grid,
		Options:   opts,
		CreatedAt: now,
		solver:    solver,
		tracker:   render.NewTracker(),
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}
	s.frame = s.tracker.Frame(solver.Snapshot())
	return s, nil
}

// Step advances the search by up to n expansions, stopping early once it
// is solved or exhausted, and returns the frame of the last step taken.
// n is clamped to 1..MaxStepsPerCall.
func (s *Session) Step(n int) (render.Frame, error) {
	if n < 1 {
		n = 1
	}
	if n > MaxStepsPerCall {
		n = MaxStepsPerCall
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expiresAt = time.Now().Add(s.ttl)
	for i := 0; i < n && !s.solver.State().Terminal(); i++ {
		if _, err := s.solver.Step(); err != nil {
			return s.frame, err
		}
		s.frame = s.tracker.Frame(s.solver.Snapshot())
	}
	return s.frame, nil
}

// Frame returns the frame of the latest step.
func (s *Session) Frame() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Status is a JSON view of a session.
type Status struct {
	ID         string         `json:"id"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Start      maze.Point     `json:"start"`
	Finish     maze.Point     `json:"finish"`
	Options    Options        `json:"options"`
	Snapshot   astar.Snapshot `json:"snapshot"`
	Discarded  int            `json:"discarded"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Terminated bool           `json:"terminated"`
}

// Status captures the session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:         s.ID,
		Width:      s.Maze.Width(),
		Height:     s.Maze.Height(),
		Start:      s.solver.Start(),
		Finish:     s.solver.Goal(),
		Options:    s.Options,
		Snapshot:   s.solver.Snapshot(),
		Discarded:  s.solver.Discarded(),
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.expiresAt,
		Terminated: s.solver.State().Terminal(),
	}
}

// ExpiresAt returns when the session lapses unless stepped again.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt())
}

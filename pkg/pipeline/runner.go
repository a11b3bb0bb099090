package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	mio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the API both use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // Optional; required by Persist
	Logger *log.Logger
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables persistence.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Solution summarizes a finished search. It is what the solution cache holds.
type Solution struct {
	Path       []maze.Point `json:"path,omitempty"`
	State      string       `json:"state"`
	Steps      int          `json:"steps"`
	Expansions int          `json:"expansions"`
	Pruned     int          `json:"pruned"`
	Discarded  int          `json:"discarded"`
}

// Solved reports whether the search reached the goal.
func (s *Solution) Solved() bool {
	return s != nil && s.State == astar.Solved.String()
}

func solutionOf(s *astar.Solver) *Solution {
	return &Solution{
		Path:       s.Solution(),
		State:      s.State().String(),
		Steps:      s.Steps(),
		Expansions: s.Expansions(),
		Pruned:     s.Pruned(),
		Discarded:  s.Discarded(),
	}
}

// FrameFunc receives the frame of every expansion. Returning an error
// aborts the search.
type FrameFunc func(f render.Frame) error

// Result contains the outputs of a pipeline run.
type Result struct {
	// Maze is the generated or imported maze.
	Maze *maze.Grid

	// MazeHash is the content hash of the maze document.
	MazeHash string

	// Solution is the outcome of the search.
	Solution *Solution

	// Reference is the breadth-first shortest path, set when Verify is on.
	Reference []maze.Point

	// Frames lists the frame files written, in step order.
	Frames []string

	// Labyrinth is the persisted record, set when Persist is on.
	Labyrinth *store.Labyrinth

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Optimal reports whether the search found a route as short as the
// breadth-first reference. It is false when Verify was off.
func (r *Result) Optimal() bool {
	if r.Reference == nil || !r.Solution.Solved() {
		return false
	}
	return len(r.Reference) == len(r.Solution.Path)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GenerateTime time.Duration
	SolveTime    time.Duration
	PersistTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MazeHit     bool // Whether the maze came from cache
	SolutionHit bool // Whether the solution came from cache
}

// Execute runs generate → solve → persist with caching. When opts.FrameDir
// is set, one frame per expansion is written there as step-NNN.<format>.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	g, hit, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Maze = g
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.MazeHit = hit
	if data, err := mio.Marshal(g); err == nil {
		result.MazeHash = cache.Hash(data)
	}

	r.Logger.Info("prepared maze",
		"size", fmt.Sprintf("%dx%d", g.Width(), g.Height()),
		"seed", opts.Seed,
		"bridges", len(g.Bridges()),
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Solve, rendering frames on the way
	var onFrame FrameFunc
	if opts.FrameDir != "" {
		if onFrame, err = r.frameWriter(ctx, g, opts, &result.Frames); err != nil {
			return nil, fmt.Errorf("frames: %w", err)
		}
	}
	solveStart := time.Now()
	sol, hit, err := r.Solve(ctx, g, opts, onFrame)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Solution = sol
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolutionHit = hit

	r.Logger.Info("searched maze",
		"state", sol.State,
		"steps", sol.Steps,
		"length", len(sol.Path),
		"frames", len(result.Frames),
		"cached", hit,
		"duration", result.Stats.SolveTime)

	if opts.Verify {
		if ref, ok := maze.ShortestPath(g); ok {
			result.Reference = ref
		} else {
			result.Reference = []maze.Point{}
		}
		r.Logger.Debug("verified against breadth-first search",
			"reference", len(result.Reference), "optimal", result.Optimal())
	}

	// Stage 3: Persist
	if opts.Persist {
		persistStart := time.Now()
		rec, err := r.Persist(ctx, g, sol, opts)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		result.Labyrinth = rec
		result.Stats.PersistTime = time.Since(persistStart)
		r.Logger.Info("recorded labyrinth", "id", rec.ID, "coordinate", rec.Coordinate)
	}

	return result, nil
}

// Generate builds or imports the maze and reports whether it came from cache.
func (r *Runner) Generate(ctx context.Context, opts Options) (*maze.Grid, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	if opts.Input != "" {
		g, err := mio.ImportJSON(opts.Input)
		if err != nil {
			return nil, false, err
		}
		if err := opts.ApplyEndpoints(g); err != nil {
			return nil, false, err
		}
		return g, false, nil
	}

	key := r.Keyer.MazeKey(opts.MazeKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := mio.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "maze")
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "maze")
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Width, opts.Height)
	start := time.Now()
	g, err := maze.Generate(opts.GenerateConfig())
	hooks.OnGenerateComplete(ctx, opts.Width, opts.Height, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := mio.Marshal(g); err == nil {
		r.cacheSet(ctx, "maze", key, data, cache.TTLMaze)
	}
	return g, false, nil
}

// Solve runs the search on g to a terminal state. onFrame, if not nil,
// receives a frame after every expansion; without it the result is served
// from and written to the solution cache.
//
// The context is checked between steps. Exceeding the step limit returns a
// STEP_LIMIT error.
func (r *Runner) Solve(ctx context.Context, g *maze.Grid, opts Options, onFrame FrameFunc) (*Solution, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	key, err := r.SolutionKey(g, opts)
	if err != nil {
		return nil, false, err
	}

	if onFrame == nil && !opts.Refresh {
		var cached Solution
		if err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "solution")
			return &cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "solution")
	}

	solverOpts, err := opts.SolverOptions()
	if err != nil {
		return nil, false, err
	}
	s, err := astar.New(g, solverOpts...)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, opts.Heuristic, g.Width()*g.Height())
	start := time.Now()
	err = search(ctx, s, opts.StepLimit(g.Width(), g.Height()), onFrame)
	sol := solutionOf(s)
	hooks.OnSolveComplete(ctx, opts.Heuristic, sol.State, sol.Steps, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(sol); err == nil {
		r.cacheSet(ctx, "solution", key, data, cache.TTLSolution)
	}
	return sol, false, nil
}

func search(ctx context.Context, s *astar.Solver, limit int, onFrame FrameFunc) error {
	var tracker *render.Tracker
	if onFrame != nil {
		tracker = render.NewTracker()
	}
	for !s.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Steps() >= limit {
			return errors.New(errors.ErrCodeStepLimit,
				"search still %s after %d steps", s.State(), limit)
		}
		n, err := s.Step()
		if err != nil {
			return err
		}
		if n != nil && onFrame != nil {
			if err := onFrame(tracker.Frame(s.Snapshot())); err != nil {
				return err
			}
		}
	}
	return nil
}

// SolutionKey returns the cache key of a search over g.
func (r *Runner) SolutionKey(g *maze.Grid, opts Options) (string, error) {
	data, err := mio.Marshal(g)
	if err != nil {
		return "", err
	}
	return r.Keyer.SolutionKey(cache.Hash(data), opts.SolutionKeyOpts()), nil
}

// RenderFrame draws one frame of g in opts.Format.
func (r *Runner) RenderFrame(ctx context.Context, g maze.Adapter, f render.Frame, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := Render(g, f, opts.Format, render.WithCellSize(opts.CellSize))
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	return data, err
}

// Persist records a solved search in the runner's store.
func (r *Runner) Persist(ctx context.Context, g *maze.Grid, sol *Solution, opts Options) (*store.Labyrinth, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no store configured")
	}
	if !sol.Solved() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "only solved labyrinths are recorded")
	}
	data, err := mio.Marshal(g)
	if err != nil {
		return nil, err
	}
	performer := opts.Performer
	if performer == "" {
		performer = DefaultPerformer
	}
	rec := &store.Labyrinth{
		KnowledgeBaseID: opts.KnowledgeBaseID,
		Coordinate:      store.EncodeCoordinate(sol.Path),
		Performer:       performer,
		Width:           g.Width(),
		Height:          g.Height(),
		Seed:            opts.Seed,
		Heuristic:       opts.Heuristic,
		Steps:           sol.Steps,
		Maze:            data,
	}
	if err := r.Store.SaveLabyrinth(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// frameWriter prepares opts.FrameDir and returns a callback that renders
// each frame into it. Frames left over from earlier runs are removed.
func (r *Runner) frameWriter(ctx context.Context, g *maze.Grid, opts Options, written *[]string) (FrameFunc, error) {
	if err := os.MkdirAll(opts.FrameDir, 0755); err != nil {
		return nil, err
	}
	old, err := filepath.Glob(filepath.Join(opts.FrameDir, "step-*.*"))
	if err != nil {
		return nil, err
	}
	for _, p := range old {
		if err := os.Remove(p); err != nil {
			return nil, err
		}
	}

	solKey, err := r.SolutionKey(g, opts)
	if err != nil {
		return nil, err
	}
	return func(f render.Frame) error {
		data, err := r.renderCached(ctx, solKey, g, f, opts)
		if err != nil {
			return fmt.Errorf("step %d: %w", f.Step, err)
		}
		path := filepath.Join(opts.FrameDir, FrameName(f.Step, opts.Format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		*written = append(*written, path)
		return nil
	}, nil
}

func (r *Runner) renderCached(ctx context.Context, solKey string, g *maze.Grid, f render.Frame, opts Options) ([]byte, error) {
	key := r.Keyer.FrameKey(solKey, opts.FrameKeyOpts(f.Step))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "frame")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "frame")
	}
	data, err := r.RenderFrame(ctx, g, f, opts)
	if err != nil {
		return nil, err
	}
	r.cacheSet(ctx, "frame", key, data, cache.TTLFrame)
	return data, nil
}

// cacheSet writes an entry and reports it. Cache failures never fail a run.
func (r *Runner) cacheSet(ctx context.Context, stage, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

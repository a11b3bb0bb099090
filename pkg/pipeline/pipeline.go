// Package pipeline provides the generate → solve → render pipeline for
// labyrinth.
//
// The CLI, the interactive stepper and the HTTP API all drive searches
// through this package, so defaults, caching and frame naming stay the same
// for every entry point.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Generate: Build a maze from a seed, or import one from a JSON file
//  2. Solve: Step an A* search to completion, optionally emitting a frame per step
//  3. Render: Draw frames as SVG, PNG, PDF, DOT or a graphviz diagram
//  4. Persist: Record the solved labyrinth in a [store.Store]
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.Options{
//	    Width:    20,
//	    Height:   20,
//	    Braid:    10,
//	    FrameDir: "steps",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Solution.Path)
//
// Run individual stages:
//
//	g, _, err := runner.Generate(ctx, opts)
//	sol, _, err := runner.Solve(ctx, g, opts, nil)
//	svg, err := runner.RenderFrame(ctx, g, render.StaticFrame(sol.Path), opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default maze width in cells.
	DefaultWidth = 10

	// DefaultHeight is the default maze height in cells.
	DefaultHeight = 10

	// DefaultBraid is the default percentage of dead ends that get removed.
	DefaultBraid = 10

	// DefaultWeave is the default tunnelling percentage. Zero yields a flat
	// maze without bridges.
	DefaultWeave = 0

	// DefaultHeuristic names the default search heuristic.
	DefaultHeuristic = "euclidean"

	// DefaultCellSize is the default rendered cell size in pixels.
	DefaultCellSize = 30

	// DefaultFormat is the default frame format.
	DefaultFormat = FormatSVG

	// DefaultPerformer is recorded on persisted labyrinths when none is given.
	DefaultPerformer = "labyrinth"
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatDOT   = "dot"
	FormatGraph = "graph" // graphviz-laid-out SVG of the cell graph
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatGraph: true,
}

// Extension returns the file extension written for a format.
func Extension(format string) string {
	if format == FormatGraph {
		return "graph.svg"
	}
	return format
}

// FrameName returns the file name of the frame for step.
func FrameName(step int, format string) string {
	return fmt.Sprintf("step-%03d.%s", step, Extension(format))
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Braid  int         `json:"braid,omitempty"`
	Weave  int         `json:"weave,omitempty"`
	Seed   int64       `json:"seed,omitempty"`
	Start  *maze.Point `json:"start,omitempty"`
	Finish *maze.Point `json:"finish,omitempty"`
	Input  string      `json:"-"` // Maze JSON file; replaces generation

	// Solve options
	Heuristic  string `json:"heuristic,omitempty"`
	PlaneAware bool   `json:"plane_aware,omitempty"`
	MaxSteps   int    `json:"max_steps,omitempty"` // 0 = width*height*2+1
	Verify     bool   `json:"verify,omitempty"`

	// CheckInvariants validates the whole open set after every expansion.
	CheckInvariants bool `json:"check_invariants,omitempty"`

	// Render options
	Format   string `json:"format,omitempty"`
	CellSize int    `json:"cell_size,omitempty"`
	FrameDir string `json:"-"`

	// Persist options
	Persist         bool   `json:"persist,omitempty"`
	Performer       string `json:"performer,omitempty"`
	KnowledgeBaseID string `json:"knowledge_base_id,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot, graph)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Performer == "" {
		o.Performer = DefaultPerformer
	}
	if o.FrameDir != "" {
		if err := errors.ValidateFramePath(o.FrameDir); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForGenerate applies generation defaults and validates them.
// A zero seed is replaced with a time-based one so the run can be recorded
// and reproduced.
func (o *Options) ValidateForGenerate() error {
	if o.Input != "" {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o.GenerateConfig().Validate()
}

// ValidateForSolve applies solver defaults and validates them.
func (o *Options) ValidateForSolve() error {
	if o.Heuristic == "" {
		o.Heuristic = DefaultHeuristic
	}
	if _, err := astar.ParseHeuristic(o.Heuristic); err != nil {
		return err
	}
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_steps must not be negative, got %d", o.MaxSteps)
	}
	return nil
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.CellSize < 4 || o.CellSize > 200 {
		return errors.New(errors.ErrCodeInvalidInput, "cell_size must be between 4 and 200, got %d", o.CellSize)
	}
	return ValidateFormat(o.Format)
}

// GenerateConfig returns the maze generator configuration.
func (o *Options) GenerateConfig() maze.GenerateConfig {
	return maze.GenerateConfig{
		Width:  o.Width,
		Height: o.Height,
		Braid:  o.Braid,
		Weave:  o.Weave,
		Seed:   o.Seed,
		Start:  o.Start,
		Finish: o.Finish,
	}
}

// ApplyEndpoints moves the endpoints of an imported maze to Start and
// Finish when they are set.
func (o *Options) ApplyEndpoints(g *maze.Grid) error {
	if o.Start != nil {
		if err := g.SetStart(*o.Start); err != nil {
			return err
		}
	}
	if o.Finish != nil {
		if err := g.SetFinish(*o.Finish); err != nil {
			return err
		}
	}
	return nil
}

// SolverOptions returns the astar options for this run.
func (o *Options) SolverOptions() ([]astar.Option, error) {
	h, err := astar.ParseHeuristic(o.Heuristic)
	if err != nil {
		return nil, err
	}
	opts := []astar.Option{astar.WithHeuristic(h)}
	if o.PlaneAware {
		opts = append(opts, astar.WithDuplicateFunc(astar.SamePointAndPlane))
	}
	if o.CheckInvariants {
		opts = append(opts, astar.WithInvariantChecks())
	}
	return opts, nil
}

// StepLimit returns the effective step bound for a maze of the given size.
func (o *Options) StepLimit(width, height int) int {
	if o.MaxSteps > 0 {
		return o.MaxSteps
	}
	return width*height*2 + 1
}

// MazeKeyOpts returns cache key options for maze generation.
func (o *Options) MazeKeyOpts() cache.MazeKeyOpts {
	k := cache.MazeKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Braid:  o.Braid,
		Weave:  o.Weave,
		Seed:   o.Seed,
	}
	if o.Start != nil {
		k.Start = &[2]int{o.Start.X, o.Start.Y}
	}
	if o.Finish != nil {
		k.Finish = &[2]int{o.Finish.X, o.Finish.Y}
	}
	return k
}

// SolutionKeyOpts returns cache key options for a search.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{
		Heuristic:  o.Heuristic,
		PlaneAware: o.PlaneAware,
		MaxSteps:   o.MaxSteps,
	}
}

// FrameKeyOpts returns cache key options for one rendered frame.
func (o *Options) FrameKeyOpts(step int) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Step:     step,
		Format:   o.Format,
		CellSize: o.CellSize,
	}
}

package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// stepCommand creates the interactive step command.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		noCache bool
		delay   time.Duration
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Step through a search interactively",
		Long: `Step through an A* search in the terminal.

Each key press expands one node. The maze shows the open set, explored
paths, routes that fell off the frontier and the current best route.

Keys:
  space, enter  expand one node
  r             run or pause
  f             finish the search
  q             quit`,
		Args: cobra.NoArgs,
	}
	mf := bindMazeFlags(cmd, &opts, true)
	bindSolveFlags(cmd, &opts)
	cmd.Flags().DurationVar(&delay, "delay", 60*time.Millisecond, "time between steps while running")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := mf.apply(); err != nil {
			return err
		}
		return c.runStep(cmd.Context(), c.withConfig(cmd, opts), delay, noCache)
	}
	return cmd
}

func (c *CLI) runStep(ctx context.Context, opts pipeline.Options, delay time.Duration, noCache bool) error {
	if err := opts.ValidateForGenerate(); err != nil {
		return err
	}
	if err := opts.ValidateForSolve(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	g, _, err := runner.Generate(ctx, opts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	solverOpts, err := opts.SolverOptions()
	if err != nil {
		return err
	}
	s, err := astar.New(g, solverOpts...)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%dx%d maze · %s", g.Width(), g.Height(), opts.Heuristic)
	if opts.PlaneAware {
		title += " · plane-aware"
	}
	model := NewStepperModel(g, s, title, delay, opts.StepLimit(g.Width(), g.Height()))

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("stepper: %w", err)
	}
	if m, ok := final.(StepperModel); ok && m.Solver.IsSolved() {
		printSuccess("Solved in %s", plural(m.Solver.Steps(), "step"))
	}
	return nil
}

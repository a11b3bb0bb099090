package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/store"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		showMap bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a maze with A*",
		Long: `Solve a generated or imported maze with a step-wise A* search.

By default the open set keeps one node per cell regardless of plane, so a
route over a bridge can hide a route under it. --plane-aware keeps both.
--verify cross-checks the result against a breadth-first search over
(cell, plane) states and reports whether the route is optimal.

Solutions are cached per maze and search settings.`,
		Example: `  labyrinth solve --width 30 --height 30 --weave 50 --verify
  labyrinth solve -i maze.json --heuristic manhattan -o solution.svg
  labyrinth solve --seed 7 --persist --performer alice`,
		Args: cobra.NoArgs,
	}
	mf := bindMazeFlags(cmd, &opts, true)
	bindSolveFlags(cmd, &opts)
	bindRenderFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "render the solved maze to this file")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check optimality against breadth-first search")
	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "record the solved labyrinth in the configured store")
	cmd.Flags().StringVar(&opts.Performer, "performer", pipeline.DefaultPerformer, "name recorded with --persist")
	cmd.Flags().StringVar(&opts.KnowledgeBaseID, "kb", "", "knowledge base to record into with --persist")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&showMap, "map", false, "draw the maze as ASCII art")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := mf.apply(); err != nil {
			return err
		}
		return c.runSolve(cmd.Context(), c.withConfig(cmd, opts), output, noCache, showMap)
	}
	return cmd
}

func (c *CLI) runSolve(ctx context.Context, opts pipeline.Options, output string, noCache, showMap bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	prog := newProgress(runner.Logger)
	spinner := newSpinnerWithContext(ctx, "Searching...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Search failed")
		return err
	}
	spinner.Stop()
	prog.done("Search finished")

	g, sol := result.Maze, result.Solution
	if showMap {
		fmt.Print(g.String())
	}
	if sol.Solved() {
		printSuccess("Solved in %s", plural(sol.Steps, "step"))
		printKeyValue("Route", store.EncodeCoordinate(sol.Path))
	} else {
		printWarning("No route from %v to %v (%s)", g.Start(), g.Finish(), plural(sol.Steps, "step"))
	}
	printStats(result.CacheInfo.SolutionHit,
		fmt.Sprintf("%dx%d", g.Width(), g.Height()),
		plural(len(sol.Path), "cell"),
		plural(sol.Expansions, "expansion"),
		fmt.Sprintf("%d pruned", sol.Pruned))

	if opts.Verify {
		switch {
		case result.Optimal():
			printSuccess("Optimal: matches breadth-first length %d", len(result.Reference))
		case len(result.Reference) == 0 && !sol.Solved():
			printInfo("Breadth-first search agrees: no route")
		case !sol.Solved():
			printError("Missed a route: breadth-first search found %d cells", len(result.Reference))
		default:
			printWarning("Not optimal: breadth-first route has %d cells, A* found %d",
				len(result.Reference), len(sol.Path))
		}
	}

	if result.Labyrinth != nil {
		printSuccess("Recorded labyrinth %s", result.Labyrinth.ID)
	}

	if output != "" {
		data, err := runner.RenderFrame(ctx, g, render.StaticFrame(sol.Path), opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}

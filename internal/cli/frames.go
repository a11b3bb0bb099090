package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// framesCommand creates the frames command.
func (c *CLI) framesCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{FrameDir: "frames"}

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Render every step of a search",
		Long: `Solve a maze and render one frame per expansion into a directory.

Frames are named step-001.svg, step-002.svg and so on. Each frame shows the
open set, the paths explored so far, the current best route, and routes
that were pruned from the frontier in grey. Old step-* files in the
directory are removed first.`,
		Example: `  labyrinth frames --width 15 --height 15 --weave 30 --dir out
  labyrinth frames -i maze.json -f png --cell-size 20`,
		Args: cobra.NoArgs,
	}
	mf := bindMazeFlags(cmd, &opts, true)
	bindSolveFlags(cmd, &opts)
	bindRenderFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.FrameDir, "dir", "d", opts.FrameDir, "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := mf.apply(); err != nil {
			return err
		}
		return c.runFrames(cmd.Context(), c.withConfig(cmd, opts), noCache)
	}
	return cmd
}

func (c *CLI) runFrames(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s frames...", opts.Format))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	sol := result.Solution
	if sol.Solved() {
		printSuccess("Rendered %s", plural(len(result.Frames), "frame"))
	} else {
		printWarning("Rendered %s; no route found", plural(len(result.Frames), "frame"))
	}
	printDetail("Directory: %s", opts.FrameDir)
	if n := len(result.Frames); n > 0 {
		printFile(result.Frames[n-1])
	}
	printStats(result.CacheInfo.MazeHit,
		plural(sol.Steps, "step"),
		plural(len(sol.Path), "cell"),
		fmt.Sprintf("%d pruned", sol.Pruned))
	return nil
}

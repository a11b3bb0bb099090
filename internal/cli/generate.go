package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	mio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a maze",
		Long: `Generate a maze with a randomized recursive backtracker.

--braid opens up a share of the dead ends so the maze has loops, and
--weave lets corridors tunnel under each other, creating bridges. Without
-o the maze is drawn as ASCII art; with -o it is written as JSON that
'solve --input' and the HTTP API accept.`,
		Example: `  labyrinth generate --width 20 --height 12 --weave 40
  labyrinth generate --seed 7 -o maze.json`,
		Args: cobra.NoArgs,
	}
	mf := bindMazeFlags(cmd, &opts, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the maze as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := mf.apply(); err != nil {
			return err
		}
		return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), c.withConfig(cmd, opts), output, noCache)
	}
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, w io.Writer, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForGenerate(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	g, cached, err := runner.Generate(ctx, opts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if output == "" {
		fmt.Fprint(w, g.String())
	} else {
		if err := mio.ExportJSON(g, output); err != nil {
			return fmt.Errorf("export %s: %w", output, err)
		}
		printSuccess("Generated %dx%d maze", g.Width(), g.Height())
		printFile(output)
	}
	printStats(cached,
		fmt.Sprintf("%dx%d", g.Width(), g.Height()),
		fmt.Sprintf("seed %d", opts.Seed),
		plural(len(g.Bridges()), "bridge"))
	if output != "" {
		printNextStep("Solve it", appName+" solve -i "+output+" --verify")
	}
	return nil
}

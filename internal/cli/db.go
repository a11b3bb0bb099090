package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/errors"
	mio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/store"
)

// dbCommand creates the db command with subcommands.
func (c *CLI) dbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage recorded labyrinths",
		Long: `Manage the labyrinth store.

Solved labyrinths are recorded with 'solve --persist'. Configure a MongoDB
backend in the config file to keep them between runs:

  [store]
  backend = "mongo"
  mongo_uri = "mongodb://localhost:27017"`,
	}

	cmd.AddCommand(c.dbInitCommand())
	cmd.AddCommand(c.dbClearCommand())
	cmd.AddCommand(c.dbListCommand())
	cmd.AddCommand(c.dbShowCommand())
	cmd.AddCommand(c.dbKBCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	if c.config.Store.Backend != pipeline.StoreMongo {
		printWarning("Using the in-memory store; records are lost on exit")
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))
	return fn(st)
}

// dbInitCommand creates the "db init" subcommand.
func (c *CLI) dbInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create collections and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Init(cmd.Context()); err != nil {
					return fmt.Errorf("init store: %w", err)
				}
				printSuccess("Store initialized")
				return nil
			})
		},
	}
}

// dbClearCommand creates the "db clear" subcommand.
func (c *CLI) dbClearCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded labyrinth and knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to clear the store without --yes")
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
				printSuccess("Store cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// dbListCommand creates the "db list" subcommand.
func (c *CLI) dbListCommand() *cobra.Command {
	var opts store.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded labyrinths, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				recs, err := st.ListLabyrinths(cmd.Context(), opts)
				if err != nil {
					return fmt.Errorf("list labyrinths: %w", err)
				}
				if len(recs) == 0 {
					printInfo("No labyrinths recorded")
					return nil
				}
				fmt.Println(labyrinthTable(recs))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.KnowledgeBaseID, "kb", "", "only list records in this knowledge base")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum records to list")
	return cmd
}

// labyrinthTable renders records as a table.
func labyrinthTable(recs []store.Labyrinth) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.Heuristic,
			strconv.Itoa(r.Steps),
			r.Performer,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Size", "Heuristic", "Steps", "Performer", "Recorded").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// dbShowCommand creates the "db show" subcommand.
func (c *CLI) dbShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded labyrinth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.GetLabyrinth(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printKeyValue("ID", rec.ID)
				printKeyValue("Performer", rec.Performer)
				printKeyValue("Size", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
				printKeyValue("Seed", strconv.FormatInt(rec.Seed, 10))
				printKeyValue("Heuristic", rec.Heuristic)
				printKeyValue("Steps", strconv.Itoa(rec.Steps))
				printKeyValue("Route", rec.Coordinate)
				if len(rec.Maze) == 0 {
					return nil
				}
				g, err := mio.Unmarshal(rec.Maze)
				if err != nil {
					return fmt.Errorf("decode recorded maze: %w", err)
				}
				if output != "" {
					if err := mio.ExportJSON(g, output); err != nil {
						return err
					}
					printFile(output)
					return nil
				}
				fmt.Print(g.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "export the recorded maze as JSON")
	return cmd
}

// dbKBCommand creates the "db kb" subcommand.
func (c *CLI) dbKBCommand() *cobra.Command {
	var kb store.KnowledgeBase
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Create a knowledge base to group recorded labyrinths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kb.Title == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--title is required")
			}
			if kb.Performer == "" {
				kb.Performer = c.config.Store.Performer
			}
			if kb.Performer == "" {
				kb.Performer = pipeline.DefaultPerformer
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.CreateKnowledgeBase(cmd.Context(), &kb); err != nil {
					return fmt.Errorf("create knowledge base: %w", err)
				}
				printSuccess("Created knowledge base %s", StyleHighlight.Render(kb.ID))
				printNextStep("Record into it", appName+" solve --persist --kb "+kb.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kb.Title, "title", "", "knowledge base title")
	cmd.Flags().StringVar(&kb.Performer, "performer", "", "owner of the knowledge base")
	return cmd
}

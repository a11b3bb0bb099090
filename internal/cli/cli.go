package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "labyrinth"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	config pipeline.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Labyrinth generates weave mazes and solves them step by step with A*",
		Long: `Labyrinth generates two-plane "weave" mazes, where corridors may pass
over and under each other at bridges, and solves them with a step-wise A*
search. Every expansion can be rendered as a frame, stepped through in the
terminal or driven over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/labyrinth/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.dbCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when present.
func (c *CLI) loadConfig() error {
	var (
		cfg pipeline.Config
		err error
	)
	if c.ConfigPath != "" {
		cfg, err = pipeline.LoadConfig(c.ConfigPath)
	} else {
		cfg, err = pipeline.LoadDefaultConfig()
	}
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and
// store. The caller must Close it.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx)
	if err != nil {
		ch.Close()
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns+":")
	}
	return pipeline.NewRunner(ch, keyer, st, loggerFromContext(ctx)), nil
}

// newCache opens the configured cache backend. A file cache that cannot
// find a home directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache || cfg.Backend == pipeline.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == pipeline.CacheRedis {
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = appName + ":"
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Prefix: prefix})
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured persistence backend. The memory store
// lives only as long as the process.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.config.Store
	if cfg.Backend != pipeline.StoreMongo {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.Database})
	if err != nil {
		return nil, fmt.Errorf("open mongo store: %w", err)
	}
	return st, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the default.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/labyrinth/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// mazeFlags binds the generation flags.
type mazeFlags struct {
	opts   *pipeline.Options
	start  string
	finish string
	input  string
}

func bindMazeFlags(cmd *cobra.Command, opts *pipeline.Options, withInput bool) *mazeFlags {
	mf := &mazeFlags{opts: opts}
	f := cmd.Flags()
	f.IntVar(&opts.Width, "width", pipeline.DefaultWidth, "maze width in cells")
	f.IntVar(&opts.Height, "height", pipeline.DefaultHeight, "maze height in cells")
	f.IntVar(&opts.Braid, "braid", pipeline.DefaultBraid, "percentage of dead ends to open up (0-100)")
	f.IntVar(&opts.Weave, "weave", pipeline.DefaultWeave, "percentage chance of tunnelling under a corridor (0-100)")
	f.Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time-based)")
	f.StringVar(&mf.start, "start", "", "start cell as x,y (default top-left)")
	f.StringVar(&mf.finish, "finish", "", "finish cell as x,y (default bottom-right)")
	if withInput {
		f.StringVarP(&mf.input, "input", "i", "", "solve a maze JSON file instead of generating one")
	}
	return mf
}

// apply parses the point flags into the bound options.
func (mf *mazeFlags) apply() error {
	var err error
	if mf.opts.Start, err = parsePoint("start", mf.start); err != nil {
		return err
	}
	if mf.opts.Finish, err = parsePoint("finish", mf.finish); err != nil {
		return err
	}
	mf.opts.Input = mf.input
	return nil
}

func bindSolveFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&opts.Heuristic, "heuristic", pipeline.DefaultHeuristic, "search heuristic: euclidean, manhattan, zero")
	f.BoolVar(&opts.PlaneAware, "plane-aware", false, "keep open nodes that share a cell but not a plane")
	f.IntVar(&opts.MaxSteps, "max-steps", 0, "abort after this many steps (0 = width*height*2+1)")
	f.BoolVar(&opts.CheckInvariants, "check", false, "validate the open set after every expansion")
}

func bindRenderFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "output format: svg, png, pdf, dot, graph")
	f.IntVar(&opts.CellSize, "cell-size", pipeline.DefaultCellSize, "cell size in pixels")
}

// parsePoint parses "x,y". An empty string yields nil.
func parsePoint(name, s string) (*maze.Point, error) {
	if s == "" {
		return nil, nil
	}
	pts, err := store.ParseCoordinate(s)
	if err != nil || len(pts) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidPoint, "--%s must be x,y, got %q", name, s)
	}
	return &pts[0], nil
}

// withConfig layers the flag values over the config file: a flag the user
// set wins, otherwise a non-zero config value replaces the flag default.
func (c *CLI) withConfig(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	cfg := c.config.Options()
	flags := cmd.Flags()
	use := func(name string) bool {
		return flags.Lookup(name) != nil && !flags.Changed(name)
	}

	if use("width") && cfg.Width != 0 {
		opts.Width = cfg.Width
	}
	if use("height") && cfg.Height != 0 {
		opts.Height = cfg.Height
	}
	if use("braid") && cfg.Braid != 0 {
		opts.Braid = cfg.Braid
	}
	if use("weave") && cfg.Weave != 0 {
		opts.Weave = cfg.Weave
	}
	if use("heuristic") && cfg.Heuristic != "" {
		opts.Heuristic = cfg.Heuristic
	}
	if use("plane-aware") && cfg.PlaneAware {
		opts.PlaneAware = true
	}
	if use("max-steps") && cfg.MaxSteps != 0 {
		opts.MaxSteps = cfg.MaxSteps
	}
	if use("format") && cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if use("cell-size") && cfg.CellSize != 0 {
		opts.CellSize = cfg.CellSize
	}
	if use("performer") && cfg.Performer != "" {
		opts.Performer = cfg.Performer
	}
	return opts
}

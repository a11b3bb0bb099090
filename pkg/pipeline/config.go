package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Config is the TOML configuration file. Every field is optional; zero
// values fall back to the package defaults.
//
//	[maze]
//	width = 20
//	height = 20
//	braid = 10
//	weave = 30
//
//	[solver]
//	heuristic = "manhattan"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Maze   MazeConfig   `toml:"maze"`
	Solver SolverConfig `toml:"solver"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// MazeConfig holds generation defaults.
type MazeConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Braid  int `toml:"braid"`
	Weave  int `toml:"weave"`
}

// SolverConfig holds search defaults.
type SolverConfig struct {
	Heuristic  string `toml:"heuristic"`
	PlaneAware bool   `toml:"plane_aware"`
	MaxSteps   int    `toml:"max_steps"`
}

// RenderConfig holds frame defaults.
type RenderConfig struct {
	Format   string `toml:"format"`
	CellSize int    `toml:"cell_size"`
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"` // file (default), redis or none
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`

	// Namespace scopes cache keys so several deployments can share one
	// backend.
	Namespace string `toml:"namespace"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend   string `toml:"backend"` // memory (default) or mongo
	MongoURI  string `toml:"mongo_uri"`
	Database  string `toml:"database"`
	Performer string `toml:"performer"`
}

// ServerConfig configures `labyrinth serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	SessionTTL  string `toml:"session_ttl"`
	MaxSessions int    `toml:"max_sessions"`
}

// DefaultServerAddr is the listen address of the HTTP API.
const DefaultServerAddr = ":8080"

// DefaultConfigPath returns $XDG_CONFIG_HOME/labyrinth/config.toml, falling
// back to ~/.config.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "labyrinth", "config.toml"), nil
}

// LoadConfig reads a TOML config file. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidFormat,
			"config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefaultConfig reads the config at DefaultConfigPath. A missing file
// yields an empty Config.
func LoadDefaultConfig() (Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Config{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, nil
	}
	return LoadConfig(path)
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", StoreMemory, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.Render.Format != "" {
		if err := ValidateFormat(c.Render.Format); err != nil {
			return err
		}
	}
	if _, err := c.Server.TTL(); err != nil {
		return err
	}
	return nil
}

// TTL parses the session lifetime. Empty means zero (use the default).
func (s ServerConfig) TTL() (time.Duration, error) {
	if s.SessionTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.SessionTTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "server.session_ttl")
	}
	return d, nil
}

// Options returns pipeline options seeded from the file. Command-line flags
// are applied on top by the caller.
func (c Config) Options() Options {
	return Options{
		Width:      c.Maze.Width,
		Height:     c.Maze.Height,
		Braid:      c.Maze.Braid,
		Weave:      c.Maze.Weave,
		Heuristic:  c.Solver.Heuristic,
		PlaneAware: c.Solver.PlaneAware,
		MaxSteps:   c.Solver.MaxSteps,
		Format:     c.Render.Format,
		CellSize:   c.Render.CellSize,
		Performer:  c.Store.Performer,
	}
}

package maze

import (
	"math/rand"
	"time"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// GenerateConfig controls [Generate].
type GenerateConfig struct {
	Width, Height int

	// Braid is the percentage (0-100) of dead ends that get an extra opening.
	// 0 yields a perfect maze (a spanning tree); higher values add loops.
	Braid int

	// Weave is the percentage (0-100) chance that the carver tunnels under a
	// perpendicular corridor instead of backtracking. Tunnels create bridges.
	Weave int

	Start  *Point // Optional (nil = top-left)
	Finish *Point // Optional (nil = bottom-right)
	Seed   int64  // Optional (0 = time-based)
}

// Validate checks the configuration without generating anything.
func (c GenerateConfig) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidatePercent("braid", c.Braid); err != nil {
		return err
	}
	if err := errors.ValidatePercent("weave", c.Weave); err != nil {
		return err
	}
	for _, p := range []*Point{c.Start, c.Finish} {
		if p == nil {
			continue
		}
		if err := errors.ValidateCoordinate(p.X, p.Y, c.Width, c.Height); err != nil {
			return err
		}
	}
	return nil
}

// Generate builds a maze with a randomized recursive backtracker.
// The result is fully connected: every cell is reachable from the start on
// at least one plane. The same non-zero seed always yields the same maze.
func Generate(cfg GenerateConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if cfg.Start != nil {
		g.start = *cfg.Start
	}
	if cfg.Finish != nil {
		g.finish = *cfg.Finish
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	backtrack(g, rng, cfg.Weave)
	if cfg.Braid > 0 {
		braid(g, rng, cfg.Braid)
	}
	return g, nil
}

// backtrack carves a spanning tree from the start point. Each cell is
// entered exactly once, either by carving or by tunnelling.
func backtrack(g *Grid, rng *rand.Rand, weave int) {
	visited := make([]bool, len(g.cells))
	idx := func(p Point) int { return p.Y*g.width + p.X }

	stack := []Point{g.start}
	visited[idx(g.start)] = true

	dirs := make([]Direction, len(Directions))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		copy(dirs, Directions)
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		next, moved := cur, false
		for _, d := range dirs {
			n := Move(g, cur, d)
			if !g.Valid(n) {
				continue
			}
			if !visited[idx(n)] {
				_ = g.Carve(cur, d)
				next, moved = n, true
				break
			}
			if weave > 0 && canTunnel(g, cur, d, visited) && rng.Intn(100) < weave {
				_ = g.Tunnel(cur, d)
				next, moved = Move(g, n, d), true
				break
			}
		}

		if !moved {
			stack = stack[:len(stack)-1]
			continue
		}
		visited[idx(next)] = true
		stack = append(stack, next)
	}
}

// canTunnel reports whether the carver at p may pass beneath its neighbour
// toward d. The neighbour must be a straight corridor running perpendicular
// to d, not already bridged and not an endpoint; the landing cell must be
// unvisited.
func canTunnel(g *Grid, p Point, d Direction, visited []bool) bool {
	over := Move(g, p, d)
	beyond := Move(g, over, d)
	if !g.Valid(beyond) || visited[beyond.Y*g.width+beyond.X] {
		return false
	}
	if over == g.start || over == g.finish {
		return false
	}
	c := g.Cell(over)
	return !c.IsBridge() && c.Primary() == Perpendicular(d)
}

// braid opens an extra wall at a share of dead ends, preferring neighbours
// that are dead ends themselves so one opening removes two of them.
func braid(g *Grid, rng *rand.Rand, percent int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Point{X: x, Y: y}
			if !g.Cell(p).IsDeadEnd() || rng.Intn(100) >= percent {
				continue
			}

			var candidates, preferred []Direction
			for _, d := range Directions {
				n := Move(g, p, d)
				if !g.Valid(n) || g.Cell(p).Has(d, Primary) || g.Cell(n).IsBridge() {
					continue
				}
				candidates = append(candidates, d)
				if g.Cell(n).IsDeadEnd() {
					preferred = append(preferred, d)
				}
			}
			if len(preferred) > 0 {
				candidates = preferred
			}
			if len(candidates) == 0 {
				continue
			}
			_ = g.Carve(p, candidates[rng.Intn(len(candidates))])
		}
	}
}

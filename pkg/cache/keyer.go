package cache

// MazeKeyOpts identifies a generated maze.
type MazeKeyOpts struct {
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Braid  int     `json:"b"`
	Weave  int     `json:"v"`
	Seed   int64   `json:"s"`
	Start  *[2]int `json:"a,omitempty"`
	Finish *[2]int `json:"z,omitempty"`
}

// SolutionKeyOpts identifies a search over a maze.
type SolutionKeyOpts struct {
	Heuristic  string `json:"h"`
	PlaneAware bool   `json:"p"`
	MaxSteps   int    `json:"m"`
}

// FrameKeyOpts identifies one rendered frame.
type FrameKeyOpts struct {
	Step     int    `json:"n"`
	Format   string `json:"f"`
	CellSize int    `json:"c"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	MazeKey(opts MazeKeyOpts) string
	SolutionKey(mazeHash string, opts SolutionKeyOpts) string
	FrameKey(solutionKey string, opts FrameKeyOpts) string
}

// DefaultKeyer hashes the stage inputs into "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MazeKey returns the key of a generated maze.
func (DefaultKeyer) MazeKey(opts MazeKeyOpts) string {
	return hashKey("maze", opts)
}

// SolutionKey returns the key of a search result. mazeHash is usually
// [Hash] of the serialized maze, so imported mazes are keyed by content.
func (DefaultKeyer) SolutionKey(mazeHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", mazeHash, opts)
}

// FrameKey returns the key of a rendered frame of a search.
func (DefaultKeyer) FrameKey(solutionKey string, opts FrameKeyOpts) string {
	return hashKey("frame", solutionKey, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}

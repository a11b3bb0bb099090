// Package store persists solved labyrinths.
//
// Two record types are kept:
//   - [KnowledgeBase]: a named collection of runs, owned by a performer
//   - [Labyrinth]: one solved maze with its route encoded as a coordinate string
//
// Backends implement [Store]. [MemoryStore] serves tests and one-shot CLI
// runs; [MongoStore] keeps records in MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	lerrors "github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// KnowledgeBase groups labyrinth records.
type KnowledgeBase struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Performer string    `json:"performer" bson:"performer"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Labyrinth is one solved maze.
type Labyrinth struct {
	ID              string `json:"id" bson:"_id"`
	KnowledgeBaseID string `json:"knowledge_base_id,omitempty" bson:"knowledge_base_id,omitempty"`

	// Coordinate is the solution route, see [EncodeCoordinate].
	Coordinate string `json:"coordinate" bson:"coordinate"`
	Performer  string `json:"performer" bson:"performer"`

	Width     int    `json:"width" bson:"width"`
	Height    int    `json:"height" bson:"height"`
	Seed      int64  `json:"seed" bson:"seed"`
	Heuristic string `json:"heuristic" bson:"heuristic"`
	Steps     int    `json:"steps" bson:"steps"`

	// Maze is the maze document as written by pkg/io.
	Maze []byte `json:"maze,omitempty" bson:"maze,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ListOptions filters [Store.ListLabyrinths].
type ListOptions struct {
	KnowledgeBaseID string
	Limit           int // <= 0 means DefaultListLimit
}

// DefaultListLimit bounds list queries without an explicit limit.
const DefaultListLimit = 50

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Store is the persistence interface.
type Store interface {
	// Init prepares collections and indexes. It is idempotent.
	Init(ctx context.Context) error

	// Clear drops every record.
	Clear(ctx context.Context) error

	CreateKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error
	GetKnowledgeBase(ctx context.Context, id string) (*KnowledgeBase, error)

	SaveLabyrinth(ctx context.Context, l *Labyrinth) error
	GetLabyrinth(ctx context.Context, id string) (*Labyrinth, error)

	// ListLabyrinths returns records newest first.
	ListLabyrinths(ctx context.Context, opts ListOptions) ([]Labyrinth, error)

	Close(ctx context.Context) error
}

// prepare fills in the ID and creation time of a new record.
func prepare(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

// EncodeCoordinate renders a route as space-separated "x,y" pairs.
func EncodeCoordinate(path []maze.Point) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
	}
	return strings.Join(parts, " ")
}

// ParseCoordinate is the inverse of [EncodeCoordinate].
func ParseCoordinate(s string) ([]maze.Point, error) {
	fields := strings.Fields(s)
	path := make([]maze.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "coordinate %q: want x,y", f)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "coordinate %q", f)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "coordinate %q", f)
		}
		path = append(path, maze.Point{X: x, Y: y})
	}
	return path, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

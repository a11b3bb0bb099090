package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// ReadJSON decodes a maze from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_FORMAT)
//   - The dimensions are out of range (INVALID_DIMENSIONS)
//   - The cell rows do not match the dimensions (INVALID_MAZE)
//   - The start or finish lies outside the maze (INVALID_POINT)
//   - An opening is not mirrored by its neighbour (INVALID_MAZE)
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*maze.Grid, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode maze")
	}
	return doc.grid()
}

// Unmarshal decodes a maze produced by [Marshal] or [WriteJSON].
func Unmarshal(data []byte) (*maze.Grid, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON maze file at path.
func ImportJSON(path string) (*maze.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (doc document) grid() (*maze.Grid, error) {
	g, err := maze.NewGrid(doc.Width, doc.Height)
	if err != nil {
		return nil, err
	}
	if len(doc.Cells) != doc.Height {
		return nil, errors.New(errors.ErrCodeInvalidMaze,
			"expected %d rows of cells, got %d", doc.Height, len(doc.Cells))
	}
	for y, row := range doc.Cells {
		if len(row) != doc.Width {
			return nil, errors.New(errors.ErrCodeInvalidMaze,
				"row %d: expected %d cells, got %d", y, doc.Width, len(row))
		}
		for x, v := range row {
			if v < 0 || v > 0xff {
				return nil, errors.New(errors.ErrCodeInvalidMaze, "cell (%d,%d): mask %d out of range", x, y, v)
			}
			_ = g.SetCell(maze.Point{X: x, Y: y}, maze.Cell(v))
		}
	}
	if err := g.SetStart(doc.Start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := g.SetFinish(doc.Finish); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

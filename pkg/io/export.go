package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

type document struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Start  maze.Point `json:"start"`
	Finish maze.Point `json:"finish"`
	Cells  [][]int    `json:"cells"`
}

func fromGrid(g *maze.Grid) document {
	doc := document{
		Width:  g.Width(),
		Height: g.Height(),
		Start:  g.Start(),
		Finish: g.Finish(),
		Cells:  make([][]int, g.Height()),
	}
	for y := range doc.Cells {
		row := make([]int, g.Width())
		for x := range row {
			row[x] = int(g.Cell(maze.Point{X: x, Y: y}))
		}
		doc.Cells[y] = row
	}
	return doc
}

// WriteJSON encodes a maze as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *maze.Grid, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromGrid(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the compact JSON encoding of g.
func Marshal(g *maze.Grid) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(fromGrid(g)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// ExportJSON writes a maze to a JSON file at path.
func ExportJSON(g *maze.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// Package io provides JSON import and export for bridge mazes.
//
// # Overview
//
// Mazes are serialized to a small self-describing JSON document so they can
// be cached, persisted, exchanged with external tools, and solved again
// later. The format round-trips exactly: export a grid, import it, and the
// cells, start and finish are identical.
//
// # JSON Format
//
//	{
//	  "width": 3,
//	  "height": 2,
//	  "start": {"x": 0, "y": 0},
//	  "finish": {"x": 2, "y": 1},
//	  "cells": [
//	    [4, 12, 10],
//	    [4, 12, 9]
//	  ]
//	}
//
// "cells" holds one row per maze row, north to south. Each value is the exit
// mask of one cell: bits 0x01, 0x02, 0x04, 0x08 are the primary-plane exits
// N, S, E, W and the same bits shifted left by four are the under-plane
// exits of a bridge.
//
// # Import
//
// Use [ImportJSON] to read a maze from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the dimensions, the endpoints, and that
// every opening is mirrored by the neighbouring cell. Violations are
// reported as INVALID_MAZE, INVALID_DIMENSIONS or INVALID_POINT errors from
// [github.com/matzehuels/labyrinth/pkg/errors].
//
// # Export
//
// Use [ExportJSON] to write a maze to a file, or [WriteJSON] to write to any
// io.Writer. [Marshal] and [Unmarshal] work on byte slices for caches and
// stores.
package io

// Package maze provides the grid model consumed by the step-wise solver.
//
// # Cells and planes
//
// A maze is a width×height grid of [Cell] values. Each cell is an exit
// bitmask for two logical planes: the primary plane, and the under plane
// used by bridges. A bridge lets two unrelated passages cross at the same
// coordinates: one runs across the primary plane of the cell, the other
// runs beneath it.
//
// The under-plane exits of a cell are the primary direction bits shifted
// left by [UnderShift]:
//
//	primary:  N=0x01 S=0x02 E=0x04 W=0x08
//	under:    N=0x10 S=0x20 E=0x40 W=0x80
//
// # Adapter
//
// [Adapter] is the read-only view a solver needs: dimensions, endpoints,
// per-cell exit masks, direction deltas and opposites, and bounds checks.
// [Grid] is the orthogonal implementation; [Generate] builds one with a
// recursive backtracker that can weave (create bridges) and braid (remove
// dead ends to create loops).
//
// # Reference solver
//
// [ShortestPath] is a plane-aware breadth-first search over (point, plane)
// states. It is slow but obviously correct and exists to cross-check other
// solvers.
package maze

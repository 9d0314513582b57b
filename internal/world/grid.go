// Package world provides the toroidal grid and the land/water terrain map.
package world

import "fmt"

// Grid is a dense, fixed-size W×H container whose edges wrap to the opposite edge.
// Every coordinate access goes through Wrap, so there is no out-of-range failure.
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

// NewGrid allocates a zeroed grid of the given dimensions.
func NewGrid[T any](width, height int) *Grid[T] {
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// Wrap maps a coordinate back onto the torus: x < 0 maps to width+x and
// x >= width maps to x-width, y likewise. Movement deltas never exceed one
// dimension, but offsets further out are still reduced modulo the size.
func (g *Grid[T]) Wrap(x, y int) (int, int) {
	return Wrap(x, g.width), Wrap(y, g.height)
}

// Wrap reduces v into [0, size).
func Wrap(v, size int) int {
	if v < 0 {
		v += size
		if v < 0 {
			v = v%size + size
			if v == size {
				v = 0
			}
		}
		return v
	}
	if v >= size {
		v -= size
		if v >= size {
			v %= size
		}
	}
	return v
}

// Index returns the flat index of the wrapped coordinate.
func (g *Grid[T]) Index(x, y int) int {
	x, y = g.Wrap(x, y)
	return y*g.width + x
}

// Coords converts a flat index back to (x, y).
func (g *Grid[T]) Coords(idx int) (int, int) {
	return idx % g.width, idx / g.width
}

// At returns a pointer to the slot at (x, y).
func (g *Grid[T]) At(x, y int) *T {
	return &g.cells[g.Index(x, y)]
}

// Get returns a copy of the slot at (x, y).
func (g *Grid[T]) Get(x, y int) T {
	return g.cells[g.Index(x, y)]
}

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[g.Index(x, y)] = v
}

// Cells exposes the backing slice in row-major order for bulk passes.
func (g *Grid[T]) Cells() []T {
	return g.cells
}

// String returns a summary of the grid.
func (g *Grid[T]) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.width, g.height)
}

// Package spatial provides the uniform-grid broad phase used to
// shortlist collision candidates. The grid is rebuilt from scratch
// every step; nothing persists.
package spatial

import (
	"math"

	"github.com/san-kum/gravlab/internal/body"
)

// DefaultCell is the grid cell size used when no bodies exist.
const DefaultCell = 24.0

// Key addresses one grid cell.
type Key struct {
	X, Y int
}

// Hash buckets body indices by grid cell. Cell size adapts to the
// mean body radius so that a 3x3 neighborhood always covers any
// colliding pair whose combined radius fits one cell.
type Hash struct {
	cell    float64
	buckets map[Key][]int
}

func NewHash() *Hash {
	return &Hash{
		cell:    DefaultCell,
		buckets: make(map[Key][]int),
	}
}

// Cell returns the current cell size.
func (h *Hash) Cell() float64 { return h.cell }

// Rebuild recomputes the cell size from the mean radius and re-buckets
// every body by its position. Indices refer to the bodies slice passed
// in and are only valid until the next rebuild.
func (h *Hash) Rebuild(bodies []body.Body) {
	if len(bodies) > 0 {
		total := 0.0
		for i := range bodies {
			total += bodies[i].Radius()
		}
		h.cell = math.Max(2*total/float64(len(bodies)), 1)
	} else {
		h.cell = DefaultCell
	}

	for k := range h.buckets {
		delete(h.buckets, k)
	}
	for i := range bodies {
		k := h.KeyFor(bodies[i].Pos.X(), bodies[i].Pos.Y())
		h.buckets[k] = append(h.buckets[k], i)
	}
}

// KeyFor maps a position to its cell key.
func (h *Hash) KeyFor(x, y float64) Key {
	return Key{
		X: int(math.Floor(x / h.cell)),
		Y: int(math.Floor(y / h.cell)),
	}
}

// Neighborhood appends to dst the indices bucketed in the 3x3 block of
// cells around k and returns the extended slice.
func (h *Hash) Neighborhood(k Key, dst []int) []int {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			dst = append(dst, h.buckets[Key{k.X + dx, k.Y + dy}]...)
		}
	}
	return dst
}

// Len returns the number of occupied cells.
func (h *Hash) Len() int { return len(h.buckets) }

// Package quadtree implements the Barnes-Hut force approximation for
// 2D gravitating point masses. The tree is rebuilt from scratch every
// step; nodes live in a flat arena and reference children by index.
package quadtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// maxDepth caps recursive subdivision. Numerically coincident
	// points would otherwise subdivide forever; at the cap the new
	// mass is merged into the existing leaf.
	maxDepth = 32

	// densityDepth is the descent cap for the crowding estimate.
	densityDepth = 12
)

// Quad is an axis-aligned square region.
type Quad struct {
	Center mgl64.Vec2
	Half   float64
}

func NewQuad(center mgl64.Vec2, half float64) Quad {
	return Quad{Center: center, Half: half}
}

// Contains reports whether p lies within the quad, boundaries
// inclusive on both axes.
func (q Quad) Contains(p mgl64.Vec2) bool {
	return p.X() >= q.Center.X()-q.Half && p.X() <= q.Center.X()+q.Half &&
		p.Y() >= q.Center.Y()-q.Half && p.Y() <= q.Center.Y()+q.Half
}

// Size is the full side length.
func (q Quad) Size() float64 { return q.Half * 2 }

// Subdivide returns the four equal child quadrants in NW, NE, SW, SE
// order.
func (q Quad) Subdivide() [4]Quad {
	h := q.Half * 0.5
	return [4]Quad{
		NewQuad(q.Center.Add(mgl64.Vec2{-h, h}), h),
		NewQuad(q.Center.Add(mgl64.Vec2{h, h}), h),
		NewQuad(q.Center.Add(mgl64.Vec2{-h, -h}), h),
		NewQuad(q.Center.Add(mgl64.Vec2{h, -h}), h),
	}
}

// childIndex routes p to one of the four children: bit 0 set when p is
// right of center, bit 1 set when p is above it. Points exactly on a
// center line route to the left/bottom side.
func childIndex(p mgl64.Vec2, q Quad) int {
	idx := 0
	if p.X() > q.Center.X() {
		idx |= 1
	}
	if p.Y() > q.Center.Y() {
		idx |= 2
	}
	return idx
}

// childQuad builds the quadrant matching a childIndex value, so that
// children[childIndex(p, q)].Contains(p) always holds.
func childQuad(q Quad, idx int) Quad {
	h := q.Half * 0.5
	dx, dy := -h, -h
	if idx&1 != 0 {
		dx = h
	}
	if idx&2 != 0 {
		dy = h
	}
	return NewQuad(q.Center.Add(mgl64.Vec2{dx, dy}), h)
}

type nodeKind uint8

const (
	empty nodeKind = iota
	leaf
	internal
)

// node is one arena slot. For a leaf, mass and pos describe the single
// body; for an internal node they cache the aggregate mass and center
// of mass once BuildMassCenters has run. children holds arena indices,
// ordered by childIndex.
type node struct {
	quad     Quad
	kind     nodeKind
	mass     float64
	pos      mgl64.Vec2
	children [4]int32
}

// Tree is a Barnes-Hut quadtree over a fixed bounding quad.
type Tree struct {
	nodes []node
}

// New creates an empty tree covering bounds. The caller must size
// bounds to cover every body it will insert: points outside the root
// quad are silently dropped, by design (the engine recomputes bounds
// from live extents before every rebuild, so the drop path is never
// exercised in practice).
func New(bounds Quad) *Tree {
	t := &Tree{nodes: make([]node, 0, 64)}
	t.nodes = append(t.nodes, node{quad: bounds, kind: empty})
	return t
}

// Insert adds a point mass. Mass must be positive; the tree does not
// validate.
func (t *Tree) Insert(p mgl64.Vec2, mass float64) {
	t.insert(0, p, mass, 0)
}

func (t *Tree) insert(idx int32, p mgl64.Vec2, mass float64, depth int) {
	switch t.nodes[idx].kind {
	case empty:
		if !t.nodes[idx].quad.Contains(p) {
			return
		}
		t.nodes[idx].kind = leaf
		t.nodes[idx].pos = p
		t.nodes[idx].mass = mass

	case leaf:
		if depth >= maxDepth {
			// Coincident (or near-coincident) points: fold the new
			// mass into the leaf instead of subdividing further.
			n := &t.nodes[idx]
			total := n.mass + mass
			n.pos = n.pos.Mul(n.mass).Add(p.Mul(mass)).Mul(1 / total)
			n.mass = total
			return
		}

		q := t.nodes[idx].quad
		oldPos := t.nodes[idx].pos
		oldMass := t.nodes[idx].mass

		base := int32(len(t.nodes))
		for i := 0; i < 4; i++ {
			t.nodes = append(t.nodes, node{quad: childQuad(q, i), kind: empty})
		}
		t.nodes[idx].kind = internal
		t.nodes[idx].mass = 0
		t.nodes[idx].pos = mgl64.Vec2{}
		for i := int32(0); i < 4; i++ {
			t.nodes[idx].children[i] = base + i
		}

		t.insert(base+int32(childIndex(oldPos, q)), oldPos, oldMass, depth+1)
		t.insert(base+int32(childIndex(p, q)), p, mass, depth+1)

	case internal:
		q := t.nodes[idx].quad
		t.insert(t.nodes[idx].children[childIndex(p, q)], p, mass, depth+1)
	}
}

// BuildMassCenters populates the cached aggregates used by the force
// walk: post-order, each internal node gets the sum of descendant
// masses and their mass-weighted mean position. A zero-mass subtree
// reports a zero center of mass by convention.
func (t *Tree) BuildMassCenters() {
	if len(t.nodes) > 0 {
		t.aggregate(0)
	}
}

func (t *Tree) aggregate(idx int32) (float64, mgl64.Vec2) {
	n := &t.nodes[idx]
	switch n.kind {
	case empty:
		return 0, mgl64.Vec2{}
	case leaf:
		return n.mass, n.pos
	default:
		var total float64
		var weighted mgl64.Vec2
		for _, c := range n.children {
			m, p := t.aggregate(c)
			total += m
			weighted = weighted.Add(p.Mul(m))
		}
		n.mass = math.Max(total, 0)
		if total > 0 {
			n.pos = weighted.Mul(1 / total)
		} else {
			n.pos = mgl64.Vec2{}
		}
		return n.mass, n.pos
	}
}

// DensityFactor estimates local crowding at p as the depth reached by
// descending through internal nodes containing p, normalized to [0,1].
// It is a locality signal for adaptive accuracy, not a force input.
func (t *Tree) DensityFactor(p mgl64.Vec2) float64 {
	idx := int32(0)
	depth := 0
	for t.nodes[idx].kind == internal {
		n := &t.nodes[idx]
		if !n.quad.Contains(p) || depth >= densityDepth {
			break
		}
		idx = n.children[childIndex(p, n.quad)]
		depth++
	}
	f := float64(depth) / float64(densityDepth)
	if f > 1 {
		f = 1
	}
	return f
}

// ApproxAcc evaluates the gravitational acceleration at p using the
// Barnes-Hut walk: a subtree whose angular size passes the opening
// test s²/d² < θ² is treated as a single point mass at its center of
// mass; otherwise its children are visited. Softening enters as soft2,
// the squared Plummer length. theta → 0 recovers the direct O(N²) sum.
func (t *Tree) ApproxAcc(p mgl64.Vec2, g, theta, soft2 float64) mgl64.Vec2 {
	return t.walk(0, p, g, theta*theta, soft2)
}

func (t *Tree) walk(idx int32, p mgl64.Vec2, g, theta2, soft2 float64) mgl64.Vec2 {
	n := &t.nodes[idx]
	switch n.kind {
	case empty:
		return mgl64.Vec2{}

	case leaf:
		return pointAcc(n.pos, n.mass, p, g, soft2)

	default:
		if n.mass == 0 {
			return mgl64.Vec2{}
		}
		r := n.pos.Sub(p)
		d2 := r.Dot(r)
		s := n.quad.Size()

		// d == 0: query point sits exactly on the aggregate center of
		// mass. The opening test is undefined there; recurse instead.
		if d2 > 0 && s*s/d2 < theta2 {
			return pointAcc(n.pos, n.mass, p, g, soft2)
		}

		var acc mgl64.Vec2
		for _, c := range n.children {
			acc = acc.Add(t.walk(c, p, g, theta2, soft2))
		}
		return acc
	}
}

// pointAcc is the softened inverse-square contribution of a point mass
// at pos acting on a test point at p.
func pointAcc(pos mgl64.Vec2, mass float64, p mgl64.Vec2, g, soft2 float64) mgl64.Vec2 {
	r := pos.Sub(p)
	d2 := r.Dot(r) + soft2
	if d2 == 0 {
		return mgl64.Vec2{}
	}
	inv := 1 / (d2 * math.Sqrt(d2))
	return r.Mul(g * mass * inv)
}

// RootMass returns the aggregate mass cached at the root, valid after
// BuildMassCenters.
func (t *Tree) RootMass() float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[0].mass
}

// Bounds returns the root quad.
func (t *Tree) Bounds() Quad {
	return t.nodes[0].quad
}

// Len returns the number of arena nodes, mostly useful for
// diagnostics and tests.
func (t *Tree) Len() int { return len(t.nodes) }

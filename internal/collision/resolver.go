// Package collision detects overlapping body pairs from spatial-hash
// buckets and resolves them under one of two policies: absorb (the
// winner consumes the loser) or elastic (frictionless disk bounce).
//
// Both policies follow the same discipline: a read-only pass over a
// consistent snapshot produces resolution instructions, then a second
// pass applies them. No body is mutated while it can still appear as a
// neighbor candidate in the same scan.
package collision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/spatial"
)

// Mode selects the resolution policy.
type Mode int

const (
	Absorb Mode = iota
	Elastic
)

func (m Mode) String() string {
	if m == Elastic {
		return "elastic"
	}
	return "absorb"
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "absorb", "":
		return Absorb, nil
	case "elastic":
		return Elastic, nil
	}
	return Absorb, fmt.Errorf("collision: unknown mode %q", s)
}

// Absorbed describes one completed merge, for scoring and effects.
type Absorbed struct {
	Winner     body.ID
	LoserMass  float64
	LoserVel   mgl64.Vec2
	LoserClass body.Class
}

// Result reports what a resolution pass did. Removed lists bodies
// consumed by merges; the caller performs the actual removal.
type Result struct {
	Absorbed   []Absorbed
	Removed    []body.ID
	RemovedIdx []int
}

// Resolver applies one collision policy over hash buckets.
type Resolver struct {
	Mode        Mode
	Restitution float64
	AbsorbBias  float64
}

// Resolve scans the 3x3 neighborhood of every body's cell for
// overlapping pairs and resolves them in place. Bodies and hash must
// describe the same snapshot; the hash is not updated for positions
// moved by elastic separation.
func (r *Resolver) Resolve(bodies []body.Body, h *spatial.Hash) Result {
	if r.Mode == Elastic {
		return r.resolveElastic(bodies, h)
	}
	return r.resolveAbsorb(bodies, h)
}

type merge struct {
	winner, loser int
	newMass       float64
	newVel        mgl64.Vec2
}

func (r *Resolver) resolveAbsorb(bodies []body.Body, h *spatial.Hash) Result {
	var res Result
	var merges []merge
	removed := make([]bool, len(bodies))
	var scratch []int

	// Decide pass: read-only against the step snapshot. Bodies are
	// scanned in index order and candidates restricted to j > i, so
	// every pair is examined once and the outcome is deterministic.
	for i := range bodies {
		if removed[i] {
			continue
		}
		a := &bodies[i]
		scratch = h.Neighborhood(h.KeyFor(a.Pos.X(), a.Pos.Y()), scratch[:0])

		for _, j := range scratch {
			if j <= i || removed[j] || removed[i] {
				continue
			}
			b := &bodies[j]

			rsum := a.Radius() + b.Radius()
			d := b.Pos.Sub(a.Pos)
			if d.Dot(d) > rsum*rsum {
				continue
			}

			wi, li := i, j
			if !wins(a, b) {
				wi, li = j, i
			}
			w, l := &bodies[wi], &bodies[li]

			total := w.Mass + l.Mass
			newMass := w.Mass*(1+r.AbsorbBias) + l.Mass
			if newMass < w.Mass {
				newMass = w.Mass
			}
			newVel := w.Vel.Mul(w.Mass).Add(l.Vel.Mul(l.Mass)).Mul(1 / total)

			merges = append(merges, merge{winner: wi, loser: li, newMass: newMass, newVel: newVel})
			res.Absorbed = append(res.Absorbed, Absorbed{
				Winner:     w.ID,
				LoserMass:  l.Mass,
				LoserVel:   l.Vel,
				LoserClass: l.Class,
			})
			removed[li] = true

			if li == i {
				break
			}
		}
	}

	// Apply pass: a loser consumed by an earlier instruction this step
	// is skipped.
	gone := make(map[int]bool, len(merges))
	for _, m := range merges {
		if gone[m.loser] {
			continue
		}
		w := &bodies[m.winner]
		w.SetMass(m.newMass)
		w.Vel = m.newVel
		gone[m.loser] = true
		res.Removed = append(res.Removed, bodies[m.loser].ID)
		res.RemovedIdx = append(res.RemovedIdx, m.loser)
	}
	return res
}

// wins decides the merge contest: a black hole unconditionally beats a
// non-black-hole; otherwise the greater mass wins. Exact mass ties go
// to the lower ID, keeping the outcome independent of scan order.
func wins(a, b *body.Body) bool {
	aBH := a.Class == body.BlackHole
	bBH := b.Class == body.BlackHole
	switch {
	case aBH && !bBH:
		return true
	case bBH && !aBH:
		return false
	case a.Mass != b.Mass:
		return a.Mass > b.Mass
	default:
		return a.ID < b.ID
	}
}

type bounce struct {
	idx int
	vel mgl64.Vec2
	pos mgl64.Vec2
}

func (r *Resolver) resolveElastic(bodies []body.Body, h *spatial.Hash) Result {
	var updates []bounce
	processed := make([]bool, len(bodies))
	var scratch []int

	for i := range bodies {
		if processed[i] {
			continue
		}
		a := &bodies[i]
		scratch = h.Neighborhood(h.KeyFor(a.Pos.X(), a.Pos.Y()), scratch[:0])

		for _, j := range scratch {
			if j <= i || processed[j] {
				continue
			}
			b := &bodies[j]

			delta := b.Pos.Sub(a.Pos)
			d2 := delta.Dot(delta)
			rsum := a.Radius() + b.Radius()
			if d2 > rsum*rsum || d2 == 0 {
				// d2 == 0: normal undefined, pair skipped this step.
				continue
			}

			dist := delta.Len()
			normal := delta.Mul(1 / dist)
			tangent := mgl64.Vec2{-normal.Y(), normal.X()}

			overlap := (rsum - dist) * 0.5
			posA := a.Pos.Sub(normal.Mul(overlap))
			posB := b.Pos.Add(normal.Mul(overlap))

			ma, mb := a.Mass, b.Mass
			van, vat := a.Vel.Dot(normal), a.Vel.Dot(tangent)
			vbn, vbt := b.Vel.Dot(normal), b.Vel.Dot(tangent)

			// 1-D elastic collision with restitution along the normal;
			// tangential components pass through unchanged.
			e := r.Restitution
			vanNew := (e*mb*(vbn-van) + ma*van + mb*vbn) / (ma + mb)
			vbnNew := (e*ma*(van-vbn) + ma*van + mb*vbn) / (ma + mb)

			updates = append(updates,
				bounce{idx: i, vel: normal.Mul(vanNew).Add(tangent.Mul(vat)), pos: posA},
				bounce{idx: j, vel: normal.Mul(vbnNew).Add(tangent.Mul(vbt)), pos: posB},
			)
			processed[i] = true
			processed[j] = true
			break
		}
	}

	for _, u := range updates {
		bodies[u.idx].Vel = u.vel
		bodies[u.idx].Pos = u.pos
	}
	return Result{}
}

// Package engine owns the authoritative simulation state and advances
// it one discrete step at a time: half-kick + drift, quadtree rebuild,
// Barnes-Hut force evaluation, second half-kick, broad-phase rebuild,
// collision resolution. All state is threaded explicitly through the
// World value; there are no package globals and no ambient randomness.
package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/collision"
	"github.com/san-kum/gravlab/internal/quadtree"
	"github.com/san-kum/gravlab/internal/spatial"
)

const (
	minBoundsHalf = 2000.0
	boundsPadding = 1.2
)

// World is the complete simulation state: bodies plus the ephemeral
// acceleration structures rebuilt from them every step.
type World struct {
	Settings Settings
	Bodies   []body.Body

	tree   *quadtree.Tree
	hash   *spatial.Hash
	rng    *rand.Rand
	nextID body.ID
	time   float64
}

// NewWorld creates an empty world. In deterministic mode the random
// source is seeded from Settings.Seed so runs are reproducible; all
// randomized behavior (spawn jitter, hazard rolls) draws from this
// source and never from package-global rand.
func NewWorld(s Settings) *World {
	seed := s.Seed
	if !s.Deterministic {
		seed = time.Now().UnixNano()
	}
	return &World{
		Settings: s,
		hash:     spatial.NewHash(),
		rng:      rand.New(rand.NewSource(seed)),
		nextID:   1,
	}
}

// Rand exposes the world's random source for spawners.
func (w *World) Rand() *rand.Rand { return w.rng }

// Time returns accumulated simulation time.
func (w *World) Time() float64 { return w.time }

// Tree returns the quadtree built by the latest RebuildTree call, or
// nil before the first rebuild.
func (w *World) Tree() *quadtree.Tree { return w.tree }

// Hash returns the broad-phase grid.
func (w *World) Hash() *spatial.Hash { return w.hash }

// Spawn adds a body and returns its ID. Returns 0 without spawning
// when the population limit is reached.
func (w *World) Spawn(mass float64, pos, vel mgl64.Vec2) body.ID {
	if w.Settings.SpawnLimit > 0 && len(w.Bodies) >= w.Settings.SpawnLimit {
		return 0
	}
	id := w.nextID
	w.nextID++
	w.Bodies = append(w.Bodies, body.New(id, mass, pos, vel))
	return id
}

// Find returns the index of the body with the given ID, or -1.
func (w *World) Find(id body.ID) int {
	for i := range w.Bodies {
		if w.Bodies[i].ID == id {
			return i
		}
	}
	return -1
}

// StepResult reports what one step did to the population: completed
// merges for scoring/VFX and the IDs of bodies consumed by them. The
// engine has already removed those bodies; the host only needs to
// retire whatever it attached to the IDs.
type StepResult struct {
	Absorbed []collision.Absorbed
	Removed  []body.ID
}

// Step advances the world by one full step, chaining the stages in
// their fixed data-dependency order. Hosts that schedule stages
// themselves can call the stage methods individually instead; Step is
// the strictly sequential path.
func (w *World) Step() StepResult {
	dt := w.Settings.Dt * w.Settings.TimeScale

	w.Kick1Drift(dt)
	w.RebuildTree()
	w.ApplyForces()
	w.Kick2(dt)
	w.RebuildHash()
	res := w.ResolveCollisions()

	w.time += dt
	return res
}

// Energy returns total kinetic plus softened potential energy, a
// direct O(N²) sum. Intended for sampled diagnostics, not the hot
// path.
func (w *World) Energy() float64 {
	ke, pe := 0.0, 0.0
	soft := w.Settings.Softening
	for i := range w.Bodies {
		a := &w.Bodies[i]
		ke += 0.5 * a.Mass * a.Vel.Dot(a.Vel)
		for j := i + 1; j < len(w.Bodies); j++ {
			b := &w.Bodies[j]
			d := b.Pos.Sub(a.Pos)
			r := math.Sqrt(d.Dot(d) + soft*soft)
			pe -= w.Settings.G * a.Mass * b.Mass / r
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum.
func (w *World) Momentum() mgl64.Vec2 {
	var p mgl64.Vec2
	for i := range w.Bodies {
		p = p.Add(w.Bodies[i].Vel.Mul(w.Bodies[i].Mass))
	}
	return p
}

// TotalMass returns the summed body mass.
func (w *World) TotalMass() float64 {
	total := 0.0
	for i := range w.Bodies {
		total += w.Bodies[i].Mass
	}
	return total
}

// removeIndices drops the given body indices while preserving the
// order of survivors, so body iteration order (and with it the
// deterministic mode) is stable across steps.
func (w *World) removeIndices(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	kept := w.Bodies[:0]
	for i := range w.Bodies {
		if !drop[i] {
			kept = append(kept, w.Bodies[i])
		}
	}
	w.Bodies = kept
}

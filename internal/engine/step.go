package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/collision"
	"github.com/san-kum/gravlab/internal/quadtree"
)

// Kick1Drift applies the first half of the leapfrog step while
// running: v_half = v + a·dt/2, then p += v_half·dt. The intermediate
// velocity is stored on the body pending the second kick.
func (w *World) Kick1Drift(dt float64) {
	if !w.Settings.Running {
		return
	}
	for i := range w.Bodies {
		b := &w.Bodies[i]
		vHalf := b.Vel.Add(b.Acc.Mul(dt * 0.5))
		b.Pos = b.Pos.Add(vHalf.Mul(dt))
		b.Vel = vHalf
	}
}

// RebuildTree recomputes the root bounds from the live body extents
// and rebuilds the quadtree from scratch. Bounds are padded so no body
// ever hits the tree's silent out-of-bounds drop path.
func (w *World) RebuildTree() {
	extent := 0.0
	for i := range w.Bodies {
		p := w.Bodies[i].Pos
		extent = math.Max(extent, math.Max(math.Abs(p.X()), math.Abs(p.Y())))
	}
	half := math.Max(extent*boundsPadding, minBoundsHalf)

	t := quadtree.New(quadtree.NewQuad(mgl64.Vec2{}, half))
	for i := range w.Bodies {
		t.Insert(w.Bodies[i].Pos, w.Bodies[i].Mass)
	}
	t.BuildMassCenters()
	w.tree = t
}

// ApplyForces evaluates per-body gravitational acceleration with the
// Barnes-Hut walk and the adaptive accuracy parameters. Each body's
// evaluation is independent and writes only its own Acc, so the loop
// fans out across workers; the tree is read-only during the stage.
func (w *World) ApplyForces() {
	if w.tree == nil || !w.Settings.Running {
		return
	}
	s := w.Settings

	parallelFor(len(w.Bodies), 64, func(start, end int) {
		for i := start; i < end; i++ {
			b := &w.Bodies[i]
			density := w.tree.DensityFactor(b.Pos)

			theta := s.Theta
			if s.AdaptiveTheta {
				// Denser neighborhoods open more cells.
				theta = lerp(s.ThetaMax, s.ThetaMin, density)
			}

			softening := s.Softening
			if s.AdaptiveSoftening {
				// Denser neighborhoods damp close encounters harder.
				softening = lerp(s.SofteningMin, s.SofteningMax, density)
			}

			b.Acc = w.tree.ApproxAcc(b.Pos, s.G, theta, softening*softening)
		}
	})
}

// Kick2 completes the leapfrog step with the freshly computed
// accelerations and clamps speed to the configured ceiling.
func (w *World) Kick2(dt float64) {
	if !w.Settings.Running {
		return
	}
	maxVel := w.Settings.MaxVel
	for i := range w.Bodies {
		b := &w.Bodies[i]
		v := b.Vel.Add(b.Acc.Mul(dt * 0.5))
		if speed := v.Len(); maxVel > 0 && speed > maxVel {
			v = v.Mul(maxVel / speed)
		}
		b.Vel = v
	}
}

// RebuildHash rebuckets every body into the broad-phase grid.
func (w *World) RebuildHash() {
	w.hash.Rebuild(w.Bodies)
}

// ResolveCollisions runs the configured resolution policy over the
// current hash and removes merged-away bodies from the world.
func (w *World) ResolveCollisions() StepResult {
	r := collision.Resolver{
		Mode:        w.Settings.Mode,
		Restitution: w.Settings.Restitution,
		AbsorbBias:  w.Settings.AbsorbBias,
	}
	res := r.Resolve(w.Bodies, w.hash)
	w.removeIndices(res.RemovedIdx)
	return StepResult{Absorbed: res.Absorbed, Removed: res.Removed}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

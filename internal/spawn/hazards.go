package spawn

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/engine"
)

// HazardInterval is the default spacing between hazard rolls.
const HazardInterval = 15.0

// Hazards periodically injects a threat aimed at a focus point: a
// rogue star inbound at speed, a micro black hole parked nearby, or a
// debris storm. Tick it with simulation time, not wall time.
type Hazards struct {
	Interval float64
	elapsed  float64
}

func NewHazards() *Hazards {
	return &Hazards{Interval: HazardInterval}
}

// Update advances the timer by dt and, when the interval elapses,
// spawns one randomly chosen hazard near focus. Returns true when a
// hazard fired.
func (h *Hazards) Update(w *engine.World, dt float64, focus mgl64.Vec2) bool {
	h.elapsed += dt
	if h.elapsed < h.Interval {
		return false
	}
	h.elapsed -= h.Interval

	rng := w.Rand()
	dir := mgl64.Vec2{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	} else {
		dir = mgl64.Vec2{1, 0}
	}

	switch rng.Intn(3) {
	case 0: // rogue star, inbound
		pos := focus.Add(dir.Mul(2000))
		vel := focus.Sub(pos)
		if l := vel.Len(); l > 0 {
			vel = vel.Mul(300 / l)
		}
		w.Spawn(100_000, pos, vel)
	case 1: // micro black hole, lurking
		w.Spawn(1_500_000, focus.Add(dir.Mul(1500)), mgl64.Vec2{})
	default: // debris storm
		Burst{
			Center:   focus.Add(dir.Mul(3000)),
			Radius:   200,
			Count:    100,
			BaseMass: 20,
			Speed:    400,
		}.Spawn(w)
	}
	return true
}

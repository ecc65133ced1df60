// Package spawn populates worlds with the stock scenario systems and
// provides burst and hazard spawning. Every function draws randomness
// from the world's own source, so deterministic runs reproduce spawns
// exactly.
package spawn

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/engine"
)

// SingleStar builds a central star with four asteroid belts around it.
func SingleStar(w *engine.World) {
	rng := w.Rand()
	w.Spawn(6e5, mgl64.Vec2{}, mgl64.Vec2{})

	for _, r := range []float64{260, 520, 980, 1600} {
		for i := 0; i < 500; i++ {
			ang := rng.Float64() * 2 * math.Pi
			radius := r + rng.Float64()*40 - 20
			pos := mgl64.Vec2{math.Cos(ang), math.Sin(ang)}.Mul(radius)

			// Tangential direction, scaled so outer belts move slower.
			vdir := mgl64.Vec2{-pos.Y(), pos.X()}.Normalize()
			vel := vdir.Mul(math.Sqrt(pos.Len()) * 3.2)

			mass := 6 + rng.Float64()*54
			w.Spawn(mass, pos, vel)
		}
	}
}

// BinaryStar builds a bound two-star system on the x axis, each star
// on a circularizing tangential velocity against the other.
func BinaryStar(w *engine.World) {
	const (
		m1  = 4e5
		m2  = 2e5
		sep = 600.0
	)
	g := w.Settings.G
	v1 := math.Sqrt(g * m2 / (2 * sep))
	v2 := math.Sqrt(g * m1 / (2 * sep))

	w.Spawn(m1, mgl64.Vec2{-sep / 2, 0}, mgl64.Vec2{0, v1})
	w.Spawn(m2, mgl64.Vec2{sep / 2, 0}, mgl64.Vec2{0, -v2})
}

// Cluster scatters massive bodies at rest; gravity does the rest.
func Cluster(w *engine.World) {
	rng := w.Rand()
	for i := 0; i < 50; i++ {
		pos := mgl64.Vec2{
			rng.Float64()*2000 - 1000,
			rng.Float64()*2000 - 1000,
		}
		mass := 1000 + rng.Float64()*49000
		w.Spawn(mass, pos, mgl64.Vec2{})
	}
}

// Burst describes a ring of debris spawned around a center point.
type Burst struct {
	Center   mgl64.Vec2
	Radius   float64
	Count    int
	BaseMass float64
	Speed    float64
}

// Spawn materializes the burst: bodies on random offsets inside the
// radius, tangential velocity plus jitter, masses spread around the
// base. Returns how many bodies were actually spawned (the world's
// population limit may cut the burst short).
func (b Burst) Spawn(w *engine.World) int {
	rng := w.Rand()
	spawned := 0
	for i := 0; i < b.Count; i++ {
		r := rng.Float64() * b.Radius
		ang := rng.Float64() * 2 * math.Pi
		offset := mgl64.Vec2{math.Cos(ang), math.Sin(ang)}.Mul(r)
		pos := b.Center.Add(offset)

		tangential := mgl64.Vec2{-offset.Y(), offset.X()}
		if l := tangential.Len(); l > 0 {
			tangential = tangential.Mul(b.Speed / l)
		}
		jitter := mgl64.Vec2{
			rng.Float64()*40 - 20,
			rng.Float64()*40 - 20,
		}

		mass := b.BaseMass * (0.5 + rng.Float64())
		if w.Spawn(mass, pos, tangential.Add(jitter)) == 0 {
			break
		}
		spawned++
	}
	return spawned
}

package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ID is a stable per-body identifier. IDs survive merges and removals;
// slice indices do not.
type ID uint64

// Class buckets bodies by mass. It drives radii, merge priority and
// presentation, never the force calculation.
type Class int

const (
	Asteroid Class = iota
	Planet
	Star
	BlackHole
)

// Mass thresholds separating the classes.
const (
	planetMass    = 500.0
	starMass      = 20_000.0
	blackHoleMass = 1_000_000.0
)

func ClassForMass(m float64) Class {
	switch {
	case m < planetMass:
		return Asteroid
	case m < starMass:
		return Planet
	case m < blackHoleMass:
		return Star
	default:
		return BlackHole
	}
}

func (c Class) String() string {
	switch c {
	case Asteroid:
		return "asteroid"
	case Planet:
		return "planet"
	case Star:
		return "star"
	case BlackHole:
		return "black_hole"
	}
	return "unknown"
}

// RadiusForMass maps mass to a collision radius. Each class uses its
// own power law, clamped so classes occupy disjoint size bands.
func RadiusForMass(m float64) float64 {
	switch ClassForMass(m) {
	case Asteroid:
		return clamp(math.Sqrt(m)*0.12, 1.2, 6.0)
	case Planet:
		return clamp(math.Sqrt(m)*0.07, 6.0, 16.0)
	case Star:
		return clamp(math.Pow(m, 0.33)*0.6, 16.0, 32.0)
	default:
		return clamp(math.Pow(m, 0.25)*0.9, 32.0, 60.0)
	}
}

// Body is one gravitating point mass. Acc is recomputed every step
// from the force walk; it is derived state, not integrated state.
type Body struct {
	ID    ID
	Mass  float64
	Pos   mgl64.Vec2
	Vel   mgl64.Vec2
	Acc   mgl64.Vec2
	Class Class
}

func New(id ID, mass float64, pos, vel mgl64.Vec2) Body {
	return Body{
		ID:    id,
		Mass:  mass,
		Pos:   pos,
		Vel:   vel,
		Class: ClassForMass(mass),
	}
}

func (b *Body) Radius() float64 {
	return RadiusForMass(b.Mass)
}

// SetMass updates mass and re-derives the class.
func (b *Body) SetMass(m float64) {
	b.Mass = m
	b.Class = ClassForMass(m)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package metrics

import (
	"github.com/san-kum/gravlab/internal/collision"
	"github.com/san-kum/gravlab/internal/engine"
)

// BodyCount tracks the mean live population over a run.
type BodyCount struct {
	name    string
	sum     int
	samples int
}

func NewBodyCount() *BodyCount {
	return &BodyCount{name: "body_count"}
}

func (b *BodyCount) Name() string { return b.name }

func (b *BodyCount) Observe(w *engine.World, t float64) {
	b.sum += len(w.Bodies)
	b.samples++
}

func (b *BodyCount) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.sum) / float64(b.samples)
}

func (b *BodyCount) Reset() {
	b.sum = 0
	b.samples = 0
}

// AbsorbedMass totals the mass consumed by merges. It listens to the
// event stream rather than the sampled snapshots, so it misses nothing
// between samples.
type AbsorbedMass struct {
	name   string
	total  float64
	merges int
}

func NewAbsorbedMass() *AbsorbedMass {
	return &AbsorbedMass{name: "absorbed_mass"}
}

func (a *AbsorbedMass) Name() string { return a.name }

func (a *AbsorbedMass) Observe(w *engine.World, t float64) {}

func (a *AbsorbedMass) OnAbsorb(ev collision.Absorbed) {
	a.total += ev.LoserMass
	a.merges++
}

func (a *AbsorbedMass) Value() float64 {
	return a.total
}

// Merges reports how many absorb events fed the total.
func (a *AbsorbedMass) Merges() int {
	return a.merges
}

func (a *AbsorbedMass) Reset() {
	a.total = 0
	a.merges = 0
}

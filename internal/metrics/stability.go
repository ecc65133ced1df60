package metrics

import (
	"github.com/san-kum/gravlab/internal/engine"
)

// Containment scores how well the system stays inside a radius around
// the origin. A sample counts as a violation when any body has escaped
// past the threshold.
type Containment struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewContainment(threshold float64) *Containment {
	return &Containment{
		name:      "containment",
		threshold: threshold,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *engine.World, t float64) {
	c.samples++
	r2 := c.threshold * c.threshold
	for i := range w.Bodies {
		if w.Bodies[i].Pos.Dot(w.Bodies[i].Pos) > r2 {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

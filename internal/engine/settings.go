package engine

import (
	"fmt"

	"github.com/san-kum/gravlab/internal/collision"
)

// Settings is the per-step tuning record consumed from the host. The
// engine assumes values are valid (finite, non-negative where it
// matters); validation belongs to the configuration boundary.
type Settings struct {
	G         float64
	Dt        float64
	TimeScale float64
	MaxVel    float64

	Theta         float64
	AdaptiveTheta bool
	ThetaMin      float64
	ThetaMax      float64

	Softening         float64
	AdaptiveSoftening bool
	SofteningMin      float64
	SofteningMax      float64

	Running       bool
	Mode          collision.Mode
	Restitution   float64
	AbsorbBias    float64
	Deterministic bool
	Seed          int64
	SpawnLimit    int
}

// DefaultSettings returns the calm baseline tuning.
func DefaultSettings() Settings {
	return Settings{
		G:                 120,
		Dt:                0.008,
		TimeScale:         1,
		MaxVel:            1800,
		Theta:             0.6,
		AdaptiveTheta:     true,
		ThetaMin:          0.4,
		ThetaMax:          1.0,
		Softening:         4,
		AdaptiveSoftening: true,
		SofteningMin:      2,
		SofteningMax:      10,
		Running:           true,
		Mode:              collision.Absorb,
		Restitution:       0.8,
		AbsorbBias:        0.03,
		SpawnLimit:        50_000,
	}
}

// Validate checks the fields the core cannot tolerate being wrong.
func (s Settings) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("engine: dt must be positive, got %f", s.Dt)
	}
	if s.TimeScale <= 0 {
		return fmt.Errorf("engine: time scale must be positive, got %f", s.TimeScale)
	}
	if s.Theta < 0 || s.ThetaMin < 0 || s.ThetaMax < 0 {
		return fmt.Errorf("engine: theta must be non-negative")
	}
	if s.Softening < 0 || s.SofteningMin < 0 || s.SofteningMax < 0 {
		return fmt.Errorf("engine: softening must be non-negative")
	}
	if s.Restitution < 0 || s.Restitution > 1 {
		return fmt.Errorf("engine: restitution must be in [0,1], got %f", s.Restitution)
	}
	return nil
}

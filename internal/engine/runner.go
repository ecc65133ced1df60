package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravlab/internal/collision"
)

// Metric observes sampled world snapshots and reduces them to one
// number at the end of a run.
type Metric interface {
	Name() string
	Observe(w *World, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every step.
type Observer interface {
	OnStep(w *World, t float64)
}

// AbsorbSink receives merge events as they happen. Metrics and
// observers may implement it in addition to their primary interface.
type AbsorbSink interface {
	OnAbsorb(ev collision.Absorbed)
}

// RunConfig drives a headless simulation run.
type RunConfig struct {
	Duration    float64
	SampleEvery int
}

// Sample is one sampled diagnostic row.
type Sample struct {
	T        float64 `json:"t"`
	Bodies   int     `json:"bodies"`
	Energy   float64 `json:"energy"`
	Momentum float64 `json:"momentum"`
}

// Result collects everything a finished run produced.
type Result struct {
	Samples      []Sample
	Metrics      map[string]float64
	StepsTaken   int
	AbsorbedMass float64
	EnergyDrift  float64
}

// Runner advances a world for a fixed duration, feeding metrics and
// observers along the way.
type Runner struct {
	world     *World
	metrics   []Metric
	observers []Observer
}

func NewRunner(w *World) *Runner {
	return &Runner{world: w}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps the world until cfg.Duration of simulated time has
// elapsed or the context is canceled. Sampling every step is costly
// for large populations (the energy sum is O(N²)); cfg.SampleEvery
// thins it.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	w := r.world
	dt := w.Settings.Dt * w.Settings.TimeScale
	steps := int(cfg.Duration / dt)
	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/sampleEvery+1),
		Metrics: make(map[string]float64),
	}

	initialEnergy := w.Energy()
	finalEnergy := initialEnergy
	r.sample(result, w)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		step := w.Step()
		result.StepsTaken++

		for _, ev := range step.Absorbed {
			result.AbsorbedMass += ev.LoserMass
			for _, m := range r.metrics {
				if sink, ok := m.(AbsorbSink); ok {
					sink.OnAbsorb(ev)
				}
			}
			for _, o := range r.observers {
				if sink, ok := o.(AbsorbSink); ok {
					sink.OnAbsorb(ev)
				}
			}
		}

		if (i+1)%sampleEvery == 0 {
			finalEnergy = r.sample(result, w)
			for _, m := range r.metrics {
				m.Observe(w, w.Time())
			}
		}
		for _, o := range r.observers {
			o.OnStep(w, w.Time())
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (r *Runner) sample(result *Result, w *World) float64 {
	e := w.Energy()
	result.Samples = append(result.Samples, Sample{
		T:        w.Time(),
		Bodies:   len(w.Bodies),
		Energy:   e,
		Momentum: w.Momentum().Len(),
	})
	return e
}

func (r *Runner) validate(cfg RunConfig) error {
	if err := r.world.Settings.Validate(); err != nil {
		return err
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("engine: duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

package engine_test

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/collision"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/spawn"
)

func fixedSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.Deterministic = true
	s.Seed = 42
	s.AdaptiveTheta = false
	s.AdaptiveSoftening = false
	return s
}

var _ = Describe("World stepping", func() {
	It("keeps a two-body system bound over ten thousand steps", func() {
		s := fixedSettings()
		s.Dt = 0.005
		s.Theta = 0.8
		s.Softening = 4

		w := engine.NewWorld(s)
		const sep = 600.0
		m1, m2 := 400_000.0, 200_000.0
		v1 := math.Sqrt(s.G * m2 / (2 * sep))
		v2 := math.Sqrt(s.G * m1 / (2 * sep))
		w.Spawn(m1, mgl64.Vec2{-sep / 2, 0}, mgl64.Vec2{0, v1})
		w.Spawn(m2, mgl64.Vec2{sep / 2, 0}, mgl64.Vec2{0, -v2})

		for i := 0; i < 10_000; i++ {
			w.Step()
			d := w.Bodies[1].Pos.Sub(w.Bodies[0].Pos).Len()
			Expect(d).To(BeNumerically(">=", sep*0.5), "step %d: pair collapsed", i)
			Expect(d).To(BeNumerically("<=", sep*2), "step %d: pair unbound", i)
		}
		Expect(w.Bodies).To(HaveLen(2))
	})

	It("does not integrate while paused", func() {
		s := fixedSettings()
		s.Running = false

		w := engine.NewWorld(s)
		w.Spawn(1000, mgl64.Vec2{100, 100}, mgl64.Vec2{50, 0})
		before := w.Bodies[0].Pos

		for i := 0; i < 10; i++ {
			w.Step()
		}
		Expect(w.Bodies[0].Pos).To(Equal(before))
	})

	It("clamps speed to the velocity ceiling", func() {
		s := fixedSettings()
		s.MaxVel = 100

		w := engine.NewWorld(s)
		// Two heavy bodies close together produce a strong kick.
		w.Spawn(500_000, mgl64.Vec2{-100, 0}, mgl64.Vec2{})
		w.Spawn(500_000, mgl64.Vec2{100, 0}, mgl64.Vec2{})

		for i := 0; i < 50 && len(w.Bodies) == 2; i++ {
			w.Step()
			for _, b := range w.Bodies {
				Expect(b.Vel.Len()).To(BeNumerically("<=", s.MaxVel+1e-9))
			}
		}
	})

	It("removes absorbed bodies and reports their IDs", func() {
		s := fixedSettings()
		s.Mode = collision.Absorb
		s.AbsorbBias = 0

		w := engine.NewWorld(s)
		big := w.Spawn(10_000, mgl64.Vec2{0, 0}, mgl64.Vec2{})
		small := w.Spawn(100, mgl64.Vec2{1, 0}, mgl64.Vec2{})

		res := w.Step()

		Expect(res.Removed).To(ConsistOf(small))
		Expect(res.Absorbed).To(HaveLen(1))
		Expect(res.Absorbed[0].Winner).To(Equal(big))
		Expect(w.Bodies).To(HaveLen(1))
		Expect(w.Bodies[0].Mass).To(BeNumerically("==", 10_100))
	})

	It("reproduces identical trajectories in deterministic mode", func() {
		run := func() []mgl64.Vec2 {
			s := fixedSettings()
			w := engine.NewWorld(s)
			spawn.Cluster(w)
			for i := 0; i < 100; i++ {
				w.Step()
			}
			out := make([]mgl64.Vec2, len(w.Bodies))
			for i := range w.Bodies {
				out[i] = w.Bodies[i].Pos
			}
			return out
		}

		first := run()
		second := run()
		Expect(second).To(Equal(first))
	})

	It("grows tree bounds to cover every body", func() {
		s := fixedSettings()
		w := engine.NewWorld(s)
		w.Spawn(100, mgl64.Vec2{50_000, -70_000}, mgl64.Vec2{})
		w.RebuildTree()

		Expect(w.Tree().Bounds().Contains(mgl64.Vec2{50_000, -70_000})).To(BeTrue())
		Expect(w.Tree().RootMass()).To(BeNumerically("==", 100))
	})
})

var _ = Describe("Runner", func() {
	It("rejects a non-positive duration", func() {
		w := engine.NewWorld(fixedSettings())
		r := engine.NewRunner(w)
		_, err := r.Run(context.Background(), engine.RunConfig{Duration: 0})
		Expect(err).To(HaveOccurred())
	})

	It("stops when the context is canceled", func() {
		w := engine.NewWorld(fixedSettings())
		spawn.Cluster(w)
		r := engine.NewRunner(w)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := r.Run(ctx, engine.RunConfig{Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.StepsTaken).To(BeZero())
	})

	It("collects samples and accumulates absorbed mass", func() {
		s := fixedSettings()
		w := engine.NewWorld(s)
		w.Spawn(10_000, mgl64.Vec2{0, 0}, mgl64.Vec2{})
		w.Spawn(100, mgl64.Vec2{1, 0}, mgl64.Vec2{})

		r := engine.NewRunner(w)
		res, err := r.Run(context.Background(), engine.RunConfig{Duration: 1, SampleEvery: 10})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(BeNumerically(">", 0))
		Expect(res.Samples).NotTo(BeEmpty())
		Expect(res.AbsorbedMass).To(BeNumerically("==", 100))
		Expect(res.Samples[len(res.Samples)-1].Bodies).To(Equal(1))
	})

	It("shows small energy drift for a bound orbit", func() {
		s := fixedSettings()
		s.Dt = 0.005
		w := engine.NewWorld(s)
		spawn.BinaryStar(w)

		r := engine.NewRunner(w)
		res, err := r.Run(context.Background(), engine.RunConfig{Duration: 20, SampleEvery: 100})
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Bodies).To(HaveLen(2))
		Expect(res.EnergyDrift).To(BeNumerically("<", 0.01))
	})
})

var _ = Describe("Settings", func() {
	It("validates the dangerous fields", func() {
		bad := engine.DefaultSettings()
		bad.Dt = 0
		Expect(bad.Validate()).To(HaveOccurred())

		bad = engine.DefaultSettings()
		bad.Restitution = 1.5
		Expect(bad.Validate()).To(HaveOccurred())

		Expect(engine.DefaultSettings().Validate()).To(Succeed())
	})

	It("derives classes at the documented thresholds", func() {
		Expect(body.ClassForMass(499)).To(Equal(body.Asteroid))
		Expect(body.ClassForMass(500)).To(Equal(body.Planet))
		Expect(body.ClassForMass(1_000_000)).To(Equal(body.BlackHole))
	})
})

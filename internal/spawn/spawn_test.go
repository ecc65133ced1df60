package spawn

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/engine"
)

func deterministicWorld(seed int64) *engine.World {
	s := engine.DefaultSettings()
	s.Deterministic = true
	s.Seed = seed
	return engine.NewWorld(s)
}

func TestSingleStarPopulation(t *testing.T) {
	w := deterministicWorld(1)
	SingleStar(w)

	// Central star plus 4 belts of 500.
	if len(w.Bodies) != 2001 {
		t.Fatalf("expected 2001 bodies, got %d", len(w.Bodies))
	}
	if w.Bodies[0].Class != body.Star {
		t.Errorf("central body should be a star, got %s", w.Bodies[0].Class)
	}
	for _, b := range w.Bodies[1:] {
		if b.Class != body.Asteroid {
			t.Errorf("belt body %d has class %s", b.ID, b.Class)
			break
		}
	}
}

func TestBinaryStarIsBound(t *testing.T) {
	w := deterministicWorld(1)
	BinaryStar(w)

	if len(w.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(w.Bodies))
	}

	// Negative total energy means the pair is gravitationally bound.
	if e := w.Energy(); e >= 0 {
		t.Errorf("binary system should be bound, energy = %f", e)
	}
}

func TestClusterDeterministicAcrossSeeds(t *testing.T) {
	w1 := deterministicWorld(99)
	w2 := deterministicWorld(99)
	Cluster(w1)
	Cluster(w2)

	if len(w1.Bodies) != len(w2.Bodies) {
		t.Fatalf("body counts differ: %d vs %d", len(w1.Bodies), len(w2.Bodies))
	}
	for i := range w1.Bodies {
		if w1.Bodies[i].Pos != w2.Bodies[i].Pos || w1.Bodies[i].Mass != w2.Bodies[i].Mass {
			t.Fatalf("body %d differs between identically seeded worlds", i)
		}
	}
}

func TestBurstRespectsSpawnLimit(t *testing.T) {
	s := engine.DefaultSettings()
	s.Deterministic = true
	s.SpawnLimit = 10
	w := engine.NewWorld(s)

	n := Burst{Center: mgl64.Vec2{}, Radius: 100, Count: 50, BaseMass: 10, Speed: 100}.Spawn(w)

	if n != 10 || len(w.Bodies) != 10 {
		t.Errorf("expected burst cut at limit 10, spawned %d (world has %d)", n, len(w.Bodies))
	}
}

func TestHazardsFireOnInterval(t *testing.T) {
	w := deterministicWorld(5)
	h := NewHazards()
	h.Interval = 1.0

	fired := 0
	for i := 0; i < 25; i++ {
		if h.Update(w, 0.1, mgl64.Vec2{}) {
			fired++
		}
	}

	if fired != 2 {
		t.Errorf("expected 2 hazards over 2.5s at 1s interval, got %d", fired)
	}
	if len(w.Bodies) == 0 {
		t.Error("hazards should have spawned bodies")
	}
}

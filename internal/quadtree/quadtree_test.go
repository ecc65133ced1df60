package quadtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestQuadContainsInclusive(t *testing.T) {
	q := NewQuad(mgl64.Vec2{0, 0}, 10)

	tests := []struct {
		p        mgl64.Vec2
		expected bool
	}{
		{mgl64.Vec2{0, 0}, true},
		{mgl64.Vec2{10, 10}, true},
		{mgl64.Vec2{-10, -10}, true},
		{mgl64.Vec2{10.0001, 0}, false},
		{mgl64.Vec2{0, -10.0001}, false},
	}

	for _, tt := range tests {
		if got := q.Contains(tt.p); got != tt.expected {
			t.Errorf("Contains(%v): expected %v, got %v", tt.p, tt.expected, got)
		}
	}
}

func TestSubdivideOrder(t *testing.T) {
	q := NewQuad(mgl64.Vec2{0, 0}, 8)
	kids := q.Subdivide()

	expected := [4]mgl64.Vec2{{-4, 4}, {4, 4}, {-4, -4}, {4, -4}} // NW NE SW SE
	for i, k := range kids {
		if k.Center != expected[i] {
			t.Errorf("child %d: expected center %v, got %v", i, expected[i], k.Center)
		}
		if k.Half != 4 {
			t.Errorf("child %d: expected half 4, got %f", i, k.Half)
		}
	}
}

func TestChildRoutingContainsPoint(t *testing.T) {
	q := NewQuad(mgl64.Vec2{0, 0}, 10)

	points := []mgl64.Vec2{
		{3, 3}, {-3, 3}, {3, -3}, {-3, -3},
		{0, 0}, {0, 5}, {5, 0},
	}
	for _, p := range points {
		idx := childIndex(p, q)
		child := childQuad(q, idx)
		if !child.Contains(p) {
			t.Errorf("point %v routed to child %d (%v) which does not contain it", p, idx, child.Center)
		}
	}

	// Boundary points route to the left/bottom side.
	if childIndex(mgl64.Vec2{0, 0}, q) != 0 {
		t.Error("center point should route to the bottom-left child")
	}
}

func TestInsertOutOfBoundsDropped(t *testing.T) {
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 100))
	tr.Insert(mgl64.Vec2{50, 50}, 10)
	tr.Insert(mgl64.Vec2{5000, 0}, 99) // outside root bounds
	tr.BuildMassCenters()

	if got := tr.RootMass(); got != 10 {
		t.Errorf("expected out-of-bounds point to be dropped, root mass %f", got)
	}
}

func TestMassConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 2000))

	total := 0.0
	for i := 0; i < 500; i++ {
		p := mgl64.Vec2{rng.Float64()*3000 - 1500, rng.Float64()*3000 - 1500}
		m := rng.Float64()*90 + 10
		tr.Insert(p, m)
		total += m
	}
	tr.BuildMassCenters()

	if rel := math.Abs(tr.RootMass()-total) / total; rel > 1e-12 {
		t.Errorf("root mass %f != inserted total %f (rel err %g)", tr.RootMass(), total, rel)
	}
}

func TestCoincidentPointsDepthCap(t *testing.T) {
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 1000))
	p := mgl64.Vec2{123.456, -78.9}
	for i := 0; i < 5; i++ {
		tr.Insert(p, 10)
	}
	tr.BuildMassCenters()

	if got := tr.RootMass(); math.Abs(got-50) > 1e-9 {
		t.Errorf("expected coincident masses merged to 50, got %f", got)
	}
}

func TestEmptyTreeIsInert(t *testing.T) {
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 100))
	tr.BuildMassCenters()

	if tr.RootMass() != 0 {
		t.Errorf("empty tree root mass = %f", tr.RootMass())
	}
	if acc := tr.ApproxAcc(mgl64.Vec2{1, 2}, 100, 0.6, 16); acc != (mgl64.Vec2{}) {
		t.Errorf("empty tree produced acceleration %v", acc)
	}
	if d := tr.DensityFactor(mgl64.Vec2{0, 0}); d != 0 {
		t.Errorf("empty tree density factor = %f", d)
	}
}

func TestDensityFactorRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 1000))

	// Dense clump near origin, sparse elsewhere.
	for i := 0; i < 200; i++ {
		tr.Insert(mgl64.Vec2{rng.Float64()*10 - 5, rng.Float64()*10 - 5}, 20)
	}
	tr.Insert(mgl64.Vec2{900, 900}, 20)
	tr.BuildMassCenters()

	dense := tr.DensityFactor(mgl64.Vec2{0, 0})
	sparse := tr.DensityFactor(mgl64.Vec2{900, 900})

	if dense < 0 || dense > 1 || sparse < 0 || sparse > 1 {
		t.Fatalf("density factors outside [0,1]: %f, %f", dense, sparse)
	}
	if dense <= sparse {
		t.Errorf("expected clump (%f) denser than outskirts (%f)", dense, sparse)
	}
}

// directAcc is the brute-force O(N²) reference the Barnes-Hut walk
// must converge to as theta goes to zero.
func directAcc(p mgl64.Vec2, pts []mgl64.Vec2, masses []float64, g, soft2 float64) mgl64.Vec2 {
	var acc mgl64.Vec2
	for i, q := range pts {
		r := q.Sub(p)
		d2 := r.Dot(r) + soft2
		if d2 == 0 {
			continue
		}
		acc = acc.Add(r.Mul(g * masses[i] / (d2 * math.Sqrt(d2))))
	}
	return acc
}

func TestThetaZeroMatchesDirectSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 200
	g, soft2 := 120.0, 16.0

	pts := make([]mgl64.Vec2, n)
	masses := make([]float64, n)
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 2000))
	for i := 0; i < n; i++ {
		pts[i] = mgl64.Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		masses[i] = rng.Float64()*500 + 1
		tr.Insert(pts[i], masses[i])
	}
	tr.BuildMassCenters()

	for i := 0; i < n; i += 17 {
		want := directAcc(pts[i], pts, masses, g, soft2)
		got := tr.ApproxAcc(pts[i], g, 0, soft2)

		diff := got.Sub(want).Len()
		scale := want.Len()
		if scale == 0 {
			scale = 1
		}
		if diff/scale > 1e-9 {
			t.Errorf("body %d: theta=0 walk %v differs from direct sum %v", i, got, want)
		}
	}
}

func TestModestThetaStaysClose(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const n = 300
	g, soft2 := 120.0, 16.0

	pts := make([]mgl64.Vec2, n)
	masses := make([]float64, n)
	tr := New(NewQuad(mgl64.Vec2{0, 0}, 2000))
	for i := 0; i < n; i++ {
		pts[i] = mgl64.Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		masses[i] = rng.Float64()*50 + 1
		tr.Insert(pts[i], masses[i])
	}
	tr.BuildMassCenters()

	for i := 0; i < n; i += 29 {
		want := directAcc(pts[i], pts, masses, g, soft2)
		got := tr.ApproxAcc(pts[i], g, 0.5, soft2)

		scale := want.Len()
		if scale == 0 {
			continue
		}
		if got.Sub(want).Len()/scale > 0.05 {
			t.Errorf("body %d: theta=0.5 error above 5%%: got %v want %v", i, got, want)
		}
	}
}

func BenchmarkApproxAcc(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	const n = 2000

	tr := New(NewQuad(mgl64.Vec2{0, 0}, 2000))
	pts := make([]mgl64.Vec2, n)
	for i := 0; i < n; i++ {
		pts[i] = mgl64.Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		tr.Insert(pts[i], 30)
	}
	tr.BuildMassCenters()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.ApproxAcc(pts[i%n], 120, 0.6, 16)
	}
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	const n = 2000

	pts := make([]mgl64.Vec2, n)
	for i := 0; i < n; i++ {
		pts[i] = mgl64.Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New(NewQuad(mgl64.Vec2{0, 0}, 2000))
		for _, p := range pts {
			tr.Insert(p, 30)
		}
		tr.BuildMassCenters()
	}
}

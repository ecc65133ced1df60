package spatial

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravlab/internal/body"
)

func makeBodies(rng *rand.Rand, n int) []body.Body {
	bodies := make([]body.Body, n)
	for i := range bodies {
		pos := mgl64.Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		bodies[i] = body.New(body.ID(i+1), rng.Float64()*90+10, pos, mgl64.Vec2{})
	}
	return bodies
}

func TestEveryBodyInExactlyOneCell(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	bodies := makeBodies(rng, 400)

	h := NewHash()
	h.Rebuild(bodies)

	seen := make(map[int]int)
	for k := range h.buckets {
		for _, i := range h.buckets[k] {
			seen[i]++
		}
	}

	if len(seen) != len(bodies) {
		t.Fatalf("expected %d bodies bucketed, got %d", len(bodies), len(seen))
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("body %d appears in %d cells", i, count)
		}
	}
}

func TestNeighborhoodCoversCollidingPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	bodies := makeBodies(rng, 300)

	h := NewHash()
	h.Rebuild(bodies)

	// Any pair whose combined radius fits one cell and which actually
	// overlaps must be discoverable through the 3x3 neighborhood.
	for i := range bodies {
		k := h.KeyFor(bodies[i].Pos.X(), bodies[i].Pos.Y())
		candidates := h.Neighborhood(k, nil)
		inSet := make(map[int]bool, len(candidates))
		for _, c := range candidates {
			inSet[c] = true
		}

		for j := range bodies {
			if i == j {
				continue
			}
			rsum := bodies[i].Radius() + bodies[j].Radius()
			if rsum > h.Cell() {
				continue
			}
			d := bodies[j].Pos.Sub(bodies[i].Pos)
			if d.Dot(d) <= rsum*rsum && !inSet[j] {
				t.Errorf("overlapping pair (%d, %d) missed by neighborhood scan", i, j)
			}
		}
	}
}

func TestEmptyHashUsesDefaultCell(t *testing.T) {
	h := NewHash()
	h.Rebuild(nil)

	if h.Cell() != DefaultCell {
		t.Errorf("expected default cell %.1f, got %.1f", DefaultCell, h.Cell())
	}
	if h.Len() != 0 {
		t.Errorf("expected no occupied cells, got %d", h.Len())
	}
}

func TestCellTracksMeanRadius(t *testing.T) {
	// Two bodies of equal mass: cell should be 2x their shared radius.
	bodies := []body.Body{
		body.New(1, 100, mgl64.Vec2{0, 0}, mgl64.Vec2{}),
		body.New(2, 100, mgl64.Vec2{500, 500}, mgl64.Vec2{}),
	}

	h := NewHash()
	h.Rebuild(bodies)

	want := 2 * bodies[0].Radius()
	if h.Cell() != want {
		t.Errorf("expected cell %.3f, got %.3f", want, h.Cell())
	}
}

package spatial

import (
	"math/rand"
	"testing"
)

const (
	testZoneWidth       = 16
	testMapWidthInZones = 16
)

func testMap() MapDefinition {
	return NewMapDefinition(testZoneWidth, testMapWidthInZones)
}

func TestRandomPointIsInside(t *testing.T) {
	m := testMap()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		p := m.RandomPoint(rng)
		if !m.PointIsInside(p) {
			t.Fatalf("random point %+v outside of map", p)
		}
	}
}

func TestRandomPointNextTo(t *testing.T) {
	m := testMap()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		origin := m.RandomPoint(rng)
		p := m.RandomPointNextTo(origin, rng)

		if !m.PointIsInside(p) {
			t.Fatalf("neighbor %+v of %+v outside of map", p, origin)
		}

		dx := absDiff(origin.X, p.X)
		dy := absDiff(origin.Y, p.Y)
		if dist := dx*dx + dy*dy; dist != 1 {
			t.Fatalf("neighbor %+v of %+v at squared distance %d, want 1", p, origin, dist)
		}
	}
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestZoneIndexWindow(t *testing.T) {
	m := testMap()

	cases := []struct {
		p    Point
		want map[uint64]bool
	}{
		{Point{0, 0}, map[uint64]bool{0: true, 1: true, 16: true, 17: true}},
		{Point{16, 0}, map[uint64]bool{0: true, 1: true, 16: true, 17: true}},
	}

	for _, c := range cases {
		got := map[uint64]bool{}
		zoneIndexesInRange(c.p, m, func(idx uint64) { got[idx] = true })
		if len(got) != len(c.want) {
			t.Fatalf("window(%+v) = %v, want %v", c.p, got, c.want)
		}
		for idx := range c.want {
			if !got[idx] {
				t.Fatalf("window(%+v) missing index %d: got %v", c.p, idx, got)
			}
		}
	}
}

func TestZoneIndexWindowContainsOwnZone(t *testing.T) {
	m := testMap()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		p := m.RandomPoint(rng)
		own := zoneIndexForPoint(p, m)
		found := false
		zoneIndexesInRange(p, m, func(idx uint64) {
			if idx == own {
				found = true
			}
		})
		if !found {
			t.Fatalf("window around %+v does not contain its own zone index %d", p, own)
		}
	}
}

// TestHashPointIsDeterministic exercises hashPoint the way a
// property-based test seeds its point sample: two points with equal
// coordinates must fingerprint identically, and (for this sample size)
// distinct coordinates must not collide, so the fingerprint is fit to
// dedupe generated points across repeated runs.
func TestHashPointIsDeterministic(t *testing.T) {
	m := testMap()
	rng := rand.New(rand.NewSource(3))

	seen := map[uint64]Point{}
	for i := 0; i < 2000; i++ {
		p := m.RandomPoint(rng)
		h := hashPoint(p)

		if h != hashPoint(p) {
			t.Fatalf("hashPoint(%+v) not stable across calls", p)
		}
		if prior, ok := seen[h]; ok && prior != p {
			t.Fatalf("hash collision: %+v and %+v both hash to %d", prior, p, h)
		}
		seen[h] = p
	}
}

func TestZoneIndexForPointIsUniqueAndConsistent(t *testing.T) {
	m := testMap()
	for zx := uint64(0); zx < m.MapWidthInZones; zx++ {
		for zy := uint64(0); zy < m.MapWidthInZones; zy++ {
			lo := Point{X: zx * m.ZoneWidth, Y: zy * m.ZoneWidth}
			z := Zone{Lo: lo, Hi: Point{X: lo.X + m.ZoneWidth, Y: lo.Y + m.ZoneWidth}}
			want := zx*m.MapWidthInZones + zy
			if !z.Contains(lo) {
				t.Fatalf("zone %+v does not contain its own lo corner", z)
			}
			if got := zoneIndexForPoint(lo, m); got != want {
				t.Fatalf("zoneIndexForPoint(%+v) = %d, want %d", lo, got, want)
			}
		}
	}
}

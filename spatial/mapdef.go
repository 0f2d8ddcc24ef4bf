package spatial

import "math/rand"

// MapDefinition is the grid's geometry: zone size and map extent in
// zones, plus the derived maximum valid coordinate.
type MapDefinition struct {
	ZoneWidth       uint64 // cells per zone edge
	MapWidthInZones uint64 // zones per map edge
	coordMax        uint64 // ZoneWidth*MapWidthInZones - 1
}

// NewMapDefinition precomputes coordMax so PointIsInside is a single
// comparison on the hot path.
func NewMapDefinition(zoneWidth, mapWidthInZones uint64) MapDefinition {
	return MapDefinition{
		ZoneWidth:       zoneWidth,
		MapWidthInZones: mapWidthInZones,
		coordMax:        zoneWidth*mapWidthInZones - 1,
	}
}

// CoordMax is the largest coordinate valid on either axis.
func (m MapDefinition) CoordMax() uint64 { return m.coordMax }

// zoneCount is the total number of zones tiling the map.
func (m MapDefinition) zoneCount() uint64 { return m.MapWidthInZones * m.MapWidthInZones }

func (m MapDefinition) coordIsInside(c uint64) bool {
	return c < m.ZoneWidth*m.MapWidthInZones
}

// PointIsInside reports whether p's coordinates are both within
// [0, coordMax].
func (m MapDefinition) PointIsInside(p Point) bool {
	return m.coordIsInside(p.X) && m.coordIsInside(p.Y)
}

// RandomPoint returns a point drawn uniformly from [0, coordMax) on
// each axis.
func (m MapDefinition) RandomPoint(rng *rand.Rand) Point {
	return Point{
		X: uint64(rng.Int63n(int64(m.coordMax))),
		Y: uint64(rng.Int63n(int64(m.coordMax))),
	}
}

// RandomPointNextTo returns a 4-neighbor (von Neumann) of p that is
// guaranteed to be inside the map. The distribution need not be
// uniform over the four neighbors; the only guarantee is Chebyshev
// distance 1 from p, always inside the map. Matching the source's
// branch structure avoids a rejection loop at the map's boundary.
func (m MapDefinition) RandomPointNextTo(p Point, rng *rand.Rand) Point {
	c := p
	switch rng.Intn(4) {
	case 0:
		switch {
		case c.X < m.coordMax:
			c.X++
		case c.X > 0:
			c.X--
		case c.Y < m.coordMax:
			c.Y++
		default:
			c.Y--
		}
	case 1:
		switch {
		case c.X > 0:
			c.X--
		case c.Y < m.coordMax:
			c.Y++
		case c.Y > 0:
			c.Y--
		default:
			c.X++
		}
	case 2:
		switch {
		case c.Y < m.coordMax:
			c.Y++
		case c.Y > 0:
			c.Y--
		case c.X < m.coordMax:
			c.X++
		default:
			c.X--
		}
	default:
		switch {
		case c.Y > 0:
			c.Y--
		case c.X < m.coordMax:
			c.X++
		case c.X > 0:
			c.X--
		default:
			c.Y++
		}
	}
	return c
}

// zoneIndexForPoint maps a point to the zone that contains it. The
// indexing scheme is x*N + y, the only one consistent with how
// zoneIndexesInRange enumerates a window (spec section 9 flags the
// source's other, inconsistent x*W+y scheme as a latent bug; it is
// not reproduced here).
func zoneIndexForPoint(p Point, m MapDefinition) uint64 {
	x := p.X / m.ZoneWidth
	y := p.Y / m.ZoneWidth
	return x*m.MapWidthInZones + y
}

// zoneIndexesInRange enumerates the 3x3 (edge-clipped 2x2 or 2x3)
// window of zone indexes around p, calling visit once per index. The
// window always contains zoneIndexForPoint(p). Zone columns and rows
// past the map's last zone are skipped.
func zoneIndexesInRange(p Point, m MapDefinition, visit func(index uint64)) {
	startX, spanX := windowStart(p.X, m.ZoneWidth)
	startY, spanY := windowStart(p.Y, m.ZoneWidth)

	for xOff := uint64(0); xOff < spanX && startX+xOff < m.MapWidthInZones; xOff++ {
		for yOff := uint64(0); yOff < spanY && startY+yOff < m.MapWidthInZones; yOff++ {
			visit((startX+xOff)*m.MapWidthInZones + (startY + yOff))
		}
	}
}

func windowStart(coord, zoneWidth uint64) (start, span uint64) {
	if coord > zoneWidth {
		return coord/zoneWidth - 1, 3
	}
	return 0, 2
}

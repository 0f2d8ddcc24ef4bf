package spatial

// Zone is a half-open rectangle [Lo.X, Hi.X) x [Lo.Y, Hi.Y). Half-open
// containment is mandatory: an entity at the shared edge between two
// zones belongs to exactly one of them, never both.
type Zone struct {
	Lo, Hi Point
}

// Contains reports whether p falls inside the zone's half-open
// rectangle.
func (z Zone) Contains(p Point) bool {
	return p.X >= z.Lo.X && p.X < z.Hi.X && p.Y >= z.Lo.Y && p.Y < z.Hi.Y
}

package spatial

// Point is a 2-D integer coordinate on the map. Coordinates are
// unsigned: the map's origin is its southwest corner.
type Point struct {
	X, Y uint64
}

// NewPoint constructs a Point from raw coordinates.
func NewPoint(x, y uint64) Point { return Point{X: x, Y: y} }

// Package cos provides common low-level types shared by every package
// in this module: typed errors and short correlation ids.
package cos

import "fmt"

type (
	// ErrOutOfBounds is returned when a point falls outside the map's
	// valid coordinate range. Raised at subscribe time; spec section 7
	// ("SubscribeOutOfBounds") treats it as a fatal caller error.
	ErrOutOfBounds struct {
		X, Y, CoordMax uint64
	}

	// ErrInvariant guards the router-level invariant that must never
	// be observable from outside a single Publish call (spec section 7:
	// "DetachInNewZone"). A failed catch-up on initial subscribe
	// panics with a plain message instead.
	ErrInvariant struct {
		What string
	}
)

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("point (%d,%d) is outside the map (max coordinate %d)", e.X, e.Y, e.CoordMax)
}

func (e *ErrInvariant) Error() string { return "invariant violated: " + e.What }

func IsErrOutOfBounds(err error) bool {
	_, ok := err.(*ErrOutOfBounds)
	return ok
}

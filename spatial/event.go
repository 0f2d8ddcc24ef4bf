package spatial

// SpatialEvent describes a single change in an acting entity's
// position, or an advisory notice synthesized by the broker itself.
//
// To is nil when the acting entity disappears. IsMove distinguishes
// real position changes from advisory catch-up events, which always
// carry From == *To and IsMove == false so they never feed back into
// resident bookkeeping on the receiving end.
type SpatialEvent[E Entity] struct {
	From         Point
	To           *Point
	ActingEntity E
	IsMove       bool
}

// catchUpEvent synthesizes the advisory "this entity is here" notice
// sent to a subscriber that just gained visibility into entity's zone.
func catchUpEvent[E Entity](pos Point, entity E) *SpatialEvent[E] {
	p := pos
	return &SpatialEvent[E]{
		From:         pos,
		To:           &p,
		ActingEntity: entity,
		IsMove:       false,
	}
}

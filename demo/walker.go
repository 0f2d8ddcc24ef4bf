package demo

import (
	"math/rand"
	"time"

	"github.com/spatialgrid/broker/spatial"
)

// Walker picks the next destination for a simulated entity and the
// delay before it should move there, at an approximate rate of
// ratePerSec moves per second. Grounded on
// demo_client/client.rs's trigger_new_move.
type Walker struct {
	mapDef     spatial.MapDefinition
	rng        *rand.Rand
	ratePerSec uint64
}

// NewWalker builds a Walker over mapDef, moving at roughly ratePerSec
// moves per second, seeded from seed for reproducible simulation runs.
func NewWalker(mapDef spatial.MapDefinition, seed int64, ratePerSec uint64) *Walker {
	if ratePerSec == 0 {
		ratePerSec = 1
	}
	return &Walker{mapDef: mapDef, rng: rand.New(rand.NewSource(seed)), ratePerSec: ratePerSec}
}

// NextMove returns the event moving entity from `from` to a
// Von-Neumann neighbor, an updated copy of entity stamped with the
// current time, and how long the caller should wait before sending
// it.
func (w *Walker) NextMove(entity Entity, from spatial.Point) (Entity, *spatial.SpatialEvent[Entity], time.Duration) {
	to := w.mapDef.RandomPointNextTo(from, w.rng)
	moved := entity.Moved()
	event := &spatial.SpatialEvent[Entity]{From: from, To: &to, ActingEntity: moved, IsMove: true}
	return moved, event, w.delay()
}

// delay returns a randomized interval centered on the configured
// rate, the same [0.5x, 1.5x) jitter window as the original generator.
func (w *Walker) delay() time.Duration {
	lo := int64(500_000_000 / w.ratePerSec)
	hi := int64(1_500_000_000 / w.ratePerSec)
	return time.Duration(lo+w.rng.Int63n(hi-lo)) * time.Nanosecond
}

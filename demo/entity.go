// Package demo is the external collaborator exercising spatiald over
// the wire: a simulated entity that randomly walks the map and a
// latency logger, grounded on original_source's demo_core/entity.rs
// and demo_client/client.rs. Nothing in spatial, transport, or
// ioadapter depends on it; it is a client of the system, not part of
// it.
package demo

import (
	"time"

	"github.com/google/uuid"
)

// Timestamp is a wall-clock reading in milliseconds since the Unix
// epoch. Unlike cmn/mono's process-local monotonic clock, it is
// meaningful across the wire: a client measures the latency of an
// echoed event against the Timestamp the server stamped it with.
type Timestamp int64

// Now returns the current wall-clock Timestamp.
func Now() Timestamp { return Timestamp(time.Now().UnixMilli()) }

// Elapsed returns how much wall-clock time has passed since t.
func (t Timestamp) Elapsed() time.Duration {
	return time.Duration(int64(Now())-int64(t)) * time.Millisecond
}

// Entity is the demo payload carried by every SpatialEvent in this
// system: an id and the wall-clock time its position was last
// updated.
type Entity struct {
	ID              uuid.UUID `json:"id"`
	LastStateUpdate Timestamp `json:"last_state_update"`
}

// EntityID implements spatial.Entity.
func (e Entity) EntityID() uuid.UUID { return e.ID }

// NewEntity returns a fresh Entity stamped with the current time.
func NewEntity() Entity {
	return Entity{ID: uuid.New(), LastStateUpdate: Now()}
}

// Moved returns a copy of e with its timestamp refreshed to now,
// as if it had just completed a move.
func (e Entity) Moved() Entity {
	e.LastStateUpdate = Now()
	return e
}

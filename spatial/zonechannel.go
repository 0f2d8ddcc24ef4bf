package spatial

import (
	"github.com/spatialgrid/broker/cmn/debug"
)

type resident[E Entity] struct {
	pos    Point
	entity E
}

// ZoneChannel holds the state of a single tile of the map: the
// subscribers currently watching it, and the entities currently
// resident inside it.
type ZoneChannel[E Entity] struct {
	area        Zone
	subscribers []Subscriber[E]
	residents   map[EntityID]resident[E]
}

// NewZoneChannel constructs an empty ZoneChannel over area. Exported
// primarily so tests and introspection tooling (package worldview) can
// construct or inspect one directly; SpatialChannel is the only
// production caller.
func NewZoneChannel[E Entity](area Zone) *ZoneChannel[E] {
	return &ZoneChannel[E]{
		area:      area,
		residents: make(map[EntityID]resident[E]),
	}
}

// Residents returns the zone's current residents. Callers must treat
// the slice as a snapshot; it is not updated live.
func (z *ZoneChannel[E]) Residents() []Entity {
	out := make([]Entity, 0, len(z.residents))
	for _, r := range z.residents {
		out = append(out, r.entity)
	}
	return out
}

// ResidentSnapshot pairs a resident entity with its last known
// position.
type ResidentSnapshot[E Entity] struct {
	Pos    Point
	Entity E
}

// ResidentSnapshots returns a position-and-entity snapshot of every
// current resident, for introspection callers (package worldview) that
// need more than Residents' entity-only view.
func (z *ZoneChannel[E]) ResidentSnapshots() []ResidentSnapshot[E] {
	out := make([]ResidentSnapshot[E], 0, len(z.residents))
	for _, r := range z.residents {
		out = append(out, ResidentSnapshot[E]{Pos: r.pos, Entity: r.entity})
	}
	return out
}

// Subscribe admits sub to the zone. If warnOfResidents is true, sub
// first receives one catch-up event per current resident, and the
// number sent is returned for the caller's own accounting. A dead or
// unsubscribing sink at this point is a programming error: a
// just-admitted subscriber must still be alive (spec section 7,
// CatchUpFailureOnInitialSubscribe).
func (z *ZoneChannel[E]) Subscribe(sub Subscriber[E], warnOfResidents bool) (catchUpsSent int) {
	if warnOfResidents {
		for _, r := range z.residents {
			keep, err := sub.Send(catchUpEvent(r.pos, r.entity))
			if err != nil || !keep {
				panic("spatial: subscriber was already gone on initial catch-up delivery")
			}
			catchUpsSent++
		}
	}
	z.subscribers = append(z.subscribers, sub)
	return catchUpsSent
}

// Publish applies event to this zone's resident bookkeeping and fans
// it out to every subscriber. If the acting entity owned a
// subscription in this zone and this publish makes it leave, that
// subscriber is detached from the zone and returned so the caller
// (SpatialChannel) can re-home it at the destination zone.
func (z *ZoneChannel[E]) Publish(event *SpatialEvent[E]) Subscriber[E] {
	leaving := z.updateResidents(event)

	var detached Subscriber[E]
	kept := z.subscribers[:0]
	actingID := event.ActingEntity.EntityID()

	for _, sub := range z.subscribers {
		keep, err := sub.Send(event)
		switch {
		case err != nil || !keep:
			continue // drop: Gone, or intentional unsubscribe
		case leaving && sub.SubscriberEntityID() == actingID:
			debug.Assert(detached == nil, "at most one subscriber per zone can own the acting entity")
			detached = sub // detach: owner of the acting entity, zone departed
		default:
			kept = append(kept, sub)
		}
	}
	z.subscribers = kept

	return detached
}

// updateResidents applies the four-case resident transition from
// spec section 4.4 and reports whether the acting entity left this
// zone as part of the transition.
func (z *ZoneChannel[E]) updateResidents(event *SpatialEvent[E]) (leaving bool) {
	if !event.IsMove {
		return false
	}

	id := event.ActingEntity.EntityID()
	fromIn := z.area.Contains(event.From)
	toIn := event.To != nil && z.area.Contains(*event.To)

	switch {
	case fromIn && toIn:
		z.residents[id] = resident[E]{pos: *event.To, entity: event.ActingEntity}
		return false
	case fromIn && !toIn:
		delete(z.residents, id)
		return true
	case !fromIn && toIn:
		z.residents[id] = resident[E]{pos: *event.To, entity: event.ActingEntity}
		return false
	default:
		return false
	}
}

package spatial

import (
	"github.com/spatialgrid/broker/cmn/cos"
	"github.com/spatialgrid/broker/cmn/debug"
	"github.com/spatialgrid/broker/cmn/nlog"
)

// SpatialChannel is the map-wide event router. It owns every
// ZoneChannel and every admitted Subscriber handle, and is the only
// component that sees across zone boundaries; a ZoneChannel never
// does. It is not safe for concurrent use — spec section 5 assumes a
// single-threaded executor driving Publish/Subscribe to completion
// before the next call begins.
type SpatialChannel[E Entity] struct {
	mapDef MapDefinition
	zones  []*ZoneChannel[E]
}

// NewSpatialChannel builds one ZoneChannel per tile of mapDef, tiling
// the map exactly.
func NewSpatialChannel[E Entity](mapDef MapDefinition) *SpatialChannel[E] {
	zones := make([]*ZoneChannel[E], mapDef.zoneCount())
	for zx := uint64(0); zx < mapDef.MapWidthInZones; zx++ {
		for zy := uint64(0); zy < mapDef.MapWidthInZones; zy++ {
			lo := Point{X: zx * mapDef.ZoneWidth, Y: zy * mapDef.ZoneWidth}
			hi := Point{X: lo.X + mapDef.ZoneWidth, Y: lo.Y + mapDef.ZoneWidth}
			zones[zx*mapDef.MapWidthInZones+zy] = NewZoneChannel[E](Zone{Lo: lo, Hi: hi})
		}
	}
	return &SpatialChannel[E]{mapDef: mapDef, zones: zones}
}

// MapDefinition returns the channel's map geometry.
func (s *SpatialChannel[E]) MapDefinition() MapDefinition { return s.mapDef }

// ZoneAt returns the ZoneChannel owning position (for introspection
// callers such as package worldview; not used by the publish/
// subscribe hot path itself).
func (s *SpatialChannel[E]) ZoneAt(position Point) (*ZoneChannel[E], bool) {
	if !s.mapDef.PointIsInside(position) {
		return nil, false
	}
	return s.zones[zoneIndexForPoint(position, s.mapDef)], true
}

// Zones returns every ZoneChannel tiling the map, in zone-index order.
// Exported for introspection callers such as package worldview.
func (s *SpatialChannel[E]) Zones() []*ZoneChannel[E] { return s.zones }

// Subscribe admits sub to the zone containing position, catching it up
// on that zone's residents. Fatal if position is out of range: spec section 7,
// SubscribeOutOfBounds — a caller should never offer a position it
// didn't get from this same MapDefinition. Returns the number of
// catch-up events sent for the caller's own accounting (package
// metrics).
func (s *SpatialChannel[E]) Subscribe(sub Subscriber[E], position Point) (catchUpsSent int) {
	if !s.mapDef.PointIsInside(position) {
		panic(&cos.ErrOutOfBounds{X: position.X, Y: position.Y, CoordMax: s.mapDef.CoordMax()})
	}
	return s.zones[zoneIndexForPoint(position, s.mapDef)].Subscribe(sub, true)
}

// Publish is the core state machine: it fans event out to every zone
// whose visible range intersects event.From or event.To, and if the
// acting entity owned a subscription that the move left behind, it
// re-homes that subscription at the destination zone, catching the
// re-homed subscriber up on any newly-visible residents along the
// way. Returns the number of catch-up events synthesized by that
// re-homing, for the caller's own accounting (package metrics).
func (s *SpatialChannel[E]) Publish(event *SpatialEvent[E]) (catchUpsSent int) {
	from := make(map[uint64]struct{})
	var detached Subscriber[E]

	zoneIndexesInRange(event.From, s.mapDef, func(index uint64) {
		from[index] = struct{}{}
		if d := s.zones[index].Publish(event); d != nil {
			debug.Assert(detached == nil, "at most one subscriber in the system owns the acting entity")
			detached = d
		}
	})

	if event.To == nil {
		// Acting entity disappeared: any detached subscriber has
		// nowhere to go and is simply dropped (spec section 4.5, step 4).
		if detached != nil {
			nlog.Infof("entity %s disappeared, dropping its subscription", event.ActingEntity.EntityID())
		}
		return 0
	}

	zoneIndexesInRange(*event.To, s.mapDef, func(index uint64) {
		if _, already := from[index]; already {
			return
		}
		if d := s.zones[index].Publish(event); d != nil {
			panic(&cos.ErrInvariant{What: "a to-range zone returned a detached subscriber it never owned"})
		}
		if detached != nil {
			zone := s.zones[index]
			for _, r := range zone.residents {
				// Delivery failures here are ignored: the re-homed
				// subscriber may already be gone. It is still
				// re-subscribed below, and is dropped by the next
				// zone publish whose Send to it fails.
				_, err := detached.Send(catchUpEvent(r.pos, r.entity))
				if err == nil {
					catchUpsSent++
				}
			}
		}
	})

	if detached != nil {
		s.zones[zoneIndexForPoint(*event.To, s.mapDef)].Subscribe(detached, false)
	}
	return catchUpsSent
}

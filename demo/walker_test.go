package demo

import (
	"testing"

	"github.com/spatialgrid/broker/spatial"
)

func TestWalkerNextMoveStaysInBounds(t *testing.T) {
	mapDef := spatial.NewMapDefinition(16, 16)
	walker := NewWalker(mapDef, 1, 10)
	entity := NewEntity()
	from := mapDef.RandomPoint(walker.rng)

	for i := 0; i < 1000; i++ {
		var event *spatial.SpatialEvent[Entity]
		entity, event, _ = walker.NextMove(entity, from)
		if !mapDef.PointIsInside(*event.To) {
			t.Fatalf("move %d: destination %+v outside of map", i, *event.To)
		}
		if event.ActingEntity.LastStateUpdate == 0 {
			t.Fatalf("move %d: entity timestamp was not refreshed", i)
		}
		from = *event.To
	}
}

func TestEntityMovedRefreshesTimestamp(t *testing.T) {
	entity := NewEntity()
	before := entity.LastStateUpdate
	moved := entity.Moved()
	if moved.LastStateUpdate < before {
		t.Fatalf("Moved() timestamp %d is before original %d", moved.LastStateUpdate, before)
	}
	if moved.ID != entity.ID {
		t.Fatalf("Moved() changed the entity id")
	}
}

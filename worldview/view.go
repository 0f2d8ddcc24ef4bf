// Package worldview is an operational, non-persistent introspection
// read-model over a spatial channel's residents: a periodically
// rebuilt in-memory spatial index, queryable by bounding box. It has
// no effect on delivery — it exists purely for operators asking
// "who's in this rectangle right now", not for the broker itself.
package worldview

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/pkg/errors"

	"github.com/spatialgrid/broker/metrics"
	"github.com/spatialgrid/broker/spatial"
)

const positionIndex = "positions"

// Source is the slice of an engine a View needs: its map geometry and
// every zone tiling it.
type Source[E spatial.Entity] interface {
	MapDefinition() spatial.MapDefinition
	Zones() []*spatial.ZoneChannel[E]
}

// View holds a snapshot of every resident's position in an in-memory
// buntdb, rebuilt wholesale on demand.
type View[E spatial.Entity] struct {
	db     *buntdb.DB
	source Source[E]
}

// New builds a View over source, with an initial snapshot already
// populated.
func New[E spatial.Entity](source Source[E]) (*View[E], error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "worldview: opening in-memory index")
	}
	if err := db.CreateSpatialIndex(positionIndex, "*", buntdb.IndexRect); err != nil {
		return nil, errors.Wrap(err, "worldview: creating spatial index")
	}

	v := &View[E]{db: db, source: source}
	if err := v.rebuild(); err != nil {
		return nil, err
	}
	return v, nil
}

// Close releases the view's in-memory index.
func (v *View[E]) Close() error {
	return v.db.Close()
}

func (v *View[E]) rebuild() error {
	perZone := map[uint64]int{}
	entries := map[string]string{}
	for zoneIdx, zone := range v.source.Zones() {
		snapshots := zone.ResidentSnapshots()
		perZone[uint64(zoneIdx)] = len(snapshots)
		for _, r := range snapshots {
			entries[r.Entity.EntityID().String()] = fmt.Sprintf("[%d %d]", r.Pos.X, r.Pos.Y)
		}
	}

	err := v.db.Update(func(tx *buntdb.Tx) error {
		if err := tx.DeleteAll(); err != nil {
			return err
		}
		if err := tx.CreateSpatialIndex(positionIndex, "*", buntdb.IndexRect); err != nil {
			return err
		}
		for key, val := range entries {
			if _, _, err := tx.Set(key, val, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "worldview: rebuilding snapshot")
	}

	for zoneIdx, n := range perZone {
		metrics.SetZoneResidents(fmt.Sprintf("%d", zoneIdx), n)
	}
	return nil
}

// Within returns the entity IDs of every resident whose last known
// position falls within the half-open rectangle [lo, hi).
func (v *View[E]) Within(lo, hi spatial.Point) ([]string, error) {
	var ids []string
	bounds := fmt.Sprintf("[%d %d],[%d %d]", lo.X, lo.Y, hi.X-1, hi.Y-1)
	err := v.db.View(func(tx *buntdb.Tx) error {
		return tx.Intersects(positionIndex, bounds, func(key, _ string) bool {
			ids = append(ids, key)
			return true
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "worldview: querying bounding box")
	}
	return ids, nil
}

// Run rebuilds the snapshot on a fixed cadence and whenever any
// diagnostic event fires, until ctx is done.
func (v *View[E]) Run(ctx context.Context, interval time.Duration) {
	listenerID := fmt.Sprintf("worldview-%p", v)
	nudge := make(chan struct{}, 1)
	metrics.Subscribe(listenerID, func(metrics.DiagnosticEvent) {
		select {
		case nudge <- struct{}{}:
		default:
		}
	})
	defer metrics.Unsubscribe(listenerID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = v.rebuild()
		case <-nudge:
			_ = v.rebuild()
		}
	}
}

package ioadapter

import (
	"context"

	"github.com/spatialgrid/broker/cmn/mono"
	"github.com/spatialgrid/broker/cmn/nlog"
	"github.com/spatialgrid/broker/metrics"
	"github.com/spatialgrid/broker/spatial"
)

// slowCommandThreshold flags a single Publish/Subscribe call that
// monopolized the engine's single command goroutine long enough to
// back up every other connection behind it.
const slowCommandThreshold = 5_000_000 // 5ms, in nanoseconds

// Engine serializes every Subscribe/Publish call onto a single
// goroutine, since spatial.SpatialChannel assumes a single-threaded
// caller (spec section 5) but a real server fans connections out
// across many goroutines.
type Engine[E spatial.Entity] struct {
	channel *spatial.SpatialChannel[E]
	cmds    chan func()
}

// NewEngine builds an Engine over a fresh SpatialChannel for mapDef.
// Run must be started before any Subscribe/Publish call, or those
// calls block forever.
func NewEngine[E spatial.Entity](mapDef spatial.MapDefinition) *Engine[E] {
	return &Engine[E]{
		channel: spatial.NewSpatialChannel[E](mapDef),
		cmds:    make(chan func()),
	}
}

// Run drives the engine's command loop until ctx is done.
func (e *Engine[E]) Run(ctx context.Context) {
	for {
		select {
		case cmd := <-e.cmds:
			start := mono.NanoTime()
			cmd()
			if elapsed := mono.NanoTime() - start; elapsed > slowCommandThreshold {
				nlog.Warningf("engine: command took %dns, exceeding %dns threshold", elapsed, slowCommandThreshold)
			}
		case <-ctx.Done():
			return
		}
	}
}

// MapDefinition returns the engine's map geometry.
func (e *Engine[E]) MapDefinition() spatial.MapDefinition {
	return e.channel.MapDefinition()
}

// Subscribe admits sub at position, blocking until the engine's
// command loop has processed it.
func (e *Engine[E]) Subscribe(sub spatial.Subscriber[E], position spatial.Point) {
	done := make(chan struct{})
	var catchUps int
	e.cmds <- func() {
		catchUps = e.channel.Subscribe(sub, position)
		close(done)
	}
	<-done
	metrics.RecordSubscribe()
	for i := 0; i < catchUps; i++ {
		metrics.RecordCatchUp()
	}
}

// Publish routes event through the engine's command loop, blocking
// until it has been applied.
func (e *Engine[E]) Publish(event *spatial.SpatialEvent[E]) {
	done := make(chan struct{})
	var catchUps int
	e.cmds <- func() {
		catchUps = e.channel.Publish(event)
		close(done)
	}
	<-done
	metrics.RecordPublish()
	for i := 0; i < catchUps; i++ {
		metrics.RecordCatchUp()
	}
}

// Zones returns every ZoneChannel tiling the engine's map, for
// introspection callers (package worldview). Callers outside the
// command loop must treat each zone's state as read-only.
func (e *Engine[E]) Zones() []*spatial.ZoneChannel[E] {
	return e.channel.Zones()
}

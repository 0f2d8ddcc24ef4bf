// Package subsub is the production spatial.Subscriber used by
// ioadapter: an unbounded FIFO per connected entity, so a slow or
// stalled network write never blocks the single-threaded broker
// engine's Publish call.
package subsub

import (
	"sync"

	infinity "github.com/Code-Hex/go-infinity-channel"

	"github.com/spatialgrid/broker/spatial"
)

// Sink queues every SpatialEvent delivered to it on an unbounded
// channel for a consumer goroutine (the connection's write pump) to
// drain at its own pace.
type Sink[E spatial.Entity] struct {
	id EntityID

	mu     sync.Mutex
	closed bool
	ch     *infinity.Channel[*spatial.SpatialEvent[E]]
}

// EntityID is an alias kept local to this package so callers don't
// need to import spatial just to name the type.
type EntityID = spatial.EntityID

// New returns a Sink for the entity identified by id. The caller is
// responsible for eventually calling Close once the consumer side is
// done draining Events.
func New[E spatial.Entity](id EntityID) *Sink[E] {
	return &Sink[E]{id: id, ch: infinity.NewChannel[*spatial.SpatialEvent[E]]()}
}

// SubscriberEntityID implements spatial.Subscriber.
func (s *Sink[E]) SubscriberEntityID() EntityID { return s.id }

// Send implements spatial.Subscriber. It never blocks: the underlying
// channel grows to absorb events, trading memory for the broker
// engine never stalling on a single slow reader.
func (s *Sink[E]) Send(event *spatial.SpatialEvent[E]) (keep bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, spatial.ErrSubscriberGone
	}
	s.ch.In() <- event
	return true, nil
}

// Events returns the channel a consumer drains delivered events from.
// It is closed once Close is called and all buffered events have been
// drained.
func (s *Sink[E]) Events() <-chan *spatial.SpatialEvent[E] {
	return s.ch.Out()
}

// Close stops accepting further events. Safe to call more than once
// and concurrently with Send.
func (s *Sink[E]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.ch.Close()
}

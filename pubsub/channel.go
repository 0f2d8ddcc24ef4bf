// Package pubsub is the non-spatial publish/subscribe primitive: a flat
// fan-out channel with no notion of geometry or residency, just a
// subscriber list and a retain-on-send loop. The zone-aware broker in
// package spatial keeps its own subscriber lists and does not use it;
// package metrics does, for its diagnostic events.
package pubsub

import "errors"

// ErrReceiverGone reports that a subscriber's underlying sink can no
// longer accept events and should be dropped.
var ErrReceiverGone = errors.New("pubsub: subscriber's receiver is gone")

// Subscriber receives events of type E, identified by an ID of type
// ID so callers can Unsubscribe without holding onto the original
// value. Send returns keep=false or a non-nil err to be dropped from
// the channel by the Publish call that invoked it.
type Subscriber[E any, ID comparable] interface {
	EntityID() ID
	Send(event E) (keep bool, err error)
}

// Channel fans events out to every subscribed Subscriber, dropping any
// that report themselves gone or ask to stop. It is not safe for
// concurrent use; callers that need concurrency serialize access
// themselves (see package subsub for a buffered, goroutine-safe sink).
type Channel[E any, ID comparable] struct {
	subscribers []Subscriber[E, ID]
}

// New returns an empty Channel.
func New[E any, ID comparable]() *Channel[E, ID] {
	return &Channel[E, ID]{}
}

// Subscribe admits sub to the channel.
func (c *Channel[E, ID]) Subscribe(sub Subscriber[E, ID]) {
	c.subscribers = append(c.subscribers, sub)
}

// Unsubscribe removes the first subscriber with the given id, if any,
// and reports whether one was found.
func (c *Channel[E, ID]) Unsubscribe(id ID) bool {
	for i, sub := range c.subscribers {
		if sub.EntityID() == id {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Publish fans event out to every subscriber, dropping any whose Send
// returns keep=false or a non-nil error.
func (c *Channel[E, ID]) Publish(event E) {
	kept := c.subscribers[:0]
	for _, sub := range c.subscribers {
		keep, err := sub.Send(event)
		if err != nil || !keep {
			continue
		}
		kept = append(kept, sub)
	}
	c.subscribers = kept
}

// Len reports the current subscriber count.
func (c *Channel[E, ID]) Len() int { return len(c.subscribers) }

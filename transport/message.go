// Package transport is the wire protocol spoken between spatiald and
// its connected clients: a length-prefixed frame carrying one tagged
// Message, grounded on original_source's network/codec.rs and
// message.rs.
package transport

import "github.com/spatialgrid/broker/spatial"

// Kind tags which field of Message is populated.
type Kind string

const (
	// KindConnectionAck is sent exactly once, by the daemon to a newly
	// accepted connection, naming the entity it has been assigned.
	// Forbidden in the client-to-daemon direction.
	KindConnectionAck Kind = "connection_ack"
	// KindEvent carries a SpatialEvent in either direction: a client
	// reports a move of its own entity, the daemon relays any event
	// visible to the subscriber it owns.
	KindEvent Kind = "event"
)

// Message is the wire tagged union. Exactly one of ConnectionAck or
// Event is populated, selected by Kind.
type Message[E spatial.Entity] struct {
	Kind          Kind                     `json:"kind"`
	ConnectionAck *E                       `json:"connection_ack,omitempty"`
	Event         *spatial.SpatialEvent[E] `json:"event,omitempty"`
}

// NewConnectionAck builds the handshake message a daemon sends a
// client immediately after accepting its connection.
func NewConnectionAck[E spatial.Entity](entity E) *Message[E] {
	return &Message[E]{Kind: KindConnectionAck, ConnectionAck: &entity}
}

// NewEvent wraps event for the wire.
func NewEvent[E spatial.Entity](event *spatial.SpatialEvent[E]) *Message[E] {
	return &Message[E]{Kind: KindEvent, Event: event}
}

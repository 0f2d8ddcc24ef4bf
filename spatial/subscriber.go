package spatial

// Subscriber is the broker's abstract event sink. It is intentionally
// a two-method capability rather than an inheritance hierarchy
// (spec section 9), so the core stays generic over both a production
// sink backed by an unbounded queue (package subsub) and a plain
// counting sink used in tests.
//
// Send must not call back into the SpatialChannel or ZoneChannel that
// invoked it (spec section 5, "Re-entrancy"): delivery must be
// queue-append only, or it risks invalidating the subscriber-slice
// traversal that is iterating when Send is called.
type Subscriber[E Entity] interface {
	// SubscriberEntityID is the identity of the entity this
	// subscriber was issued for. Used to detect "this subscriber owns
	// that entity" when a publish leaves a zone.
	SubscriberEntityID() EntityID

	// Send delivers event to the subscriber.
	//
	//   keep=true,  err=nil: delivered, retain the subscriber.
	//   keep=false, err=nil: delivered, drop the subscriber (the sink
	//                        chose to unsubscribe).
	//   err!=nil:            delivery failed, the sink is gone; drop
	//                        the subscriber. keep is ignored.
	Send(event *SpatialEvent[E]) (keep bool, err error)
}

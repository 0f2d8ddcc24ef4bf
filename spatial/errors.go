package spatial

import "errors"

// ErrSubscriberGone is the sentinel a Subscriber implementation
// returns from Send when its downstream receiver has been destroyed
// (spec section 7, ReceiverGone).
var ErrSubscriberGone = errors.New("spatial: subscriber's receiver is gone")

//go:build !debug

// Package debug provides build-tag gated invariant assertions. Built
// without -tags debug, every call here is a zero-cost no-op; the
// fatal invariants in spec section 7 (SubscribeOutOfBounds,
// DetachInNewZone, CatchUpFailureOnInitialSubscribe) still panic
// unconditionally from their call sites — debug.Assert is for the
// cheaper, hot-path invariants that would otherwise cost something in
// production.
package debug

func Assert(_ bool, _ ...any)            {}
func Assertf(_ bool, _ string, _ ...any) {}

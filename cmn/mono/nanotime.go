// Package mono provides a monotonic clock source for timing
// operations in-process (the ioadapter engine times each command
// with it).
package mono

import "time"

var start = time.Now()

// NanoTime returns nanoseconds elapsed since process start, monotonic
// within a single run (backed by time.Since, which uses the runtime's
// monotonic clock reading on *time.Time).
func NanoTime() int64 { return time.Since(start).Nanoseconds() }

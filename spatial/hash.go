package spatial

import (
	"fmt"

	"github.com/spatialgrid/broker/cmn/cos"
)

// hashPoint is a deterministic fingerprint of a point, used only by
// the tests, which check that it is stable and collision-free over a
// sample of random points (grounded on the teacher's fs/hrw.go
// xxhash.Checksum64S call shape).
func hashPoint(p Point) uint64 {
	return cos.HashString(fmt.Sprintf("%d:%d", p.X, p.Y))
}

package cos

import (
	"sync"

	"github.com/OneOfOne/xxhash"
	"github.com/teris-io/shortid"
)

// Alphabet for generating correlation ids, matching the length and
// shape of shortid's own default alphabet.
const corrIDABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

var (
	sidOnce sync.Once
	sid     *shortid.Shortid
)

func initShortID() {
	sid = shortid.MustNew(1 /*worker*/, corrIDABC, xxhash.Checksum64([]byte("spatialgrid"))&0xffffffff)
}

// NewCorrelationID returns a short, human-legible id used to tag a
// connection's log lines. It is not the entity identity — that is a
// google/uuid.UUID minted once per connection and carried in every
// SpatialEvent; this is purely an operator-facing log correlation tag.
func NewCorrelationID() string {
	sidOnce.Do(initShortID)
	return sid.MustGenerate()
}

// HashString is a small deterministic xxhash fingerprint helper, used
// by the spatial package's test-only hashPoint to fingerprint points.
func HashString(s string) uint64 {
	return xxhash.ChecksumString64(s)
}

package spatial

import "github.com/google/uuid"

// EntityID is the 128-bit opaque identity carried by every entity in
// the system.
type EntityID = uuid.UUID

// Entity is any value with a stable identity. Entities are plain Go
// values (cheap to copy by assignment) rather than pointers, matching
// spec section 3's "cloning is cheap" requirement.
type Entity interface {
	EntityID() EntityID
}

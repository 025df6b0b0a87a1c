package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ReplicaKey identifies one incarnation of a replica. Two keys with the
// same ID but different DirectoryID are distinct replicas for every
// voting and leadership purpose.
type ReplicaKey struct {
	ID          int32
	DirectoryID uuid.UUID
}

// String renders the key for logs and error messages.
func (k ReplicaKey) String() string {
	return fmt.Sprintf("%d-%s", k.ID, k.DirectoryID)
}

// Equal reports whether two keys name the same replica incarnation.
func (k ReplicaKey) Equal(other ReplicaKey) bool {
	return k.ID == other.ID && k.DirectoryID == other.DirectoryID
}

// VersionRange is the inclusive protocol-version range a replica can speak.
type VersionRange struct {
	Min int16
	Max int16
}

// Contains reports whether v falls within the range, inclusive.
func (r VersionRange) Contains(v int16) bool {
	return v >= r.Min && v <= r.Max
}

// ReplicaIdentity describes the local replica: an optional voting id,
// the directory id of its current on-disk incarnation, its advertised
// listeners, and the protocol versions it can speak. ID is nil for an
// observer-only process that has no voting identity.
type ReplicaIdentity struct {
	ID                       *int32
	DirectoryID              uuid.UUID
	Listeners                Endpoints
	LocalSupportedVersionRange VersionRange
}

// IsObserver reports whether this identity has no voting id at all. Note
// that a replica with an id can still behave as an observer if it is not
// a member of the current voter set — that distinction is made by
// VoterSet.Contains, not here.
func (r ReplicaIdentity) IsObserver() bool {
	return r.ID == nil
}

// Key returns the replica's (id, directory-id) pair. Panics if ID is nil;
// callers must check IsObserver first.
func (r ReplicaIdentity) Key() ReplicaKey {
	if r.ID == nil {
		panic("types: Key called on an observer identity with no local id")
	}
	return ReplicaKey{ID: *r.ID, DirectoryID: r.DirectoryID}
}

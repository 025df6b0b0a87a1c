package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newKey(id int32) ReplicaKey {
	return ReplicaKey{ID: id, DirectoryID: uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(id)})}
}

func TestVoterSetContainsExactKeyOnly(t *testing.T) {
	k1 := newKey(1)
	vs := NewVoterSet(VoterNode{Key: k1})

	assert.True(t, vs.Contains(k1))
	assert.True(t, vs.ContainsID(1))

	stale := ReplicaKey{ID: 1, DirectoryID: uuid.New()}
	assert.False(t, vs.Contains(stale))
	assert.True(t, vs.ContainsID(1))
}

func TestVoterSetEndpointsForUnknownIDIsEmpty(t *testing.T) {
	vs := NewVoterSet(VoterNode{Key: newKey(1), Endpoints: Endpoints{"CONTROLLER": {Host: "a", Port: 1}}})
	assert.True(t, vs.EndpointsForID(2).Empty())
	assert.False(t, vs.EndpointsForID(1).Empty())
}

func TestVoterSetIsOnlyVoter(t *testing.T) {
	k1 := newKey(1)
	k2 := newKey(2)
	solo := NewVoterSet(VoterNode{Key: k1})
	assert.True(t, solo.IsOnlyVoter(k1))

	pair := NewVoterSet(VoterNode{Key: k1}, VoterNode{Key: k2})
	assert.False(t, pair.IsOnlyVoter(k1))
}

func TestVoterSetSizeAndIDs(t *testing.T) {
	vs := NewVoterSet(VoterNode{Key: newKey(1)}, VoterNode{Key: newKey(2)}, VoterNode{Key: newKey(3)})
	assert.Equal(t, 3, vs.Size())
	assert.ElementsMatch(t, []int32{1, 2, 3}, vs.IDs())
}

func TestReplicaKeyEqual(t *testing.T) {
	k1 := newKey(1)
	same := ReplicaKey{ID: k1.ID, DirectoryID: k1.DirectoryID}
	other := newKey(2)
	assert.True(t, k1.Equal(same))
	assert.False(t, k1.Equal(other))
}

func TestVersionRangeContains(t *testing.T) {
	r := VersionRange{Min: 0, Max: 2}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(3))
}

func TestReplicaIdentityObserverHasNoKey(t *testing.T) {
	observer := ReplicaIdentity{DirectoryID: uuid.New()}
	assert.True(t, observer.IsObserver())
	assert.Panics(t, func() { observer.Key() })
}

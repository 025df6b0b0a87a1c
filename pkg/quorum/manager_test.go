package quorum

import (
	"math/rand"
	"testing"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/partition"
	"github.com/cuemby/quorumstate/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory election.Store for tests, avoiding a real
// bbolt file on disk.
type memStore struct {
	state        *election.State
	kraftVersion int16
	writes       int
	failNext     bool
}

func (s *memStore) Read() (*election.State, error) {
	if s.state == nil {
		return nil, nil
	}
	copied := *s.state
	return &copied, nil
}

func (s *memStore) Write(state election.State, kraftVersion int16) error {
	if s.failNext {
		s.failNext = false
		return assert.AnError
	}
	copied := state
	s.state = &copied
	s.kraftVersion = kraftVersion
	s.writes++
	return nil
}

func (s *memStore) Path() string { return "memory" }

func key(id int32) types.ReplicaKey {
	return types.ReplicaKey{ID: id, DirectoryID: uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(id)})}
}

func voterSet(ids ...int32) types.VoterSet {
	nodes := make([]types.VoterNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, types.VoterNode{
			Key:       key(id),
			Endpoints: types.Endpoints{"CONTROLLER": {Host: "voter", Port: 9000 + id}},
		})
	}
	return types.NewVoterSet(nodes...)
}

func identity(id int32, vs types.VoterSet) types.ReplicaIdentity {
	k := key(id)
	return types.ReplicaIdentity{
		ID:          &id,
		DirectoryID: k.DirectoryID,
		Listeners:   types.Endpoints{"CONTROLLER": {Host: "self", Port: 9000 + id}},
	}
}

func newTestManager(t *testing.T, id int32, vs types.VoterSet, store *memStore) *Manager {
	t.Helper()
	if store == nil {
		store = &memStore{}
	}
	view := partition.NewStaticView(vs, 0, 1)
	m, err := NewManager(identity(id, vs), store, view, types.OffsetAndEpoch{}, 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return m
}

func TestInitFreshReplicaStartsUnattached(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	assert.True(t, m.IsUnattachedNotVoted())
	assert.EqualValues(t, 0, m.Epoch())
}

func TestInitRule2LogAheadOfStoredEpochAdvances(t *testing.T) {
	vs := voterSet(1, 2, 3)
	store := &memStore{state: &election.State{Epoch: 2, VoterIDs: []int32{1, 2, 3}}}
	view := partition.NewStaticView(vs, 0, 1)
	m, err := NewManager(identity(1, vs), store, view, types.OffsetAndEpoch{Epoch: 5}, 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, m.Epoch())
	assert.True(t, m.IsUnattachedNotVoted())
}

func TestInitRule3StoredLeaderIsSelfBecomesResigned(t *testing.T) {
	vs := voterSet(1, 2, 3)
	self := int32(1)
	store := &memStore{state: &election.State{Epoch: 4, LeaderID: &self, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.True(t, m.IsResigned())
	assert.EqualValues(t, 4, m.Epoch())
}

func TestInitRule4StoredVoteIsSelfBecomesCandidate(t *testing.T) {
	vs := voterSet(1, 2, 3)
	selfKey := key(1)
	store := &memStore{state: &election.State{Epoch: 3, VotedKey: &selfKey, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.True(t, m.IsCandidate())
	assert.EqualValues(t, 3, m.Epoch())
}

func TestInitRule4RequiresFullKeyNotJustID(t *testing.T) {
	vs := voterSet(1, 2, 3)
	priorIncarnation := types.ReplicaKey{ID: 1, DirectoryID: uuid.New()}
	store := &memStore{state: &election.State{Epoch: 3, VotedKey: &priorIncarnation, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.False(t, m.IsCandidate())
	assert.True(t, m.IsUnattachedAndVoted())
}

func TestInitRule5StoredVoteForOtherBecomesUnattachedVoted(t *testing.T) {
	vs := voterSet(1, 2, 3)
	otherKey := key(2)
	store := &memStore{state: &election.State{Epoch: 3, VotedKey: &otherKey, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.True(t, m.IsUnattachedAndVoted())
}

func TestInitRule6StoredLeaderReachableBecomesFollower(t *testing.T) {
	vs := voterSet(1, 2, 3)
	leader := int32(2)
	store := &memStore{state: &election.State{Epoch: 3, LeaderID: &leader, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.True(t, m.IsFollower())
	id := m.LeaderID()
	require.NotNil(t, id)
	assert.EqualValues(t, 2, *id)
}

func TestInitRule6StoredLeaderUnreachableBecomesUnattached(t *testing.T) {
	vs := voterSet(1, 3)
	leader := int32(2)
	store := &memStore{state: &election.State{Epoch: 3, LeaderID: &leader, VoterIDs: []int32{1, 2, 3}}}
	m := newTestManager(t, 1, vs, store)
	assert.True(t, m.IsUnattached())
	assert.True(t, m.HasRemoteLeader())
	assert.True(t, m.LeaderEndpoints().Empty())
}

func TestInitRule1StoredVoteWithNoLocalIDIsIllegalState(t *testing.T) {
	vs := voterSet(1, 2, 3)
	otherKey := key(1)
	store := &memStore{state: &election.State{Epoch: 3, VotedKey: &otherKey, VoterIDs: []int32{1, 2, 3}}}
	view := partition.NewStaticView(vs, 0, 1)
	observer := types.ReplicaIdentity{DirectoryID: uuid.New()}
	_, err := NewManager(observer, store, view, types.OffsetAndEpoch{}, 0, 0, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	var illegal *IllegalStateError
	assert.ErrorAs(t, err, &illegal)
}

func TestTransitionToCandidateThenLeader(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)

	require.NoError(t, m.TransitionToCandidate())
	assert.True(t, m.IsCandidate())
	assert.EqualValues(t, 1, m.Epoch())

	c, err := m.CandidateStateOrErr()
	require.NoError(t, err)
	assert.False(t, c.HasMajority())

	c.RecordGrant(2)
	assert.True(t, c.HasMajority())

	require.NoError(t, m.TransitionToLeader(10, nil))
	assert.True(t, m.IsLeader())
}

func TestTransitionToLeaderWithoutMajorityFails(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	require.NoError(t, m.TransitionToCandidate())
	err := m.TransitionToLeader(10, nil)
	require.Error(t, err)
	var illegal *IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
}

func TestSoleVoterHasImmediateMajority(t *testing.T) {
	vs := voterSet(1)
	m := newTestManager(t, 1, vs, nil)
	assert.True(t, m.IsOnlyVoter())
	require.NoError(t, m.TransitionToCandidate())
	c, err := m.CandidateStateOrErr()
	require.NoError(t, err)
	assert.True(t, c.HasMajority())
}

func TestTransitionToResignedThenRecoveryRederivesResigned(t *testing.T) {
	vs := voterSet(1, 2, 3)
	store := &memStore{}
	m := newTestManager(t, 1, vs, store)
	require.NoError(t, m.TransitionToCandidate())
	c, err := m.CandidateStateOrErr()
	require.NoError(t, err)
	c.RecordGrant(2)
	require.NoError(t, m.TransitionToLeader(5, nil))
	writesAfterLeader := store.writes

	require.NoError(t, m.TransitionToResigned([]int32{2}))
	assert.True(t, m.IsResigned())
	assert.Equal(t, writesAfterLeader, store.writes, "resigning must not write a durable record")

	recovered := newTestManager(t, 1, vs, store)
	assert.True(t, recovered.IsResigned())
	assert.Equal(t, m.Epoch(), recovered.Epoch())
}

func TestTransitionToFollowerRejectsEmptyEndpoints(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	err := m.TransitionToFollower(1, 2, nil)
	require.Error(t, err)
}

func TestTransitionToFollowerRejectsSelf(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	err := m.TransitionToFollower(1, 1, types.Endpoints{"CONTROLLER": {Host: "x", Port: 1}})
	require.Error(t, err)
}

func TestTransitionToFollowerSameEpochRequiresGrowth(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	small := types.Endpoints{"CONTROLLER": {Host: "a", Port: 1}}
	big := types.Endpoints{"CONTROLLER": {Host: "a", Port: 1}, "REPLICATION": {Host: "a", Port: 2}}

	require.NoError(t, m.TransitionToFollower(1, 2, small))
	err := m.TransitionToFollower(1, 2, small)
	require.Error(t, err)
	require.NoError(t, m.TransitionToFollower(1, 2, big))
}

func TestTransitionToFollowerSameEpochRejectsDifferentLeader(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	small := types.Endpoints{"CONTROLLER": {Host: "a", Port: 1}}
	bigger := types.Endpoints{"CONTROLLER": {Host: "b", Port: 1}, "REPLICATION": {Host: "b", Port: 2}}

	require.NoError(t, m.TransitionToFollower(1, 2, small))
	err := m.TransitionToFollower(1, 3, bigger)
	require.Error(t, err)

	id := m.LeaderID()
	require.NotNil(t, id)
	assert.EqualValues(t, 2, *id)
}

func TestTransitionToUnattachedRejectsStaleEpoch(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	require.NoError(t, m.TransitionToUnattached(5))
	err := m.TransitionToUnattached(5)
	require.Error(t, err)
}

func TestTransitionToUnattachedVotedRejectsSelfVote(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	err := m.TransitionToUnattachedVoted(1, key(1))
	require.Error(t, err)
}

func TestTransitionToUnattachedVotedRejectsDoubleVoteSameEpoch(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	require.NoError(t, m.TransitionToUnattachedVoted(1, key(2)))
	err := m.TransitionToUnattachedVoted(1, key(3))
	require.Error(t, err)
}

func TestCandidateGrantsOnlySelfVote(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	require.NoError(t, m.TransitionToCandidate())
	assert.True(t, m.CanGrantVote(key(1), true))
	assert.False(t, m.CanGrantVote(key(2), true))
}

func TestLeaderNeverGrantsVotes(t *testing.T) {
	vs := voterSet(1, 2, 3)
	m := newTestManager(t, 1, vs, nil)
	require.NoError(t, m.TransitionToCandidate())
	c, _ := m.CandidateStateOrErr()
	c.RecordGrant(2)
	require.NoError(t, m.TransitionToLeader(1, nil))
	assert.False(t, m.CanGrantVote(key(3), true))
}

func TestObserverCannotBecomeCandidate(t *testing.T) {
	vs := voterSet(1, 2, 3)
	view := partition.NewStaticView(vs, 0, 1)
	store := &memStore{}
	obs := types.ReplicaIdentity{DirectoryID: uuid.New()}
	m, err := NewManager(obs, store, view, types.OffsetAndEpoch{}, 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, m.IsObserver())
	err = m.TransitionToCandidate()
	require.Error(t, err)
}

func TestDurableTransitionWriteFailureDoesNotChangeActiveRole(t *testing.T) {
	vs := voterSet(1, 2, 3)
	store := &memStore{}
	m := newTestManager(t, 1, vs, store)
	store.failNext = true
	err := m.TransitionToUnattached(1)
	require.Error(t, err)
	assert.EqualValues(t, 0, m.Epoch())
}

func TestRandomElectionTimeoutZeroBaseIsZero(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	assert.Equal(t, int64(0), int64(RandomElectionTimeout(0, rnd)))
}

func TestRandomElectionTimeoutRangeIsBaseToTwiceBase(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := int64(1000)
	for i := 0; i < 100; i++ {
		v := int64(RandomElectionTimeout(1000, rnd))
		assert.GreaterOrEqual(t, v, base)
		assert.Less(t, v, 2*base)
	}
}

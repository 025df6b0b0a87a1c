package quorum

import (
	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// BatchAccumulator is the record-batching collaborator a Leader holds
// open for as long as it remains leader. Its batching and flush
// mechanics belong to the log-replication layer; the quorum state
// manager only knows to close it on the way out of Leader.
type BatchAccumulator interface {
	Close() error
}

// LeaderState is the role entered when a Candidate wins a majority of
// votes in its epoch. It does not inherit a high watermark from any
// prior role: a new leader has not yet confirmed any position in its
// own epoch is replicated to a majority.
type LeaderState struct {
	epoch            uint32
	selfKey          types.ReplicaKey
	epochStartOffset int64
	voterSet         types.VoterSet
	voterSetOffset   int64
	kraftVersion     int16
	grantingVoters   []int32
	accumulator      BatchAccumulator
	localListeners   types.Endpoints
	highWatermark    *types.LogOffsetMetadata
}

// NewLeaderState builds a LeaderState for a candidate that has just
// won its election.
func NewLeaderState(epoch uint32, selfKey types.ReplicaKey, epochStartOffset int64, voterSet types.VoterSet, voterSetOffset int64, kraftVersion int16, grantingVoters []int32, accumulator BatchAccumulator, localListeners types.Endpoints) *LeaderState {
	return &LeaderState{
		epoch:            epoch,
		selfKey:          selfKey,
		epochStartOffset: epochStartOffset,
		voterSet:         voterSet,
		voterSetOffset:   voterSetOffset,
		kraftVersion:     kraftVersion,
		grantingVoters:   grantingVoters,
		accumulator:      accumulator,
		localListeners:   localListeners,
	}
}

func (s *LeaderState) Name() string { return "Leader" }

func (s *LeaderState) Epoch() uint32 { return s.epoch }

func (s *LeaderState) Election() election.State {
	id := s.selfKey.ID
	return election.State{
		Epoch:    s.epoch,
		LeaderID: &id,
		VoterIDs: s.voterSet.IDs(),
	}
}

func (s *LeaderState) LeaderEndpoints() types.Endpoints { return s.localListeners }

func (s *LeaderState) HighWatermark() *types.LogOffsetMetadata { return s.highWatermark }

// CanGrantVote is always false: a leader never grants a vote to anyone
// in its own epoch.
func (s *LeaderState) CanGrantVote(types.ReplicaKey, bool) bool { return false }

func (s *LeaderState) Close() error {
	if s.accumulator == nil {
		return nil
	}
	return s.accumulator.Close()
}

// SelfKey returns the leader's own replica key.
func (s *LeaderState) SelfKey() types.ReplicaKey { return s.selfKey }

// EpochStartOffset returns the log offset of this epoch's leader-change
// control record, the earliest offset that can ever be committed in
// this epoch.
func (s *LeaderState) EpochStartOffset() int64 { return s.epochStartOffset }

// VoterSet returns the voter set this leader was elected under.
func (s *LeaderState) VoterSet() types.VoterSet { return s.voterSet }

// VoterSetOffset returns the offset of the control record that
// established VoterSet.
func (s *LeaderState) VoterSetOffset() int64 { return s.voterSetOffset }

// KraftVersion returns the protocol version active when this leader
// was elected.
func (s *LeaderState) KraftVersion() int16 { return s.kraftVersion }

// GrantingVoters returns the ids of the voters whose votes elected
// this leader.
func (s *LeaderState) GrantingVoters() []int32 { return s.grantingVoters }

// LocalListeners returns the leader's own advertised endpoints.
func (s *LeaderState) LocalListeners() types.Endpoints { return s.localListeners }

// AdvanceHighWatermark records a new high watermark once the caller
// has independently determined it is backed by a majority of voters
// and falls at or after this epoch's start offset. It reports whether
// the watermark advanced.
func (s *LeaderState) AdvanceHighWatermark(offset int64) bool {
	if offset < s.epochStartOffset {
		return false
	}
	if s.highWatermark != nil && offset <= s.highWatermark.Offset {
		return false
	}
	s.highWatermark = &types.LogOffsetMetadata{Offset: offset}
	return true
}

package quorum

import (
	"time"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// UnattachedState is the role entered whenever a replica knows an epoch
// but has not yet attached to a leader in it. It may additionally carry
// a vote cast for a candidate in the same epoch (the Voted sub-state),
// or a leader id learned without endpoints to reach it.
type UnattachedState struct {
	epoch           uint32
	leaderID        *int32
	votedKey        *types.ReplicaKey
	voterIDs        []int32
	highWatermark   *types.LogOffsetMetadata
	electionTimeout time.Duration
}

// NewUnattachedState builds an UnattachedState. leaderID and votedKey
// are mutually exclusive; at most one may be non-nil.
func NewUnattachedState(epoch uint32, leaderID *int32, votedKey *types.ReplicaKey, voterIDs []int32, hwm *types.LogOffsetMetadata, electionTimeout time.Duration) *UnattachedState {
	return &UnattachedState{
		epoch:           epoch,
		leaderID:        leaderID,
		votedKey:        votedKey,
		voterIDs:        voterIDs,
		highWatermark:   hwm,
		electionTimeout: electionTimeout,
	}
}

func (s *UnattachedState) Name() string { return "Unattached" }

func (s *UnattachedState) Epoch() uint32 { return s.epoch }

func (s *UnattachedState) Election() election.State {
	return election.State{
		Epoch:    s.epoch,
		LeaderID: s.leaderID,
		VotedKey: s.votedKey,
		VoterIDs: s.voterIDs,
	}
}

func (s *UnattachedState) LeaderEndpoints() types.Endpoints { return nil }

func (s *UnattachedState) HighWatermark() *types.LogOffsetMetadata { return s.highWatermark }

// CanGrantVote grants a fresh vote when none has been cast yet, and
// idempotently re-grants the same vote if asked again for the replica
// already voted for in this epoch.
func (s *UnattachedState) CanGrantVote(candidateKey types.ReplicaKey, logIsUpToDate bool) bool {
	if !logIsUpToDate {
		return false
	}
	if s.votedKey == nil {
		return true
	}
	return s.votedKey.Equal(candidateKey)
}

func (s *UnattachedState) Close() error { return nil }

// HasVoted reports whether this Unattached state carries a vote.
func (s *UnattachedState) HasVoted() bool { return s.votedKey != nil }

// LeaderID returns the leader id this state learned without endpoints,
// or nil.
func (s *UnattachedState) LeaderID() *int32 { return s.leaderID }

// VotedKey returns the candidate voted for, or nil.
func (s *UnattachedState) VotedKey() *types.ReplicaKey { return s.votedKey }

// ElectionTimeout returns the randomized timeout carried by this state.
func (s *UnattachedState) ElectionTimeout() time.Duration { return s.electionTimeout }

package quorum

import (
	"time"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// FollowerState is the role entered when a replica learns of a leader
// it can reach, either directly or via the initialization rule that
// re-derives Follower from a stored leader record plus a current
// endpoint lookup.
type FollowerState struct {
	epoch           uint32
	leaderID        int32
	leaderEndpoints types.Endpoints
	voterIDs        []int32
	highWatermark   *types.LogOffsetMetadata
	fetchTimeout    time.Duration
}

// NewFollowerState builds a FollowerState. endpoints must not be empty;
// the manager enforces that before constructing one.
func NewFollowerState(epoch uint32, leaderID int32, endpoints types.Endpoints, voterIDs []int32, hwm *types.LogOffsetMetadata, fetchTimeout time.Duration) *FollowerState {
	return &FollowerState{
		epoch:           epoch,
		leaderID:        leaderID,
		leaderEndpoints: endpoints,
		voterIDs:        voterIDs,
		highWatermark:   hwm,
		fetchTimeout:    fetchTimeout,
	}
}

func (s *FollowerState) Name() string { return "Follower" }

func (s *FollowerState) Epoch() uint32 { return s.epoch }

func (s *FollowerState) Election() election.State {
	id := s.leaderID
	return election.State{
		Epoch:    s.epoch,
		LeaderID: &id,
		VoterIDs: s.voterIDs,
	}
}

func (s *FollowerState) LeaderEndpoints() types.Endpoints { return s.leaderEndpoints }

func (s *FollowerState) HighWatermark() *types.LogOffsetMetadata { return s.highWatermark }

// CanGrantVote is always false: a follower has already committed to a
// leader this epoch and will not vote for a competing candidate.
func (s *FollowerState) CanGrantVote(types.ReplicaKey, bool) bool { return false }

func (s *FollowerState) Close() error { return nil }

// LeaderID returns the id of the leader this state follows.
func (s *FollowerState) LeaderID() int32 { return s.leaderID }

// FetchTimeout returns the timeout this state uses for fetch requests
// to its leader.
func (s *FollowerState) FetchTimeout() time.Duration { return s.fetchTimeout }

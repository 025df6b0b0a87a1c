package quorum

import (
	"time"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// ResignedState is the role a Leader enters when it steps down
// voluntarily without a new leader yet known, typically to hand
// leadership to a preferred successor. It is a soft, in-memory-only
// role: the manager never writes a durable record for it, relying
// instead on the durable epoch bump already on disk from when this
// replica was Leader, reconciled at restart by the initialization
// rule that re-derives Resigned from a stored leader-is-us record.
type ResignedState struct {
	epoch               uint32
	selfID              int32
	voterIDs            []int32
	preferredSuccessors []int32
	localListeners      types.Endpoints
	electionTimeout     time.Duration
}

// NewResignedState builds a ResignedState for a leader stepping down.
func NewResignedState(epoch uint32, selfID int32, voterIDs []int32, preferredSuccessors []int32, localListeners types.Endpoints, electionTimeout time.Duration) *ResignedState {
	return &ResignedState{
		epoch:               epoch,
		selfID:              selfID,
		voterIDs:            voterIDs,
		preferredSuccessors: preferredSuccessors,
		localListeners:      localListeners,
		electionTimeout:     electionTimeout,
	}
}

func (s *ResignedState) Name() string { return "Resigned" }

func (s *ResignedState) Epoch() uint32 { return s.epoch }

// Election mirrors the record already on disk from when this replica
// was Leader; the manager never actually writes it, since Resigned is
// a soft transition.
func (s *ResignedState) Election() election.State {
	id := s.selfID
	return election.State{
		Epoch:    s.epoch,
		LeaderID: &id,
		VoterIDs: s.voterIDs,
	}
}

func (s *ResignedState) LeaderEndpoints() types.Endpoints { return s.localListeners }

func (s *ResignedState) HighWatermark() *types.LogOffsetMetadata { return nil }

// CanGrantVote is always false: a resigned leader must not hand its
// vote to anyone else in the epoch it just led.
func (s *ResignedState) CanGrantVote(types.ReplicaKey, bool) bool { return false }

func (s *ResignedState) Close() error { return nil }

// SelfID returns this replica's own id.
func (s *ResignedState) SelfID() int32 { return s.selfID }

// PreferredSuccessors returns the ids this leader would prefer to see
// elected next, in preference order.
func (s *ResignedState) PreferredSuccessors() []int32 { return s.preferredSuccessors }

// ElectionTimeout returns the randomized timeout carried by this state.
func (s *ResignedState) ElectionTimeout() time.Duration { return s.electionTimeout }

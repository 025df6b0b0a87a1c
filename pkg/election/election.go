package election

import (
	"fmt"

	"github.com/cuemby/quorumstate/pkg/types"
)

// State is the durable election record for one replica: the current
// epoch, at most one of a leader or a vote, and a diagnostic snapshot of
// the voter ids in effect when the record was written.
type State struct {
	Epoch     uint32
	LeaderID  *int32
	VotedKey  *types.ReplicaKey
	VoterIDs  []int32
}

// Unknown is the record synthesized when the store has nothing for this
// replica yet: epoch zero, no leader, no vote, the current voter ids.
func Unknown(voterIDs []int32) State {
	return State{Epoch: 0, VoterIDs: voterIDs}
}

// Validate enforces the one invariant the record itself can check:
// LeaderID and VotedKey are mutually exclusive within an epoch. A record
// violating this could only arise from a corrupted store or a bug in
// the manager that produced it.
func (s State) Validate() error {
	if s.LeaderID != nil && s.VotedKey != nil {
		return fmt.Errorf("election: record for epoch %d carries both a leader (%d) and a vote (%s)", s.Epoch, *s.LeaderID, s.VotedKey)
	}
	return nil
}

// HasLeader reports whether the record names a leader.
func (s State) HasLeader() bool {
	return s.LeaderID != nil
}

// HasVoted reports whether the record names a vote.
func (s State) HasVoted() bool {
	return s.VotedKey != nil
}

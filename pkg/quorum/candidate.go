package quorum

import (
	"time"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// CandidateState is the role entered when a voter bumps the epoch and
// votes for itself in an attempt to become leader. It tracks which
// voters have granted it a vote in this epoch; the manager consults
// HasMajority before allowing TransitionToLeader.
type CandidateState struct {
	epoch           uint32
	selfKey         types.ReplicaKey
	voterSet        types.VoterSet
	retries         int
	grantingVoters  map[int32]bool
	electionTimeout time.Duration
	highWatermark   *types.LogOffsetMetadata
}

// NewCandidateState builds a CandidateState that already carries its
// own self-vote, matching the rule that a candidate always votes for
// itself the moment it becomes one.
func NewCandidateState(epoch uint32, selfKey types.ReplicaKey, voterSet types.VoterSet, retries int, electionTimeout time.Duration, hwm *types.LogOffsetMetadata) *CandidateState {
	granting := map[int32]bool{selfKey.ID: true}
	return &CandidateState{
		epoch:           epoch,
		selfKey:         selfKey,
		voterSet:        voterSet,
		retries:         retries,
		grantingVoters:  granting,
		electionTimeout: electionTimeout,
		highWatermark:   hwm,
	}
}

func (s *CandidateState) Name() string { return "Candidate" }

func (s *CandidateState) Epoch() uint32 { return s.epoch }

func (s *CandidateState) Election() election.State {
	key := s.selfKey
	return election.State{
		Epoch:    s.epoch,
		VotedKey: &key,
		VoterIDs: s.voterSet.IDs(),
	}
}

func (s *CandidateState) LeaderEndpoints() types.Endpoints { return nil }

func (s *CandidateState) HighWatermark() *types.LogOffsetMetadata { return s.highWatermark }

// CanGrantVote reports true only for the candidate's own self-vote;
// a candidate never grants its vote to any other replica.
func (s *CandidateState) CanGrantVote(candidateKey types.ReplicaKey, logIsUpToDate bool) bool {
	return logIsUpToDate && candidateKey.Equal(s.selfKey)
}

func (s *CandidateState) Close() error { return nil }

// SelfKey returns the candidate's own replica key.
func (s *CandidateState) SelfKey() types.ReplicaKey { return s.selfKey }

// VoterSet returns the voter set this candidacy is running against.
func (s *CandidateState) VoterSet() types.VoterSet { return s.voterSet }

// Retries returns how many consecutive epochs, including this one,
// this replica has been a candidate without becoming leader.
func (s *CandidateState) Retries() int { return s.retries }

// ElectionTimeout returns the randomized timeout carried by this state.
func (s *CandidateState) ElectionTimeout() time.Duration { return s.electionTimeout }

// RecordGrant records a vote granted to this candidacy by voterID.
// Grants from non-voters are ignored.
func (s *CandidateState) RecordGrant(voterID int32) {
	if !s.voterSet.ContainsID(voterID) {
		return
	}
	s.grantingVoters[voterID] = true
}

// GrantingVoters returns the ids of every voter that has granted this
// candidacy a vote so far, including the candidate's own id.
func (s *CandidateState) GrantingVoters() []int32 {
	ids := make([]int32, 0, len(s.grantingVoters))
	for id := range s.grantingVoters {
		ids = append(ids, id)
	}
	return ids
}

// HasMajority reports whether enough voters have granted this
// candidacy a vote to win the election.
func (s *CandidateState) HasMajority() bool {
	if s.voterSet.IsOnlyVoter(s.selfKey) {
		return true
	}
	return len(s.grantingVoters)*2 > s.voterSet.Size()
}

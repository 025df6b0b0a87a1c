package quorum

import "github.com/cuemby/quorumstate/pkg/types"

// Epoch returns the epoch of the currently active role.
func (m *Manager) Epoch() uint32 { return m.activeState().Epoch() }

// HighWatermark returns the high watermark known to the currently
// active role, or nil if none is known.
func (m *Manager) HighWatermark() *types.LogOffsetMetadata { return m.activeState().HighWatermark() }

// LeaderAndEpoch returns the currently known leader id, if any, and
// the current epoch, in one consistent read of the active role.
func (m *Manager) LeaderAndEpoch() (*int32, uint32) {
	cur := m.activeState()
	return leaderIDOf(cur), cur.Epoch()
}

// LeaderID returns the currently known leader id, or nil if no leader
// is known from the active role.
func (m *Manager) LeaderID() *int32 { return leaderIDOf(m.activeState()) }

func leaderIDOf(s RoleState) *int32 {
	switch r := s.(type) {
	case *LeaderState:
		id := r.selfKey.ID
		return &id
	case *FollowerState:
		id := r.leaderID
		return &id
	case *UnattachedState:
		return r.leaderID
	case *ResignedState:
		id := r.selfID
		return &id
	default:
		return nil
	}
}

// LeaderEndpoints returns the advertised endpoints for the currently
// known leader, or an empty Endpoints if none is known.
func (m *Manager) LeaderEndpoints() types.Endpoints { return m.activeState().LeaderEndpoints() }

// CanGrantVote reports whether the currently active role would grant
// its vote to candidateKey.
func (m *Manager) CanGrantVote(candidateKey types.ReplicaKey, logIsUpToDate bool) bool {
	return m.activeState().CanGrantVote(candidateKey, logIsUpToDate)
}

// HasLeader reports whether a leader is known from the active role.
func (m *Manager) HasLeader() bool { return m.LeaderID() != nil }

// HasRemoteLeader reports whether a leader other than this replica is
// known from the active role.
func (m *Manager) HasRemoteLeader() bool {
	id := m.LeaderID()
	if id == nil {
		return false
	}
	return m.identity.ID == nil || *id != *m.identity.ID
}

// IsLeader reports whether the active role is Leader.
func (m *Manager) IsLeader() bool {
	_, ok := m.activeState().(*LeaderState)
	return ok
}

// IsCandidate reports whether the active role is Candidate.
func (m *Manager) IsCandidate() bool {
	_, ok := m.activeState().(*CandidateState)
	return ok
}

// IsFollower reports whether the active role is Follower.
func (m *Manager) IsFollower() bool {
	_, ok := m.activeState().(*FollowerState)
	return ok
}

// IsResigned reports whether the active role is Resigned.
func (m *Manager) IsResigned() bool {
	_, ok := m.activeState().(*ResignedState)
	return ok
}

// IsUnattached reports whether the active role is Unattached, voted or not.
func (m *Manager) IsUnattached() bool {
	_, ok := m.activeState().(*UnattachedState)
	return ok
}

// IsUnattachedNotVoted reports whether the active role is Unattached
// with no vote cast.
func (m *Manager) IsUnattachedNotVoted() bool {
	u, ok := m.activeState().(*UnattachedState)
	return ok && !u.HasVoted()
}

// IsUnattachedAndVoted reports whether the active role is Unattached
// carrying a vote.
func (m *Manager) IsUnattachedAndVoted() bool {
	u, ok := m.activeState().(*UnattachedState)
	return ok && u.HasVoted()
}

// IsVoter reports whether this replica is a member of the current
// voter set under its current directory-id.
func (m *Manager) IsVoter() bool { return m.isVoter() }

// IsObserver reports the complement of IsVoter.
func (m *Manager) IsObserver() bool { return m.isObserver() }

// IsOnlyVoter reports whether this replica is the sole member of the
// current voter set.
func (m *Manager) IsOnlyVoter() bool {
	if m.identity.ID == nil {
		return false
	}
	return m.view.LastVoterSet().IsOnlyVoter(m.identity.Key())
}

// LeaderStateOrErr returns the active role as a *LeaderState, or an
// IllegalStateError if the active role is not Leader.
func (m *Manager) LeaderStateOrErr() (*LeaderState, error) {
	l, ok := m.activeState().(*LeaderState)
	if !ok {
		return nil, illegalStatef("quorum: active role is %s, not Leader", m.activeState().Name())
	}
	return l, nil
}

// MaybeLeaderState returns the active role as a *LeaderState and true,
// or (nil, false) if the active role is not Leader.
func (m *Manager) MaybeLeaderState() (*LeaderState, bool) {
	l, ok := m.activeState().(*LeaderState)
	return l, ok
}

// CandidateStateOrErr returns the active role as a *CandidateState, or
// an IllegalStateError if the active role is not Candidate.
func (m *Manager) CandidateStateOrErr() (*CandidateState, error) {
	c, ok := m.activeState().(*CandidateState)
	if !ok {
		return nil, illegalStatef("quorum: active role is %s, not Candidate", m.activeState().Name())
	}
	return c, nil
}

// MaybeCandidateState returns the active role as a *CandidateState and
// true, or (nil, false) if the active role is not Candidate.
func (m *Manager) MaybeCandidateState() (*CandidateState, bool) {
	c, ok := m.activeState().(*CandidateState)
	return c, ok
}

// FollowerStateOrErr returns the active role as a *FollowerState, or an
// IllegalStateError if the active role is not Follower.
func (m *Manager) FollowerStateOrErr() (*FollowerState, error) {
	f, ok := m.activeState().(*FollowerState)
	if !ok {
		return nil, illegalStatef("quorum: active role is %s, not Follower", m.activeState().Name())
	}
	return f, nil
}

// MaybeFollowerState returns the active role as a *FollowerState and
// true, or (nil, false) if the active role is not Follower.
func (m *Manager) MaybeFollowerState() (*FollowerState, bool) {
	f, ok := m.activeState().(*FollowerState)
	return f, ok
}

// UnattachedStateOrErr returns the active role as an *UnattachedState,
// or an IllegalStateError if the active role is not Unattached.
func (m *Manager) UnattachedStateOrErr() (*UnattachedState, error) {
	u, ok := m.activeState().(*UnattachedState)
	if !ok {
		return nil, illegalStatef("quorum: active role is %s, not Unattached", m.activeState().Name())
	}
	return u, nil
}

// MaybeUnattachedState returns the active role as an *UnattachedState
// and true, or (nil, false) if the active role is not Unattached.
func (m *Manager) MaybeUnattachedState() (*UnattachedState, bool) {
	u, ok := m.activeState().(*UnattachedState)
	return u, ok
}

// ResignedStateOrErr returns the active role as a *ResignedState, or an
// IllegalStateError if the active role is not Resigned.
func (m *Manager) ResignedStateOrErr() (*ResignedState, error) {
	r, ok := m.activeState().(*ResignedState)
	if !ok {
		return nil, illegalStatef("quorum: active role is %s, not Resigned", m.activeState().Name())
	}
	return r, nil
}

// MaybeResignedState returns the active role as a *ResignedState and
// true, or (nil, false) if the active role is not Resigned.
func (m *Manager) MaybeResignedState() (*ResignedState, bool) {
	r, ok := m.activeState().(*ResignedState)
	return r, ok
}

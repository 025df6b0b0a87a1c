package quorum

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/log"
	"github.com/cuemby/quorumstate/pkg/metrics"
	"github.com/cuemby/quorumstate/pkg/partition"
	"github.com/cuemby/quorumstate/pkg/types"
	"github.com/rs/zerolog"
)

// Manager owns a single replica's role in its current epoch. It is the
// only place a role transition may happen, and it is responsible for
// durably persisting every transition except Resigned before the new
// role becomes visible to readers.
//
// A Manager is driven by a single caller goroutine; its read accessors
// are safe to call concurrently from other goroutines because the
// active role is published through an atomic.Pointer.
type Manager struct {
	identity types.ReplicaIdentity
	store    election.Store
	view     partition.View

	baseElectionTimeout time.Duration
	fetchTimeout        time.Duration
	rnd                 *rand.Rand

	logger zerolog.Logger

	active atomic.Pointer[RoleState]
}

// NewManager constructs a Manager and runs the initialization
// reconciliation rules (the recovery init rules) against the stored
// election record, the partition's current voter set, and the local
// log's end-of-log position, then durably installs the resulting role.
func NewManager(identity types.ReplicaIdentity, store election.Store, view partition.View, logEndOffsetAndEpoch types.OffsetAndEpoch, baseElectionTimeout, fetchTimeout time.Duration, rnd *rand.Rand) (*Manager, error) {
	m := &Manager{
		identity:            identity,
		store:               store,
		view:                view,
		baseElectionTimeout: baseElectionTimeout,
		fetchTimeout:        fetchTimeout,
		rnd:                 rnd,
		logger:              log.WithComponent("quorum"),
	}

	initial, err := m.initialRole(logEndOffsetAndEpoch)
	if err != nil {
		return nil, err
	}
	if err := m.durableTransition(initial); err != nil {
		return nil, fmt.Errorf("quorum: failed to install initial role: %w", err)
	}
	return m, nil
}

// initialRole applies the recovery init rules in order and returns the
// role the replica should start in.
func (m *Manager) initialRole(logEndOffsetAndEpoch types.OffsetAndEpoch) (RoleState, error) {
	stored, err := m.store.Read()
	if err != nil {
		return nil, fmt.Errorf("quorum: failed to read election store: %w", err)
	}
	voterIDs := m.view.LastVoterSet().IDs()
	if stored == nil {
		unknown := election.Unknown(voterIDs)
		stored = &unknown
	}
	if err := stored.Validate(); err != nil {
		return nil, illegalStatef("quorum: stored election record is invalid: %v", err)
	}

	// Rule 1: a stored vote with no local id is unreachable state.
	if stored.HasVoted() && m.identity.ID == nil {
		return nil, illegalStatef("quorum: stored record for epoch %d carries a vote but this replica has no local id", stored.Epoch)
	}

	// Rule 2: the log has moved past the stored epoch. Trust the log.
	if stored.Epoch < logEndOffsetAndEpoch.Epoch {
		m.logger.Warn().
			Uint32("stored_epoch", stored.Epoch).
			Uint32("log_epoch", logEndOffsetAndEpoch.Epoch).
			Msg("local log end-of-log epoch exceeds the stored election epoch, advancing to it")
		return NewUnattachedState(logEndOffsetAndEpoch.Epoch, nil, nil, voterIDs, nil, m.randomElectionTimeout()), nil
	}

	// Rule 3: the stored leader is us -> we must have resigned.
	if stored.HasLeader() && m.identity.ID != nil && *stored.LeaderID == *m.identity.ID {
		return NewResignedState(stored.Epoch, *m.identity.ID, stored.VoterIDs, nil, m.identity.Listeners, m.randomElectionTimeout()), nil
	}

	// Rule 4: the stored vote is us -> we must have been a candidate. The
	// match must be on the full replica key, not just the id: a vote
	// cast by a prior incarnation of this id (a different directory-id,
	// from before a reformat) is a vote for a different replica.
	if stored.HasVoted() && m.identity.ID != nil && stored.VotedKey.Equal(m.identity.Key()) {
		return NewCandidateState(stored.Epoch, m.identity.Key(), m.view.LastVoterSet(), 1, m.randomElectionTimeout(), nil), nil
	}

	// Rule 5: the stored vote is for someone else -> Unattached, voted.
	if stored.HasVoted() {
		return NewUnattachedState(stored.Epoch, nil, stored.VotedKey, stored.VoterIDs, nil, m.randomElectionTimeout()), nil
	}

	// Rule 6: a stored leader other than us -> Follower if reachable,
	// else Unattached carrying the bare leader id.
	if stored.HasLeader() {
		endpoints := m.view.LastVoterSet().EndpointsForID(*stored.LeaderID)
		if endpoints.Empty() {
			return NewUnattachedState(stored.Epoch, stored.LeaderID, nil, stored.VoterIDs, nil, m.randomElectionTimeout()), nil
		}
		return NewFollowerState(stored.Epoch, *stored.LeaderID, endpoints, stored.VoterIDs, nil, m.fetchTimeout), nil
	}

	// Rule 7: nothing stored to reconcile against -> bare Unattached.
	return NewUnattachedState(stored.Epoch, nil, nil, voterIDs, nil, m.randomElectionTimeout()), nil
}

// activeState returns the currently active role.
func (m *Manager) activeState() RoleState {
	p := m.active.Load()
	if p == nil {
		panic("quorum: active role read before initialization")
	}
	return *p
}

// isVoter reports whether this replica is a member of the current
// voter set under its current directory-id.
func (m *Manager) isVoter() bool {
	if m.identity.ID == nil {
		return false
	}
	return m.view.LastVoterSet().Contains(m.identity.Key())
}

func (m *Manager) isObserver() bool { return !m.isVoter() }

func (m *Manager) randomElectionTimeout() time.Duration {
	if m.isObserver() {
		return infiniteTimeout
	}
	return RandomElectionTimeout(m.baseElectionTimeout, m.rnd)
}

// TransitionToUnattached moves to Unattached at newEpoch, which must
// exceed the current epoch. The outgoing state's high watermark is
// carried forward; the election timeout is inherited unchanged from an
// outgoing Unattached or Candidate state rather than redrawn, so a
// same-replica epoch bump does not reset the countdown.
func (m *Manager) TransitionToUnattached(newEpoch uint32) error {
	cur := m.activeState()
	if newEpoch <= cur.Epoch() {
		return m.rejectf("Unattached", "epoch %d does not exceed current epoch %d", newEpoch, cur.Epoch())
	}

	timeout := m.randomElectionTimeout()
	switch s := cur.(type) {
	case *UnattachedState:
		timeout = s.electionTimeout
	case *CandidateState:
		timeout = s.electionTimeout
	}

	next := NewUnattachedState(newEpoch, nil, nil, m.view.LastVoterSet().IDs(), cur.HighWatermark(), timeout)
	return m.durableTransition(next)
}

// TransitionToUnattachedVoted moves to Unattached carrying a vote for
// candidateKey at epoch. A voter may cast at most one vote per epoch;
// retrying the exact same vote is rejected here because it is already
// satisfied, not because it would change anything.
func (m *Manager) TransitionToUnattachedVoted(epoch uint32, candidateKey types.ReplicaKey) error {
	if m.identity.ID == nil {
		return m.rejectf("Unattached(voted)", "observer cannot cast a vote")
	}
	if candidateKey.ID == *m.identity.ID {
		return m.rejectf("Unattached(voted)", "cannot vote for self via TransitionToUnattachedVoted")
	}
	cur := m.activeState()
	if epoch < cur.Epoch() {
		return m.rejectf("Unattached(voted)", "epoch %d is behind current epoch %d", epoch, cur.Epoch())
	}
	if epoch == cur.Epoch() {
		u, ok := cur.(*UnattachedState)
		if !ok || u.HasVoted() {
			return m.rejectf("Unattached(voted)", "replica has already committed to a role in epoch %d", epoch)
		}
	}

	next := NewUnattachedState(epoch, nil, &candidateKey, m.view.LastVoterSet().IDs(), cur.HighWatermark(), m.randomElectionTimeout())
	return m.durableTransition(next)
}

// TransitionToFollower moves to Follower of leaderID at epoch, reached
// over endpoints. Within a fixed epoch the leader id can never change:
// a same-epoch replacement Follower is only accepted for the same
// leaderID, and only if its endpoint set strictly grows, reflecting a
// more complete announcement of the same leader.
func (m *Manager) TransitionToFollower(epoch uint32, leaderID int32, endpoints types.Endpoints) error {
	if endpoints.Empty() {
		return m.rejectf("Follower", "no endpoints for leader %d", leaderID)
	}
	if m.identity.ID != nil && leaderID == *m.identity.ID {
		return m.rejectf("Follower", "cannot follow self")
	}
	cur := m.activeState()
	if epoch < cur.Epoch() {
		return m.rejectf("Follower", "epoch %d is behind current epoch %d", epoch, cur.Epoch())
	}
	if epoch == cur.Epoch() {
		switch s := cur.(type) {
		case *LeaderState:
			return m.rejectf("Follower", "cannot demote a leader in its own epoch")
		case *FollowerState:
			if s.leaderID != leaderID {
				return m.rejectf("Follower", "epoch %d already has leader %d, cannot switch to leader %d", epoch, s.leaderID, leaderID)
			}
			if endpoints.Size() <= s.leaderEndpoints.Size() {
				return m.rejectf("Follower", "replacement endpoint set for epoch %d does not grow", epoch)
			}
		}
	}

	next := NewFollowerState(epoch, leaderID, endpoints, m.view.LastVoterSet().IDs(), cur.HighWatermark(), m.fetchTimeout)
	return m.durableTransition(next)
}

// TransitionToCandidate bumps the epoch and becomes a self-voted
// Candidate. Only a voter may run for election, and a sitting Leader
// must resign before it can become a Candidate again.
func (m *Manager) TransitionToCandidate() error {
	if m.identity.ID == nil {
		return m.rejectf("Candidate", "observer cannot become a candidate")
	}
	if !m.isVoter() {
		return m.rejectf("Candidate", "replica is not a member of the current voter set")
	}
	cur := m.activeState()
	if _, ok := cur.(*LeaderState); ok {
		return m.rejectf("Candidate", "a sitting leader must resign before running again")
	}

	retries := 1
	if c, ok := cur.(*CandidateState); ok {
		retries = c.retries + 1
	}
	next := NewCandidateState(cur.Epoch()+1, m.identity.Key(), m.view.LastVoterSet(), retries, m.randomElectionTimeout(), cur.HighWatermark())
	return m.durableTransition(next)
}

// TransitionToLeader promotes a Candidate that holds a majority of
// granted votes to Leader. epochStartOffset is the offset the
// leader-change control record will occupy; accumulator is the batch
// accumulator the new leader will own until it leaves office.
func (m *Manager) TransitionToLeader(epochStartOffset int64, accumulator BatchAccumulator) error {
	cur := m.activeState()
	c, ok := cur.(*CandidateState)
	if !ok {
		return m.rejectf("Leader", "only a candidate may become leader, current role is %s", cur.Name())
	}
	if !c.HasMajority() {
		return m.rejectf("Leader", "candidacy in epoch %d does not hold a majority of votes", c.epoch)
	}

	next := NewLeaderState(c.epoch, c.selfKey, epochStartOffset, m.view.LastVoterSet(), m.view.LastVoterSetOffset(), m.view.LastKraftVersion(), c.GrantingVoters(), accumulator, m.identity.Listeners)
	return m.durableTransition(next)
}

// TransitionToResigned moves a sitting Leader to Resigned, naming the
// replicas it would prefer to see elected next. Unlike every other
// transition, this one is not persisted: the durable epoch-and-leader
// record already on disk from this leadership term is sufficient to
// reconstruct Resigned on restart via the initialization rules.
func (m *Manager) TransitionToResigned(preferredSuccessors []int32) error {
	cur := m.activeState()
	l, ok := cur.(*LeaderState)
	if !ok {
		return m.rejectf("Resigned", "only a leader may resign, current role is %s", cur.Name())
	}

	next := NewResignedState(l.epoch, l.selfKey.ID, l.voterSet.IDs(), preferredSuccessors, l.localListeners, m.randomElectionTimeout())
	m.memoryTransition(next)
	return nil
}

// durableTransition persists next's election record before publishing
// it as the active role. kraftVersion is read fresh from the partition
// view at write time, not cached on the outgoing role.
func (m *Manager) durableTransition(next RoleState) error {
	timer := metrics.NewTimer()
	err := m.store.Write(next.Election(), m.view.LastKraftVersion())
	timer.ObserveDuration(metrics.StoreWriteDuration)
	if err != nil {
		metrics.StoreWriteFailuresTotal.Inc()
		return fmt.Errorf("quorum: failed to durably persist %s state for epoch %d: %w", next.Name(), next.Epoch(), err)
	}
	m.memoryTransition(next)
	return nil
}

// memoryTransition publishes next as the active role and closes the
// outgoing one. A Close failure on the outgoing role is a fatal,
// unchecked condition: the replica can no longer account for the
// resources the old role held, so it must not continue operating.
func (m *Manager) memoryTransition(next RoleState) {
	old := m.active.Swap(&next)

	fromRole := "none"
	if old != nil {
		prev := *old
		fromRole = prev.Name()
		if err := prev.Close(); err != nil {
			panic(fmt.Sprintf("quorum: fatal: failed to close %s state for epoch %d: %v", prev.Name(), prev.Epoch(), err))
		}
	}

	metrics.TransitionsTotal.WithLabelValues(fromRole, next.Name()).Inc()
	metrics.CurrentEpoch.Set(float64(next.Epoch()))
	metrics.SetCurrentRole(strings.ToLower(next.Name()))

	m.logger.Info().
		Str("from_role", fromRole).
		Str("to_role", next.Name()).
		Uint32("epoch", next.Epoch()).
		Msg("role transition")
}

func (m *Manager) rejectf(toRole, format string, args ...interface{}) error {
	metrics.TransitionsRejectedTotal.WithLabelValues(toRole).Inc()
	return illegalTransitionf("quorum: cannot transition to %s: %s", toRole, fmt.Sprintf(format, args...))
}

// Close releases the active role and the backing election store.
func (m *Manager) Close() error {
	if err := m.activeState().Close(); err != nil {
		return fmt.Errorf("quorum: failed to close active role: %w", err)
	}
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

package quorum

import (
	"github.com/cuemby/quorumstate/pkg/election"
	"github.com/cuemby/quorumstate/pkg/types"
)

// RoleState is the contract every role variant exposes to the Manager.
// Each role owns its local bookkeeping (timers, vote tallies, follower
// progress) privately; the manager only ever reaches into a role
// through this interface.
type RoleState interface {
	// Name is the role's tag, used in logs, metrics, and errors.
	Name() string

	// Epoch is the election epoch this role state was entered in.
	Epoch() uint32

	// Election returns the durable record this role wants persisted.
	Election() election.State

	// LeaderEndpoints returns the known leader's advertised endpoints,
	// or an empty Endpoints if no leader is known from this role.
	LeaderEndpoints() types.Endpoints

	// HighWatermark returns the last high watermark this role inherited
	// or observed, or nil if none is known yet.
	HighWatermark() *types.LogOffsetMetadata

	// CanGrantVote reports whether this role would grant its vote to
	// candidateKey, given whether the candidate's log is at least as
	// up to date as the local log.
	CanGrantVote(candidateKey types.ReplicaKey, logIsUpToDate bool) bool

	// Close releases any resources the role holds (today only a Leader's
	// batch accumulator) when the manager transitions away from it.
	Close() error
}

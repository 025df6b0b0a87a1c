/*
Package quorum implements the quorum state manager: the component that
owns a replica's role in its epoch, validates every transition between
roles, and persists the election decisions a replica must never forget
across a restart.

# Roles

A replica is in exactly one of six role states at a time: Unattached
(optionally carrying a vote), Candidate, Leader, Follower, or Resigned.
Observers — replicas with no local id, or with an id not currently in
the voter set — are restricted to the Unattached/Follower subgraph; they
never become Candidate, Leader, or Resigned. A replica with no local id
also never casts a vote; TransitionToUnattachedVoted checks only for a
local id, so a replica whose id is not in the voter set can still vote.

# Durability

Every transition except entering Resigned is durable: its election
record is written to the election.Store and fsynced before the new role
becomes visible to readers. Resigned is a soft, in-memory-only
transition — crash recovery reconstructs it from the durable epoch bump
that preceded it (the replica was Leader at that epoch) together with
the initialization rule that re-derives Resigned from a stored
leader-is-us record.

# Concurrency

Manager is designed for a single caller goroutine driving every
transition (mirroring a single-threaded Raft event loop); the one
concession to concurrency is that the active role is published through
an atomic.Pointer, so a separate reporter goroutine can safely call the
read-only accessors (Epoch, LeaderAndEpoch, HighWatermark, predicates)
without additional synchronization.
*/
package quorum

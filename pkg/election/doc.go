/*
Package election defines the durable election-state record and the
store contract the quorum state manager reads at startup and writes on
every durable transition.

State is the bit we cannot afford to forget across a crash: the
current epoch, who we voted for (if anyone), who we believe the leader
is (if anyone), and a diagnostic snapshot of the voter ids at the time
of the write. Store abstracts the actual persistence mechanism; BoltStore
is the one concrete implementation shipped here, backed by a single
bbolt bucket keyed by replica id so that multiple replica identities
(rare, but useful in tests that run several replicas in one process) can
share a database file without clobbering each other.

Bit-exactness of the on-disk encoding is this package's contract, not
the quorum state manager's — callers only see the decoded State.
*/
package election

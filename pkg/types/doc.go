/*
Package types holds the data shared between the quorum state manager and
its external collaborators: replica identity, replica keys, voter sets,
advertised endpoints, and log-offset metadata.

None of these types carry behavior specific to a single role state or to
the manager itself — they are the vocabulary both sides of the
pkg/election and pkg/partition interfaces agree on.

# Replica identity and replica keys

A replica is identified by an optional numeric id (absent for
observers) plus a directory id, a UUID distinguishing one on-disk
incarnation of that id from any that preceded it after a reformat. The
pair is a ReplicaKey; two ReplicaKeys with the same ID but different
DirectoryID name different replicas for voting purposes.

# Voter sets

A VoterSet is the authoritative membership list for an epoch's quorum,
supplied externally by the partition's control-record state machine.
The quorum state manager only ever reads a VoterSet; it never mutates
one.
*/
package types

package partition

import "github.com/cuemby/quorumstate/pkg/types"

// View is the quorum state manager's window onto the partition's
// control-record state machine. It is queried, never mutated, by the
// manager: every transition consults it for the voter set and protocol
// version current at the moment of the transition.
type View interface {
	// LastVoterSet returns the most recently applied voter set.
	LastVoterSet() types.VoterSet

	// LastVoterSetOffset returns the log offset of the control record
	// that established LastVoterSet.
	LastVoterSetOffset() int64

	// LastKraftVersion returns the protocol version currently active
	// for this partition.
	LastKraftVersion() int16
}

package types

// VoterNode is one member of a VoterSet: a replica key plus the
// endpoints it advertises for the partition's internal listener.
type VoterNode struct {
	Key       ReplicaKey
	Endpoints Endpoints
}

// VoterSet is the authoritative set of replicas eligible to vote in the
// current epoch, as established by the partition's control-record state
// machine. The quorum state manager treats it as read-only.
type VoterSet struct {
	nodes map[int32]VoterNode
}

// NewVoterSet builds a VoterSet from its member nodes.
func NewVoterSet(nodes ...VoterNode) VoterSet {
	m := make(map[int32]VoterNode, len(nodes))
	for _, n := range nodes {
		m[n.Key.ID] = n
	}
	return VoterSet{nodes: m}
}

// Contains reports whether the exact replica key (id and directory-id)
// is a voter. A replica whose id is a voter under a different
// directory-id (a predecessor incarnation) is not contained.
func (vs VoterSet) Contains(key ReplicaKey) bool {
	n, ok := vs.nodes[key.ID]
	return ok && n.Key.DirectoryID == key.DirectoryID
}

// ContainsID reports voter membership by id alone, ignoring directory-id.
// Used where the caller only has a bare id to check, such as a candidate
// recording a vote grant from a voter id.
func (vs VoterSet) ContainsID(id int32) bool {
	_, ok := vs.nodes[id]
	return ok
}

// EndpointsForID returns the advertised endpoints for the voter with the
// given id, or an empty Endpoints if the id is not a current voter.
func (vs VoterSet) EndpointsForID(id int32) Endpoints {
	if n, ok := vs.nodes[id]; ok {
		return n.Endpoints
	}
	return nil
}

// Size returns the number of voters in the set.
func (vs VoterSet) Size() int {
	return len(vs.nodes)
}

// IsOnlyVoter reports whether key is a voter and the voter set has no
// other members — the condition under which a candidate may grant
// itself a majority unilaterally.
func (vs VoterSet) IsOnlyVoter(key ReplicaKey) bool {
	return vs.Size() == 1 && vs.Contains(key)
}

// IDs returns the voter ids in the set, for the diagnostic voter-ids
// snapshot cached on election.State.
func (vs VoterSet) IDs() []int32 {
	ids := make([]int32, 0, len(vs.nodes))
	for id := range vs.nodes {
		ids = append(ids, id)
	}
	return ids
}

package types

// Endpoint is one advertised network address for a listener.
type Endpoint struct {
	Host string
	Port int32
}

// Endpoints is the set of a replica's advertised listeners, keyed by
// listener name (e.g. "CONTROLLER", "INTER_BROKER"). An empty Endpoints
// means "no known address for this replica" and is treated specially by
// several transitions (§4.2 of the design: a leader with no endpoints
// cannot be followed).
type Endpoints map[string]Endpoint

// Empty reports whether the set carries no addresses at all.
func (e Endpoints) Empty() bool {
	return len(e) == 0
}

// Size returns the number of advertised listeners, used by the
// same-epoch follower-replacement check (§4.2): a replacement Follower
// state is only accepted if its endpoint set strictly grows.
func (e Endpoints) Size() int {
	return len(e)
}

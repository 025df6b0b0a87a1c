package quorum

import (
	"math"
	"math/rand"
	"time"
)

// infiniteTimeout is the election timeout given to an observer's
// Unattached states (Follower states carry the fetch timeout instead):
// observers never time out waiting for a leader, since they cannot act
// on the timeout by becoming a candidate.
const infiniteTimeout = time.Duration(math.MaxInt64)

// RandomElectionTimeout draws a timeout uniformly from [base, 2*base).
// A zero base always returns zero, a deterministic hook for tests that
// want every timeout-driven transition to fire immediately.
func RandomElectionTimeout(base time.Duration, rnd *rand.Rand) time.Duration {
	if base <= 0 {
		return 0
	}
	return base + time.Duration(rnd.Int63n(int64(base)))
}

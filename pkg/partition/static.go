package partition

import (
	"sync"

	"github.com/cuemby/quorumstate/pkg/types"
)

// StaticView is a View whose contents are set directly by the caller,
// guarded by a mutex so it can be shared between a test's setup
// goroutine and the quorum state manager under test.
type StaticView struct {
	mu           sync.RWMutex
	voterSet     types.VoterSet
	voterOffset  int64
	kraftVersion int16
}

// NewStaticView builds a StaticView with the given initial voter set.
func NewStaticView(voterSet types.VoterSet, voterOffset int64, kraftVersion int16) *StaticView {
	return &StaticView{
		voterSet:     voterSet,
		voterOffset:  voterOffset,
		kraftVersion: kraftVersion,
	}
}

// LastVoterSet implements View.
func (v *StaticView) LastVoterSet() types.VoterSet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.voterSet
}

// LastVoterSetOffset implements View.
func (v *StaticView) LastVoterSetOffset() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.voterOffset
}

// LastKraftVersion implements View.
func (v *StaticView) LastKraftVersion() int16 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.kraftVersion
}

// SetVoterSet replaces the voter set and its establishing offset,
// simulating a new control record being applied.
func (v *StaticView) SetVoterSet(voterSet types.VoterSet, offset int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.voterSet = voterSet
	v.voterOffset = offset
}

// SetKraftVersion replaces the active protocol version.
func (v *StaticView) SetKraftVersion(version int16) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.kraftVersion = version
}

package bungie

import (
	"sync"
	"time"
)

// ProfileMemo remembers the freshest profile snapshot seen, keyed by the
// server's minted timestamp, so repeated lookups never regress to an older
// response. It is optional: a nil memo disables caching entirely, which is
// how tests usually run.
type ProfileMemo struct {
	mu     sync.Mutex
	minted time.Time
	data   *ProfileResponse
}

// NewProfileMemo creates an empty memo.
func NewProfileMemo() *ProfileMemo {
	return &ProfileMemo{}
}

// Remember stores data when it is newer than the memoized snapshot and
// returns the freshest snapshot either way.
func (m *ProfileMemo) Remember(minted time.Time, data *ProfileResponse) *ProfileResponse {
	if m == nil || data == nil {
		return data
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil || minted.After(m.minted) {
		m.minted = minted
		m.data = data
	}
	return m.data
}

package rp

import "sync"

// roomLocks serializes mutations per room. Appends and edits for one room
// take its lock; different rooms never contend. Entries are tiny and rooms
// are never deleted, so the map only grows with the active room set.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for code and returns its release func.
func (r *roomLocks) lock(code string) func() {
	r.mu.Lock()
	m, ok := r.locks[code]
	if !ok {
		m = &sync.Mutex{}
		r.locks[code] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

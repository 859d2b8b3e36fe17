package service

import "sync"

// roomLocks hands out one mutex per room so reservation admission for a
// given room is serialized while unrelated rooms proceed independently.
// There is deliberately no global lock around check+insert.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

// forRoom returns the mutex for roomID, creating it on first use. Locks are
// never removed; the registry grows with the number of distinct rooms, which
// is bounded by the room directory.
func (l *roomLocks) forRoom(roomID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[roomID] = lock
	}
	return lock
}

package arena

import (
	"sync/atomic"
)

// RWLock is a spin-based reader/writer lock.
//
// As an arena guard, increments take the write side and LockedSnapshot takes
// the read side, so several observers may snapshot at once while workers
// are excluded. It never parks a goroutine: waiting spins with backoff, which
// suits critical sections of a few memory accesses.
//
// Size: 4 bytes (plus padding).
type RWLock struct {
	_     noCopy
	state atomic.Uint32
}

const (
	rwWriteMask = 1
	rwReadShift = 1
	rwReadUnit  = 1 << rwReadShift
)

// Lock acquires the write lock.
// It spins until there is no writer and no reader.
func (rw *RWLock) Lock() {
	var spins int
	for !rw.TryLock() {
		delay(&spins)
	}
}

// TryLock acquires the write lock if it is completely free.
func (rw *RWLock) TryLock() bool {
	return rw.state.Load() == 0 && rw.state.CompareAndSwap(0, rwWriteMask)
}

// Unlock releases the write lock.
func (rw *RWLock) Unlock() {
	rw.state.Store(0)
}

// RLock acquires a read lock.
// It spins while a writer holds the lock.
func (rw *RWLock) RLock() {
	var spins int
	for {
		s := rw.state.Load()
		if s&rwWriteMask == 0 && rw.state.CompareAndSwap(s, s+rwReadUnit) {
			return
		}
		delay(&spins)
	}
}

// RUnlock releases a read lock.
func (rw *RWLock) RUnlock() {
	rw.state.Add(^uint32(rwReadUnit - 1))
}

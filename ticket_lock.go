package arena

import (
	"sync/atomic"
)

// TicketLock is a fair, FIFO (First-In-First-Out) spin-lock.
//
// Unlike sync.Mutex, which lets a newcomer barge ahead of sleeping waiters,
// TicketLock hands the lock to workers in the exact order they called Lock.
// A worker applying increments in a tight loop therefore cannot starve its
// siblings, and the arena's guard acquisition order becomes deterministic
// per arrival.
//
// Waiting spins first and then backs off with short sleeps, so it is meant
// for critical sections of a few memory accesses, such as one arena pass.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock takes the next ticket and blocks until it is served.
func (m *TicketLock) Lock() {
	my := m.next.Add(1) - 1
	var spins int
	for m.serving.Load() != my {
		delay(&spins)
	}
}

// TryLock acquires the lock only if nobody holds or waits for it.
func (m *TicketLock) TryLock() bool {
	s := m.serving.Load()
	return m.next.CompareAndSwap(s, s+1)
}

// Unlock serves the next ticket.
func (m *TicketLock) Unlock() {
	m.serving.Add(1)
}

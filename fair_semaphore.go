package arena

import (
	"sync"

	"github.com/llxisdsh/arena/internal/opt"
)

// FairSemaphore is a counting semaphore that hands out permits strictly in
// arrival order.
//
// Semaphore lets a newcomer take a permit that a parked waiter was about to
// receive. FairSemaphore queues every caller that cannot be served at once
// and serves the queue head first, so with one permit it is a FIFO guard
// whose waiters sleep instead of spinning (compare TicketLock).
//
// The queue itself is protected by a TicketLock.
type FairSemaphore struct {
	_       noCopy
	mu      TicketLock
	permits int64
	head    *fairWaiter
	tail    *fairWaiter
}

type fairWaiter struct {
	next *fairWaiter
	n    int64
	sema opt.Sema
}

// NewFairSemaphore creates a FairSemaphore with the given number of permits.
func NewFairSemaphore(permits int64) *FairSemaphore {
	return &FairSemaphore{permits: permits}
}

// Acquire blocks until n permits are granted to the caller.
func (s *FairSemaphore) Acquire(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	if s.head == nil && s.permits >= n {
		s.permits -= n
		s.mu.Unlock()
		return
	}
	w := &fairWaiter{n: n}
	if s.tail == nil {
		s.head = w
	} else {
		s.tail.next = w
	}
	s.tail = w
	s.mu.Unlock()
	w.sema.Acquire()
	if opt.Race_ {
		// Order with the releaser for the race detector.
		s.mu.Lock()
		s.mu.Unlock()
	}
}

// TryAcquire takes n permits if they are available and nobody is queued.
func (s *FairSemaphore) TryAcquire(n int64) bool {
	if n <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil || s.permits < n {
		return false
	}
	s.permits -= n
	return true
}

// Release returns n permits and wakes queued callers, head first, while
// their demand can be met.
func (s *FairSemaphore) Release(n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.permits += n
	for s.head != nil && s.permits >= s.head.n {
		w := s.head
		s.permits -= w.n
		s.head = w.next
		if s.head == nil {
			s.tail = nil
		}
		w.sema.Release()
	}
	s.mu.Unlock()
}

// Locker returns a sync.Locker that acquires and releases one permit.
func (s *FairSemaphore) Locker() sync.Locker {
	return (*fairLocker)(s)
}

type fairLocker FairSemaphore

func (l *fairLocker) Lock()   { (*FairSemaphore)(l).Acquire(1) }
func (l *fairLocker) Unlock() { (*FairSemaphore)(l).Release(1) }

package arena

import (
	"sync"
	"sync/atomic"

	"github.com/llxisdsh/arena/internal/opt"
)

// Semaphore is a counting semaphore.
// It allows a fixed number of concurrent holders; with one permit it is a
// mutual-exclusion guard without an owner (see Locker).
//
// It is zero-value usable, starting with 0 permits.
type Semaphore struct {
	_ noCopy
	// permits is the number of available permits.
	// Positive: Available permits.
	// Negative: Number of waiters (approximately).
	permits atomic.Int64

	sema opt.Sema
}

// NewSemaphore creates a new Semaphore with a given number of initial permits.
func NewSemaphore(permits int64) *Semaphore {
	s := &Semaphore{}
	s.permits.Store(permits)
	return s
}

// Acquire acquires n permits.
// It blocks until n permits are available.
func (s *Semaphore) Acquire(n int64) {
	if n <= 0 {
		return
	}
	if s.permits.Add(-n) < 0 {
		s.sema.Acquire()
		if opt.Race_ {
			// Order with the releaser for the race detector.
			s.permits.Load()
		}
	}
}

// TryAcquire attempts to acquire n permits without blocking.
// Returns true on success.
func (s *Semaphore) TryAcquire(n int64) bool {
	for {
		p := s.permits.Load()
		if p < n {
			return false
		}
		if s.permits.CompareAndSwap(p, p-n) {
			return true
		}
	}
}

// Release releases n permits, waking at most n waiters.
func (s *Semaphore) Release(n int64) {
	if n <= 0 {
		return
	}
	v := s.permits.Add(n)
	// Waiters existed if the count was negative before the add.
	if before := v - n; before < 0 {
		for range min(-before, n) {
			s.sema.Release()
		}
	}
}

// Locker returns a sync.Locker that acquires and releases one permit.
func (s *Semaphore) Locker() sync.Locker {
	return (*semLocker)(s)
}

type semLocker Semaphore

func (l *semLocker) Lock()   { (*Semaphore)(l).Acquire(1) }
func (l *semLocker) Unlock() { (*Semaphore)(l).Release(1) }

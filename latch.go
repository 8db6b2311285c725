package arena

import (
	"sync/atomic"

	"github.com/llxisdsh/arena/internal/opt"
)

// Latch is a one-way door: Wait blocks until Open is called, and every
// Wait after that returns immediately.
//
// RunAll parks its workers on a Latch so that they all leave the starting
// line together and contend for the guard from the first iteration.
//
// It is 8 bytes in size (4 byte state + 4 byte semaphore).
type Latch struct {
	_ noCopy
	// state 32-bit:
	//   bit 0: open flag
	//   bits 1-31: waiter count
	state atomic.Uint32
	sema  opt.Sema
}

const (
	latchOpenFlag  = 1
	latchOneWaiter = 2 // 1 << 1
)

// Open opens the door and wakes every blocked waiter.
// It is idempotent.
func (e *Latch) Open() {
	for {
		s := e.state.Load()
		if s&latchOpenFlag != 0 {
			return
		}
		if e.state.CompareAndSwap(s, s|latchOpenFlag) {
			for range s >> 1 {
				e.sema.Release()
			}
			return
		}
	}
}

// Wait blocks until Open is called.
func (e *Latch) Wait() {
	for {
		s := e.state.Load()
		if s&latchOpenFlag != 0 {
			return
		}
		if e.state.CompareAndSwap(s, s+latchOneWaiter) {
			e.sema.Acquire()
			if opt.Race_ {
				e.state.Load()
			}
			return
		}
	}
}

// IsOpen reports whether Open has been called.
func (e *Latch) IsOpen() bool {
	return e.state.Load()&latchOpenFlag != 0
}

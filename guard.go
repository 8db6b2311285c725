package arena

import (
	"fmt"
	"sync"
)

// GuardKind names a mutual-exclusion implementation usable as an arena guard.
type GuardKind string

const (
	// GuardMutex is a sync.Mutex.
	GuardMutex GuardKind = "mutex"
	// GuardRWMutex is a sync.RWMutex; LockedSnapshot uses its read side.
	GuardRWMutex GuardKind = "rwmutex"
	// GuardTicket is a FIFO TicketLock.
	GuardTicket GuardKind = "ticket"
	// GuardSpin is the spinning RWLock.
	GuardSpin GuardKind = "spin"
	// GuardSemaphore is a Semaphore with a single permit.
	GuardSemaphore GuardKind = "semaphore"
	// GuardFair is a FairSemaphore with a single permit.
	GuardFair GuardKind = "fair"
	// GuardNone performs no locking at all. Concurrent increments on an
	// arena guarded by it lose updates; it exists to demonstrate that.
	GuardNone GuardKind = "none"
)

// GuardKinds lists every kind accepted by NewGuard.
func GuardKinds() []GuardKind {
	return []GuardKind{GuardMutex, GuardRWMutex, GuardTicket, GuardSpin, GuardSemaphore, GuardFair, GuardNone}
}

// ParseGuardKind validates s as a GuardKind. The empty string selects GuardMutex.
func ParseGuardKind(s string) (GuardKind, error) {
	if s == "" {
		return GuardMutex, nil
	}
	for _, k := range GuardKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("arena: unknown guard kind %q", s)
}

// NewGuard returns a new, unlocked guard of the given kind.
//
// panic if kind is unknown.
func NewGuard(kind GuardKind) sync.Locker {
	switch kind {
	case GuardMutex, "":
		return new(sync.Mutex)
	case GuardRWMutex:
		return new(sync.RWMutex)
	case GuardTicket:
		return new(TicketLock)
	case GuardSpin:
		return new(RWLock)
	case GuardSemaphore:
		return NewSemaphore(1).Locker()
	case GuardFair:
		return NewFairSemaphore(1).Locker()
	case GuardNone:
		return nopLocker{}
	}
	panic("arena: unknown guard kind " + string(kind))
}

// readLocker is the shared side of a reader/writer guard.
type readLocker interface {
	RLock()
	RUnlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

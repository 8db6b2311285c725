package arena

import (
	"math"
	"reflect"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"

	"github.com/llxisdsh/arena/internal/opt"
)

// Number is the set of cell types an Arena can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Metric names registered by an Arena created WithMetrics.
const (
	MetricIncrements = "arena.increments"
	MetricGuardWait  = "arena.guard.wait"
)

// Arena is a fixed-size sequence of numeric cells shared by concurrent
// workers. Every mutation happens while holding the arena's single guard,
// so the final value of a cell is its initial value plus every increment
// applied to it, regardless of how the workers interleave.
//
// Cells are stored as 64-bit words (the integer value, or the IEEE-754 bits
// for float types) and written with atomic stores inside the critical
// section. That keeps unguarded Snapshot reads free of data races; it does
// not make them consistent.
//
// The goroutine that calls New owns the arena. Workers borrow it until they
// return, and the owner must not rely on Snapshot until they have joined.
type Arena[T Number] struct {
	_     noCopy
	guard sync.Locker
	cells []opt.Cell_
	float bool

	timed      bool
	increments metrics.Counter
	wait       metrics.Timer
}

// Option configures an Arena at construction.
type Option func(*options)

type options struct {
	guard    sync.Locker
	kind     GuardKind
	registry metrics.Registry
}

// WithGuard uses l as the arena guard. The caller must not share l with
// other arenas unless a single critical section across them is intended.
func WithGuard(l sync.Locker) Option {
	return func(o *options) { o.guard = l }
}

// WithGuardKind creates a fresh guard of the given kind for the arena.
func WithGuardKind(kind GuardKind) Option {
	return func(o *options) { o.kind = kind }
}

// WithMetrics registers MetricIncrements and MetricGuardWait in r.
func WithMetrics(r metrics.Registry) Option {
	return func(o *options) { o.registry = r }
}

// New returns an arena with one cell per initial value, guarded by a
// sync.Mutex.
func New[T Number](initial ...T) *Arena[T] {
	return NewWithOptions(initial)
}

// NewWithOptions returns an arena with one cell per initial value.
// The values are copied.
func NewWithOptions[T Number](initial []T, opts ...Option) *Arena[T] {
	o := options{kind: GuardMutex}
	for _, fn := range opts {
		fn(&o)
	}
	if o.guard == nil {
		o.guard = NewGuard(o.kind)
	}

	kind := reflect.TypeFor[T]().Kind()
	a := &Arena[T]{
		guard:      o.guard,
		cells:      make([]opt.Cell_, len(initial)),
		float:      kind == reflect.Float32 || kind == reflect.Float64,
		increments: metrics.NilCounter{},
		wait:       metrics.NilTimer{},
	}
	if o.registry != nil {
		a.timed = true
		a.increments = metrics.GetOrRegisterCounter(MetricIncrements, o.registry)
		a.wait = metrics.GetOrRegisterTimer(MetricGuardWait, o.registry)
	}
	for i, v := range initial {
		a.cells[i].Bits.Store(a.encode(v))
	}
	return a
}

// Len returns the number of cells.
func (a *Arena[T]) Len() int {
	return len(a.cells)
}

// Value returns the current value of one cell without taking the guard.
func (a *Arena[T]) Value(index int) T {
	return a.decode(a.cells[index].Bits.Load())
}

// Snapshot returns the current value of every cell without taking the guard.
//
// The result is exact when no worker can mutate the arena: before any worker
// started, or after all of them joined. At any other point it is a
// best-effort view and may mix values from different critical sections.
func (a *Arena[T]) Snapshot() []T {
	out := make([]T, len(a.cells))
	for i := range a.cells {
		out[i] = a.decode(a.cells[i].Bits.Load())
	}
	return out
}

// LockedSnapshot returns every cell value observed inside one critical
// section. If the guard has a shared mode (RLock/RUnlock) it is used.
func (a *Arena[T]) LockedSnapshot() []T {
	if rl, ok := a.guard.(readLocker); ok {
		rl.RLock()
		defer rl.RUnlock()
	} else {
		a.lock()
		defer a.guard.Unlock()
	}
	return a.Snapshot()
}

// Increment adds amount to the cell at index while holding the guard.
// It panics if index is out of range; the guard is released either way.
func (a *Arena[T]) Increment(index int, amount T) {
	a.lock()
	defer a.guard.Unlock()
	a.add(&a.cells[index], amount)
	a.increments.Inc(1)
}

// IncrementAll adds amount to every cell within a single critical section.
func (a *Arena[T]) IncrementAll(amount T) {
	a.lock()
	defer a.guard.Unlock()
	for i := range a.cells {
		a.add(&a.cells[i], amount)
	}
	a.increments.Inc(int64(len(a.cells)))
}

func (a *Arena[T]) lock() {
	if !a.timed {
		a.guard.Lock()
		return
	}
	start := time.Now()
	a.guard.Lock()
	a.wait.UpdateSince(start)
}

// add must be called with the guard held.
// The load and store are separate atomics: the sum is only correct under the guard.
func (a *Arena[T]) add(c *opt.Cell_, amount T) {
	c.Bits.Store(a.encode(a.decode(c.Bits.Load()) + amount))
}

func (a *Arena[T]) encode(v T) uint64 {
	if a.float {
		return math.Float64bits(float64(v))
	}
	return uint64(int64(v))
}

func (a *Arena[T]) decode(bits uint64) T {
	if a.float {
		return T(math.Float64frombits(bits))
	}
	return T(int64(bits))
}

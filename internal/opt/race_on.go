//go:build race

package opt

// Race_ reports whether the binary was built with -race.
// Under the race detector the runtime semaphore does not publish
// happens-before edges, so shared state must be ordered with atomics.
const Race_ = true

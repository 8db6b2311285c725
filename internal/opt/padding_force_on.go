//go:build arena_enable_padding

package opt

import (
	"sync/atomic"
	"unsafe"
)

// Cell_ is the storage word of one arena cell.
// Padding is force-enabled via the arena_enable_padding build tag.
// Use: go build -tags=arena_enable_padding
type Cell_ struct {
	Bits atomic.Uint64
	_    [(CacheLineSize_ - unsafe.Sizeof(atomic.Uint64{})%CacheLineSize_) % CacheLineSize_]byte
}

const Padded_ = true

//go:build !(amd64 || 386 || arm || mips || mipsle || wasm) && !arena_disable_padding && !arena_enable_padding

package opt

import (
	"sync/atomic"
	"unsafe"
)

// Cell_ is the storage word of one arena cell, padded to a full cache line
// so that workers hammering neighbouring cells do not false-share.
//
// Enabled for: arm64, s390x, ppc64, ppc64le, riscv64, loong64, mips64, mips64le, etc.
type Cell_ struct {
	Bits atomic.Uint64
	_    [(CacheLineSize_ - unsafe.Sizeof(atomic.Uint64{})%CacheLineSize_) % CacheLineSize_]byte
}

const Padded_ = true

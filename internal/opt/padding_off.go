//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !arena_disable_padding && !arena_enable_padding

package opt

import "sync/atomic"

// Cell_ is the storage word of one arena cell.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type Cell_ struct {
	Bits atomic.Uint64
}

const Padded_ = false

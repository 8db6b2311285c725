//go:build arena_disable_padding && !arena_enable_padding

package opt

import "sync/atomic"

// Cell_ is the storage word of one arena cell.
// Padding is force-disabled via the arena_disable_padding build tag.
// Use: go build -tags=arena_disable_padding
type Cell_ struct {
	Bits atomic.Uint64
}

const Padded_ = false

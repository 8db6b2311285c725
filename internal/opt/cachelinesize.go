package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize_ is the padding unit used to keep arena cells on separate
// cache lines. It is taken from the golang.org/x/sys/cpu pad type.
const CacheLineSize_ = unsafe.Sizeof(cpu.CacheLinePad{})

// Package allocator defines the contract between containers that manage their
// own node memory and the service that supplies that memory.
package allocator

import (
	"unsafe"
)

// Allocator hands out and takes back fixed-layout memory blocks.
//
// Allocate returns a block of exactly l.Size bytes aligned to l.Align, or an
// error; it never returns a nil block with a nil error. When l.Type is set and
// contains pointers the block must be memory the garbage collector scans as
// l.Type, so values holding Go pointers can be stored in it.
//
// Deallocate must receive the layout the block was allocated with. Freeing a
// foreign pointer, freeing twice, or freeing with a different layout are
// program defects and implementations panic on them.
//
// Implementations are shared process-wide and must be safe for concurrent use.
type Allocator interface {
	Allocate(l Layout) (unsafe.Pointer, error)
	Deallocate(ptr unsafe.Pointer, l Layout)
}

// Stats is a snapshot of allocator activity.
type Stats struct {
	Allocs    uint64
	Frees     uint64
	Live      uint64
	LiveBytes uintptr
}

// Aligned reports whether ptr is aligned to align, which must be a power of two.
func Aligned(ptr unsafe.Pointer, align uintptr) bool {
	return uintptr(ptr)&(align-1) == 0
}

// AlignUp rounds n up to the next multiple of align, which must be a power of two.
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

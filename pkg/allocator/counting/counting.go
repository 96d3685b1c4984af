// Package counting wraps an allocator.Allocator and records every request it
// forwards. It is meant for tests that audit a container's memory discipline:
// balance of allocations and frees, layout fidelity, and behaviour under
// injected allocation failures.
package counting

import (
	"sync"
	"unsafe"

	"go-byoa/pkg/allocator"

	"github.com/pkg/errors"
)

type Op int

const (
	OpAllocate Op = iota
	OpDeallocate
)

func (o Op) String() string {
	if o == OpAllocate {
		return "allocate"
	}
	return "deallocate"
}

// Call is one forwarded request. Failed allocations are recorded with a nil
// Ptr.
type Call struct {
	Op     Op
	Ptr    unsafe.Pointer
	Layout allocator.Layout
}

// Mismatch is a free whose layout differs from the allocation of the block.
type Mismatch struct {
	Ptr       unsafe.Pointer
	Allocated allocator.Layout
	Freed     allocator.Layout
}

func New(inner allocator.Allocator) *Allocator {
	return &Allocator{
		inner:     inner,
		failAfter: -1,
		live:      map[unsafe.Pointer]allocator.Layout{},
	}
}

type Allocator struct {
	mu         sync.Mutex
	inner      allocator.Allocator
	calls      []Call
	live       map[unsafe.Pointer]allocator.Layout
	mismatches []Mismatch
	allocs     int
	frees      int
	failAfter  int // -1: never fail
}

func (a *Allocator) Allocate(l allocator.Layout) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failAfter == 0 {
		a.calls = append(a.calls, Call{Op: OpAllocate, Layout: l})
		return nil, errors.Wrap(allocator.ErrOutOfMemory, "injected failure")
	}

	ptr, err := a.inner.Allocate(l)
	a.calls = append(a.calls, Call{Op: OpAllocate, Ptr: ptr, Layout: l})
	if err != nil {
		return nil, err
	}

	if a.failAfter > 0 {
		a.failAfter--
	}
	a.allocs++
	a.live[ptr] = l
	return ptr, nil
}

func (a *Allocator) Deallocate(ptr unsafe.Pointer, l allocator.Layout) {
	a.mu.Lock()
	a.calls = append(a.calls, Call{Op: OpDeallocate, Ptr: ptr, Layout: l})
	if got, ok := a.live[ptr]; ok {
		if !got.Same(l) {
			a.mismatches = append(a.mismatches, Mismatch{Ptr: ptr, Allocated: got, Freed: l})
		}
		delete(a.live, ptr)
	}
	a.frees++
	a.mu.Unlock()

	a.inner.Deallocate(ptr, l)
}

// FailAfter lets the next n allocations through and fails every one after
// that with allocator.ErrOutOfMemory. A negative n clears the injection.
func (a *Allocator) FailAfter(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 0 {
		n = -1
	}
	a.failAfter = n
}

// Allocs returns the number of successful allocations.
func (a *Allocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

func (a *Allocator) Frees() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees
}

// Outstanding returns the number of blocks allocated and not yet freed.
func (a *Allocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Balanced reports whether every allocation has been matched by exactly one
// free with the same layout.
func (a *Allocator) Balanced() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs == a.frees && len(a.live) == 0 && len(a.mismatches) == 0
}

func (a *Allocator) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

func (a *Allocator) Mismatches() []Mismatch {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Mismatch(nil), a.mismatches...)
}

// Reset forgets the recorded history. Live blocks stay tracked.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = nil
	a.mismatches = nil
	a.allocs = len(a.live)
	a.frees = 0
}

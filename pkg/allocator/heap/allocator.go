// Package heap implements allocator.Allocator on top of the Go heap. Every
// live block is tracked so frees can be checked against their allocation.
package heap

import (
	"reflect"
	"sync"
	"unsafe"

	"go-byoa/pkg/allocator"
	"go-byoa/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Default is the process-wide allocator used when a container is given none.
var Default = New(nil)

func New(opts *Options) *Allocator {
	if opts == nil {
		opts = &Options{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.For("heap")
	}

	return &Allocator{
		limit: opts.Limit,
		live:  map[unsafe.Pointer]allocator.Layout{},
		log:   log,
	}
}

type Allocator struct {
	mu    sync.Mutex
	limit uintptr
	live  map[unsafe.Pointer]allocator.Layout // keeps blocks reachable until freed
	stats allocator.Stats
	log   logrus.FieldLogger
}

func (a *Allocator) Allocate(l allocator.Layout) (unsafe.Pointer, error) {
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid layout")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limit > 0 && a.stats.LiveBytes+l.Size > a.limit {
		a.log.WithFields(logrus.Fields{
			"layout": l,
			"live":   a.stats.LiveBytes,
			"limit":  a.limit,
		}).Warn("heap limit reached")
		return nil, errors.Wrapf(allocator.ErrOutOfMemory, "%d bytes requested, %d of %d in use",
			l.Size, a.stats.LiveBytes, a.limit)
	}

	ptr := newBlock(l)
	a.live[ptr] = l
	a.stats.Allocs++
	a.stats.Live++
	a.stats.LiveBytes += l.Size
	return ptr, nil
}

func (a *Allocator) Deallocate(ptr unsafe.Pointer, l allocator.Layout) {
	a.mu.Lock()
	defer a.mu.Unlock()

	got, ok := a.live[ptr]
	if !ok {
		panic(errors.Wrapf(allocator.ErrInvalidPointer, "free of untracked block %p", ptr))
	}
	if !got.Same(l) {
		panic(errors.Wrapf(allocator.ErrLayoutMismatch, "block %p allocated as %v, freed as %v", ptr, got, l))
	}

	if l.Type != nil {
		// drop whatever the block still references
		reflect.NewAt(l.Type, ptr).Elem().SetZero()
	}

	delete(a.live, ptr)
	a.stats.Frees++
	a.stats.Live--
	a.stats.LiveBytes -= l.Size
}

func (a *Allocator) Stats() allocator.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// newBlock returns zeroed memory for one block of l.
func newBlock(l allocator.Layout) unsafe.Pointer {
	if l.Type != nil {
		return reflect.New(l.Type).UnsafePointer()
	}

	if l.Align <= unsafe.Alignof(uint64(0)) {
		words := make([]uint64, allocator.AlignUp(l.Size, 8)/8)
		return unsafe.Pointer(&words[0])
	}

	buf := make([]byte, l.Size+l.Align-1)
	base := unsafe.Pointer(&buf[0])
	return unsafe.Add(base, allocator.AlignUp(uintptr(base), l.Align)-uintptr(base))
}

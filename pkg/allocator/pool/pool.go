// Package pool implements allocator.Allocator with per-layout slabs. Freed
// blocks are zeroed and kept on a free stack for the next allocation of the
// same layout.
package pool

import (
	"reflect"
	"sync"
	"unsafe"

	"go-byoa/pkg/allocator"
	"go-byoa/pkg/stack"
	"go-byoa/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func New(opts *Options) *Allocator {
	if opts == nil {
		opts = &Options{}
	}

	slabBlocks := opts.SlabBlocks
	if slabBlocks <= 0 {
		slabBlocks = DefaultSlabBlocks
	}

	log := opts.Logger
	if log == nil {
		log = logger.For("pool")
	}

	return &Allocator{
		slabBlocks: slabBlocks,
		maxSlabs:   opts.MaxSlabs,
		classes:    map[allocator.Layout]*class{},
		live:       map[unsafe.Pointer]allocator.Layout{},
		log:        log,
	}
}

// class holds every slab of one layout.
type class struct {
	free  *stack.Stack[unsafe.Pointer]
	slabs []unsafe.Pointer
	live  int
}

type Allocator struct {
	mu         sync.Mutex
	slabBlocks int
	maxSlabs   int
	slabs      int
	classes    map[allocator.Layout]*class
	live       map[unsafe.Pointer]allocator.Layout
	stats      allocator.Stats
	log        logrus.FieldLogger
}

func (a *Allocator) Allocate(l allocator.Layout) (unsafe.Pointer, error) {
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid layout")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.classes[l]
	if !ok {
		c = &class{free: stack.New[unsafe.Pointer](a.slabBlocks)}
		a.classes[l] = c
	}

	ptr, ok := c.free.Pop()
	if !ok {
		if err := a.grow(c, l); err != nil {
			return nil, errors.Wrap(err, "failed to grow size class")
		}
		ptr, _ = c.free.Pop()
	}

	c.live++
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
		reflect.NewAt(l.Type, ptr).Elem().SetZero()
	} else {
		clear(unsafe.Slice((*byte)(ptr), l.Size))
	}

	c := a.classes[l]
	c.live--
	c.free.Push(ptr)

	delete(a.live, ptr)
	a.stats.Frees++
	a.stats.Live--
	a.stats.LiveBytes -= l.Size
}

// Trim drops the slabs of every size class that has no live blocks and
// returns how many slabs were released.
func (a *Allocator) Trim() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	released := 0
	for l, c := range a.classes {
		if c.live > 0 {
			continue
		}
		released += len(c.slabs)
		delete(a.classes, l)
	}
	a.slabs -= released

	if released > 0 {
		a.log.WithField("slabs", released).Debug("trimmed idle size classes")
	}
	return released
}

func (a *Allocator) Stats() allocator.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Slabs returns the number of slabs currently held.
func (a *Allocator) Slabs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slabs
}

func (a *Allocator) grow(c *class, l allocator.Layout) error {
	if a.maxSlabs > 0 && a.slabs >= a.maxSlabs {
		a.log.WithFields(logrus.Fields{
			"layout": l,
			"slabs":  a.slabs,
		}).Warn("slab limit reached")
		return errors.Wrapf(allocator.ErrOutOfMemory, "%d slabs in use", a.slabs)
	}

	base, stride := newSlab(l, a.slabBlocks)
	c.slabs = append(c.slabs, base)
	a.slabs++

	// push in reverse so blocks are handed out in address order
	for i := a.slabBlocks - 1; i >= 0; i-- {
		c.free.Push(unsafe.Add(base, uintptr(i)*stride))
	}

	a.log.WithFields(logrus.Fields{
		"layout": l,
		"blocks": a.slabBlocks,
	}).Debug("new slab")
	return nil
}

// newSlab returns zeroed memory for n blocks of l and the distance between
// them.
func newSlab(l allocator.Layout, n int) (unsafe.Pointer, uintptr) {
	if l.Type != nil {
		s := reflect.MakeSlice(reflect.SliceOf(l.Type), n, n)
		return s.UnsafePointer(), l.Type.Size()
	}

	stride := l.Stride()
	buf := make([]byte, stride*uintptr(n)+l.Align-1)
	base := unsafe.Pointer(&buf[0])
	return unsafe.Add(base, allocator.AlignUp(uintptr(base), l.Align)-uintptr(base)), stride
}

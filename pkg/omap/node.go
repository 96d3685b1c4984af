package omap

import (
	"unsafe"

	"go-byoa/pkg/allocator"

	"github.com/pkg/errors"
)

type color byte

const (
	NODE_RED color = iota
	NODE_BLACK
)

type node[K, V any] struct {
	left   *node[K, V]
	right  *node[K, V]
	parent *node[K, V]
	color  color
	key    K
	value  V
}

func colorOf[K, V any](n *node[K, V]) color {
	if n == nil {
		return NODE_BLACK
	}
	return n.color
}

// alloc requests one node-sized block and initializes it as a red leaf.
func (m *Map[K, V]) alloc(key K, value V) (*node[K, V], error) {
	ptr, err := m.allocator.Allocate(m.layout)
	if err != nil {
		m.log.WithError(err).WithField("layout", m.layout).Warn("node allocation failed")
		return nil, errors.Wrap(err, "failed to allocate node")
	}

	if ptr == nil {
		return nil, errors.Wrap(ErrBadBlock, "nil block")
	}
	if !allocator.Aligned(ptr, m.layout.Align) {
		m.allocator.Deallocate(ptr, m.layout)
		return nil, errors.Wrapf(ErrBadBlock, "block %p is not aligned to %d", ptr, m.layout.Align)
	}

	n := (*node[K, V])(ptr)
	*n = node[K, V]{
		color: NODE_RED,
		key:   key,
		value: value,
	}
	return n, nil
}

// free releases n with the layout it was allocated with. n must already be
// unlinked.
func (m *Map[K, V]) free(n *node[K, V]) {
	*n = node[K, V]{}
	m.allocator.Deallocate(unsafe.Pointer(n), m.layout)
}

// Package omap is an ordered, key-unique map whose nodes are allocated one by
// one through an injected allocator.Allocator and linked into a red-black
// tree.
//
// Every node is requested with the same layout and released with that layout
// exactly once: when Remove takes its key out, when Insert replaces it under
// ReplaceNode, or when Clear tears the map down. A Map is not safe for
// concurrent use.
package omap

import (
	"go-byoa/pkg/allocator"
	"go-byoa/pkg/allocator/heap"
	"go-byoa/pkg/stack"
	"go-byoa/util/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

type Map[K constraints.Ordered, V any] struct {
	allocator allocator.Allocator
	layout    allocator.Layout
	replace   ReplacePolicy
	log       logrus.FieldLogger
	root      *node[K, V]
	count     int
}

// New returns an empty map. Nothing is allocated until the first Insert.
func New[K constraints.Ordered, V any](opts *Options) *Map[K, V] {
	if opts == nil {
		opts = &Options{}
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = heap.Default
	}

	log := opts.Logger
	if log == nil {
		log = logger.For("omap")
	}

	return &Map[K, V]{
		allocator: alloc,
		layout:    allocator.LayoutOf[node[K, V]](),
		replace:   opts.Replace,
		log:       log,
	}
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int {
	return m.count
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if n := m.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Insert stores value under key, replacing any previous value. If a node can
// not be allocated the error wraps the allocator's error and the map is left
// as it was.
func (m *Map[K, V]) Insert(key K, value V) error {
	parent, existing, less := m.locate(key)

	if existing != nil {
		if m.replace == ReplaceInPlace {
			// keys that compare equal may still differ in bits (-0.0, +0.0)
			existing.key = key
			existing.value = value
			return nil
		}

		fresh, err := m.alloc(key, value)
		if err != nil {
			return err
		}
		m.swap(existing, fresh)
		m.free(existing)
		return nil
	}

	n, err := m.alloc(key, value)
	if err != nil {
		return err
	}

	n.parent = parent
	switch {
	case parent == nil:
		m.root = n
	case less:
		parent.left = n
	default:
		parent.right = n
	}

	m.insertFixup(n)
	m.count++
	return nil
}

// Remove takes key out of the map and returns the value it held. ok is false
// when the key was not present, in which case nothing changes.
func (m *Map[K, V]) Remove(key K) (value V, ok bool) {
	n := m.find(key)
	if n == nil {
		return value, false
	}

	m.unlink(n)
	m.count--

	value = n.value
	m.free(n)
	return value, true
}

// Clear frees every node. The map stays usable.
func (m *Map[K, V]) Clear() {
	if m.root == nil {
		return
	}

	s := stack.New[*node[K, V]](m.count)
	s.Push(m.root)
	for {
		n, ok := s.Pop()
		if !ok {
			break
		}
		if n.left != nil {
			s.Push(n.left)
		}
		if n.right != nil {
			s.Push(n.right)
		}
		m.free(n)
	}

	m.root = nil
	m.count = 0
}

func (m *Map[K, V]) find(key K) *node[K, V] {
	n := m.root
	for n != nil {
		c := compare(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// locate walks down to key. It returns the node holding key if present,
// otherwise the would-be parent and whether key goes to its left.
func (m *Map[K, V]) locate(key K) (parent, existing *node[K, V], less bool) {
	n := m.root
	for n != nil {
		c := compare(key, n.key)
		if c == 0 {
			return n.parent, n, false
		}
		parent, less = n, c < 0
		if less {
			n = n.left
		} else {
			n = n.right
		}
	}
	return parent, nil, less
}

// compare orders keys totally: NaN sorts before every other value and equals
// itself.
func compare[K constraints.Ordered](a, b K) int {
	aNaN := a != a
	bNaN := b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

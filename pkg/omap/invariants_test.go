package omap

import (
	"testing"

	"go-byoa/pkg/stack"

	"github.com/stretchr/testify/require"
)

// walk visits every node in key order.
func (m *Map[K, V]) walk(fn func(key K, value V)) {
	s := stack.New[*node[K, V]](0)
	n := m.root
	for n != nil || s.Size() > 0 {
		for n != nil {
			s.Push(n)
			n = n.left
		}
		n, _ = s.Pop()
		fn(n.key, n.value)
		n = n.right
	}
}

func (m *Map[K, V]) keys() []K {
	keys := make([]K, 0, m.count)
	m.walk(func(k K, _ V) { keys = append(keys, k) })
	return keys
}

// verify checks ordering, parent links and the red-black rules.
func (m *Map[K, V]) verify(t *testing.T) {
	t.Helper()

	if m.root == nil {
		require.Zero(t, m.count)
		return
	}
	require.Nil(t, m.root.parent)
	require.Equal(t, NODE_BLACK, m.root.color)

	var check func(n *node[K, V]) (blackHeight, size int)
	check = func(n *node[K, V]) (int, int) {
		if n == nil {
			return 1, 0
		}
		if n.left != nil {
			require.Same(t, n, n.left.parent)
			require.Negative(t, compare(n.left.key, n.key))
		}
		if n.right != nil {
			require.Same(t, n, n.right.parent)
			require.Positive(t, compare(n.right.key, n.key))
		}
		if n.color == NODE_RED {
			require.Equal(t, NODE_BLACK, colorOf(n.left), "red node %v has red left child", n.key)
			require.Equal(t, NODE_BLACK, colorOf(n.right), "red node %v has red right child", n.key)
		}

		lh, ls := check(n.left)
		rh, rs := check(n.right)
		require.Equal(t, lh, rh, "black height differs under %v", n.key)
		if n.color == NODE_BLACK {
			lh++
		}
		return lh, ls + rs + 1
	}

	_, size := check(m.root)
	require.Equal(t, m.count, size)

	keys := m.keys()
	for i := 1; i < len(keys); i++ {
		require.Negative(t, compare(keys[i-1], keys[i]))
	}
}

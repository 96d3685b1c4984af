package omap

// rotateLeft turns
//
//	  x              y
//	a   y    =>    x   c
//	   b c        a b
func (m *Map[K, V]) rotateLeft(x *node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	m.replaceChild(x, y)
	y.left = x
	x.parent = y
}

func (m *Map[K, V]) rotateRight(x *node[K, V]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	m.replaceChild(x, y)
	y.right = x
	x.parent = y
}

// replaceChild hangs v where u hangs from u's parent. u's own links are left
// untouched.
func (m *Map[K, V]) replaceChild(u, v *node[K, V]) {
	switch {
	case u.parent == nil:
		m.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

// swap puts fresh in old's position, taking over its links and color. old is
// unlinked afterwards.
func (m *Map[K, V]) swap(old, fresh *node[K, V]) {
	m.replaceChild(old, fresh)
	fresh.left, fresh.right, fresh.color = old.left, old.right, old.color
	if fresh.left != nil {
		fresh.left.parent = fresh
	}
	if fresh.right != nil {
		fresh.right.parent = fresh
	}
	old.left, old.right, old.parent = nil, nil, nil
}

func (m *Map[K, V]) insertFixup(z *node[K, V]) {
	for colorOf(z.parent) == NODE_RED {
		// a red parent is never the root, so the grandparent exists
		gp := z.parent.parent
		if z.parent == gp.left {
			if y := gp.right; colorOf(y) == NODE_RED {
				z.parent.color = NODE_BLACK
				y.color = NODE_BLACK
				gp.color = NODE_RED
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				m.rotateLeft(z)
			}
			z.parent.color = NODE_BLACK
			gp.color = NODE_RED
			m.rotateRight(gp)
		} else {
			if y := gp.left; colorOf(y) == NODE_RED {
				z.parent.color = NODE_BLACK
				y.color = NODE_BLACK
				gp.color = NODE_RED
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				m.rotateRight(z)
			}
			z.parent.color = NODE_BLACK
			gp.color = NODE_RED
			m.rotateLeft(gp)
		}
	}
	m.root.color = NODE_BLACK
}

// unlink removes z from the tree and rebalances. z itself is moved, never
// copied into, so no other node changes identity.
func (m *Map[K, V]) unlink(z *node[K, V]) {
	var x, xParent *node[K, V]
	removed := z.color

	switch {
	case z.left == nil:
		x, xParent = z.right, z.parent
		m.replaceChild(z, z.right)
	case z.right == nil:
		x, xParent = z.left, z.parent
		m.replaceChild(z, z.left)
	default:
		y := z.right
		for y.left != nil {
			y = y.left
		}
		removed = y.color
		x = y.right

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			m.replaceChild(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		m.replaceChild(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	z.left, z.right, z.parent = nil, nil, nil
	if removed == NODE_BLACK {
		m.deleteFixup(x, xParent)
	}
}

// deleteFixup restores the black height after a black node left the path
// through x. x may be nil, so its parent is passed separately.
func (m *Map[K, V]) deleteFixup(x, parent *node[K, V]) {
	for x != m.root && colorOf(x) == NODE_BLACK {
		if x == parent.left {
			w := parent.right
			if w.color == NODE_RED {
				w.color = NODE_BLACK
				parent.color = NODE_RED
				m.rotateLeft(parent)
				w = parent.right
			}
			if colorOf(w.left) == NODE_BLACK && colorOf(w.right) == NODE_BLACK {
				w.color = NODE_RED
				x, parent = parent, parent.parent
				continue
			}
			if colorOf(w.right) == NODE_BLACK {
				w.left.color = NODE_BLACK
				w.color = NODE_RED
				m.rotateRight(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = NODE_BLACK
			w.right.color = NODE_BLACK
			m.rotateLeft(parent)
		} else {
			w := parent.left
			if w.color == NODE_RED {
				w.color = NODE_BLACK
				parent.color = NODE_RED
				m.rotateRight(parent)
				w = parent.left
			}
			if colorOf(w.left) == NODE_BLACK && colorOf(w.right) == NODE_BLACK {
				w.color = NODE_RED
				x, parent = parent, parent.parent
				continue
			}
			if colorOf(w.left) == NODE_BLACK {
				w.right.color = NODE_BLACK
				w.color = NODE_RED
				m.rotateLeft(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = NODE_BLACK
			w.left.color = NODE_BLACK
			m.rotateRight(parent)
		}
		x = m.root
	}
	if x != nil {
		x.color = NODE_BLACK
	}
}

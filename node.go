package octree

// nodeKind is the state of a node: an empty cube, a leaf holding exactly
// one pair, a branch with eight children tiling the cube, or a bucket of
// up to eight pairs in a cube too small to subdivide further.
type nodeKind uint8

const (
	nodeEmpty nodeKind = iota
	nodeLeaf
	nodeBranch
	nodeBucket
)

// node is a cube region of the index. Children are owned directly in a
// single eight-slot allocation, so ownership is strictly tree-shaped and
// subtrees are freed by dropping the child array.
type node[V any] struct {
	bounds   Bounds
	kind     nodeKind
	key      Point3D
	value    V
	children *[8]node[V]
}

// put inserts or replaces within this subtree. The caller guarantees p is
// inside n.bounds.
func (n *node[V]) put(p Point3D, v V) (prev V, replaced bool) {
	switch n.kind {
	case nodeEmpty:
		n.kind = nodeLeaf
		n.key, n.value = p, v
		return prev, false
	case nodeLeaf:
		if n.key == p {
			prev = n.value
			n.value = v
			return prev, true
		}
		// Points whose shared octant cube equals this cube cannot be
		// separated by subdivision: the midpoint has rounded onto a
		// limit and the child ranges no longer shrink. Splitting would
		// recurse forever, so such pairs go into a bucket instead.
		oct := n.bounds.octant(p)
		if oct == n.bounds.octant(n.key) && n.bounds.child(oct) == n.bounds {
			n.toBucket()
			return n.bucketPut(p, v)
		}
		n.split()
	case nodeBucket:
		return n.bucketPut(p, v)
	}
	return n.children[n.bounds.octant(p)].put(p, v)
}

// toBucket converts an unseparable leaf into a bucket: eight leaf slots
// sharing this node's cube, filled by scan instead of octant. A cube too
// small to subdivide spans at most two representable values per axis, so
// it holds at most eight distinct points and a slot is always free.
func (n *node[V]) toBucket() {
	children := new([8]node[V])
	for i := range children {
		children[i].bounds = n.bounds
	}
	children[0].kind = nodeLeaf
	children[0].key, children[0].value = n.key, n.value
	var zero V
	n.kind = nodeBucket
	n.children = children
	n.key, n.value = Point3D{}, zero
}

// bucketPut inserts or replaces within a bucket's slots.
func (n *node[V]) bucketPut(p Point3D, v V) (prev V, replaced bool) {
	var free *node[V]
	for i := range n.children {
		c := &n.children[i]
		if c.kind == nodeLeaf && c.key == p {
			prev = c.value
			c.value = v
			return prev, true
		}
		if c.kind == nodeEmpty && free == nil {
			free = c
		}
	}
	free.kind = nodeLeaf
	free.key, free.value = p, v
	return prev, false
}

// split converts a leaf into a branch, pushing the stored pair down into
// its octant. Splits cascade while both pairs land in the same child; the
// cube shrinks on at least one axis per level, so pairs either separate
// or reach an unsubdividable cube and bucket.
func (n *node[V]) split() {
	children := new([8]node[V])
	for i := range children {
		children[i].bounds = n.bounds.child(i)
	}
	key, value := n.key, n.value
	var zero V
	n.kind = nodeBranch
	n.children = children
	n.key, n.value = Point3D{}, zero
	n.children[n.bounds.octant(key)].put(key, value)
}

// find returns the leaf storing p, or nil. Iterative: each branch level
// narrows to exactly one octant.
func (n *node[V]) find(p Point3D) *node[V] {
	for {
		switch n.kind {
		case nodeEmpty:
			return nil
		case nodeLeaf:
			if n.key == p {
				return n
			}
			return nil
		case nodeBucket:
			for i := range n.children {
				if c := &n.children[i]; c.kind == nodeLeaf && c.key == p {
					return c
				}
			}
			return nil
		default:
			n = &n.children[n.bounds.octant(p)]
		}
	}
}

// remove deletes p from this subtree, collapsing branches whose children
// have emptied out.
func (n *node[V]) remove(p Point3D) (v V, ok bool) {
	switch n.kind {
	case nodeEmpty:
		return v, false
	case nodeLeaf:
		if n.key != p {
			return v, false
		}
		v = n.value
		n.toEmpty()
		return v, true
	case nodeBucket:
		for i := range n.children {
			if c := &n.children[i]; c.kind == nodeLeaf && c.key == p {
				v = c.value
				c.toEmpty()
				n.collapse()
				return v, true
			}
		}
		return v, false
	default:
		v, ok = n.children[n.bounds.octant(p)].remove(p)
		if ok {
			n.collapse()
		}
		return v, ok
	}
}

// collapse folds a branch back down after a removal: all-empty children
// make it empty, and a single remaining leaf child is adopted as this
// node's own pair. A single remaining branch child is left alone; that
// conservative choice keeps collapse O(1) per level.
func (n *node[V]) collapse() {
	var last *node[V]
	count := 0
	for i := range n.children {
		if c := &n.children[i]; c.kind != nodeEmpty {
			last = c
			count++
		}
	}
	switch {
	case count == 0:
		n.toEmpty()
	case count == 1 && last.kind == nodeLeaf:
		key, value := last.key, last.value
		n.toEmpty()
		n.kind = nodeLeaf
		n.key, n.value = key, value
	}
}

// toEmpty resets the node to the empty state, releasing any payload and
// subtree.
func (n *node[V]) toEmpty() {
	var zero V
	n.kind = nodeEmpty
	n.key = Point3D{}
	n.value = zero
	n.children = nil
}
